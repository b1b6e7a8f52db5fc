package site

import "time"

// Lead sources.
const (
	LeadSourceGate    = "gate"
	LeadSourceContact = "contact"
	LeadSourceInquiry = "inquiry"
)

// Lead is produced by the lead-capture gate and by contact or inquiry
// section submissions.
//
//	CREATE TABLE lead (
//	    id          CHAR(36) PRIMARY KEY,
//	    website_id  BIGINT UNSIGNED NOT NULL,
//	    site_kind   VARCHAR(16)  NOT NULL,
//	    name        VARCHAR(255) NOT NULL DEFAULT '',
//	    email       VARCHAR(254) NOT NULL,
//	    phone       VARCHAR(64)  NOT NULL DEFAULT '',
//	    message     TEXT NULL,
//	    source      VARCHAR(16)  NOT NULL,
//	    section_id  BIGINT UNSIGNED NULL,
//	    ip          VARCHAR(64)  NOT NULL DEFAULT '',
//	    user_agent  VARCHAR(512) NOT NULL DEFAULT '',
//	    country     CHAR(2)      NOT NULL DEFAULT '',
//	    created_at  TIMESTAMP NOT NULL,
//	    FOREIGN KEY (website_id) REFERENCES website(id) ON DELETE CASCADE
//	);
type Lead struct {
	ID        string    `db:"id"`
	SiteID    uint64    `db:"website_id"`
	SiteKind  Kind      `db:"site_kind"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Message   string    `db:"message"`
	Source    string    `db:"source"`
	SectionID *uint64   `db:"section_id"`
	IP        string    `db:"ip"`
	UserAgent string    `db:"user_agent"`
	Country   string    `db:"country"`
	CreatedAt time.Time `db:"created_at"`
}
