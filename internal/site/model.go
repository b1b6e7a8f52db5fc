// Package site holds the persisted records the publication pipeline reads:
// websites, their sections, the owning business records used for
// auto-fill, and the leads the gates produce.  Everything here is plain
// data plus typed sqlx queries; no rendering or gating logic lives in this
// package.
//
// Schema reference
//
//	CREATE TABLE website (
//	    id                     BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    organization_id        BIGINT UNSIGNED NOT NULL,
//	    kind                   VARCHAR(16)  NOT NULL,          -- portfolio | property
//	    property_id            BIGINT UNSIGNED NULL,
//	    name                   VARCHAR(255) NOT NULL,
//	    description            TEXT NULL,
//	    slug                   VARCHAR(128) NOT NULL,
//	    custom_domain          VARCHAR(255) NULL UNIQUE,
//	    custom_domain_verified TINYINT(1)   NOT NULL DEFAULT 0,
//	    is_published           TINYINT(1)   NOT NULL DEFAULT 0,
//	    scheduled_publish_at   TIMESTAMP NULL,
//	    expires_at             TIMESTAMP NULL,
//	    is_password_protected  TINYINT(1)   NOT NULL DEFAULT 0,
//	    password_hash          VARCHAR(255) NULL,
//	    require_lead_capture   TINYINT(1)   NOT NULL DEFAULT 0,
//	    lead_capture_message   TEXT NULL,
//	    primary_color          VARCHAR(16)  NULL,
//	    font_family            VARCHAR(64)  NULL,
//	    template               VARCHAR(32)  NOT NULL DEFAULT 'modern',
//	    logo_url               VARCHAR(512) NULL,
//	    hero_image_url         VARCHAR(512) NULL,
//	    created_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    UNIQUE KEY uq_website_kind_slug (kind, slug)
//	);
package site

import "time"

// Kind separates the two website namespaces.  Slugs are unique per kind.
type Kind string

const (
	KindPortfolio Kind = "portfolio"
	KindProperty  Kind = "property"
)

// Kinds lists every valid kind.
var Kinds = []Kind{KindPortfolio, KindProperty}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// Availability is the publication state of a site at one instant.
type Availability int

const (
	Unpublished Availability = iota
	Live
	Expired
)

func (a Availability) String() string {
	switch a {
	case Live:
		return "live"
	case Expired:
		return "expired"
	default:
		return "unpublished"
	}
}

// Site mirrors one row in the `website` table.  Nullable text columns are
// COALESCEd to "" in queries; nullable timestamps stay pointers.
type Site struct {
	ID                   uint64     `db:"id"`
	OrganizationID       uint64     `db:"organization_id"`
	Kind                 Kind       `db:"kind"`
	PropertyID           *uint64    `db:"property_id"`
	Name                 string     `db:"name"`
	Description          string     `db:"description"`
	Slug                 string     `db:"slug"`
	CustomDomain         string     `db:"custom_domain"`
	CustomDomainVerified bool       `db:"custom_domain_verified"`
	IsPublished          bool       `db:"is_published"`
	ScheduledPublishAt   *time.Time `db:"scheduled_publish_at"`
	ExpiresAt            *time.Time `db:"expires_at"`
	IsPasswordProtected  bool       `db:"is_password_protected"`
	PasswordHash         string     `db:"password_hash"`
	RequireLeadCapture   bool       `db:"require_lead_capture"`
	LeadCaptureMessage   string     `db:"lead_capture_message"`
	PrimaryColor         string     `db:"primary_color"`
	FontFamily           string     `db:"font_family"`
	Template             string     `db:"template"`
	LogoURL              string     `db:"logo_url"`
	HeroImageURL         string     `db:"hero_image_url"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

// Availability applies the visibility invariant: published, past any
// scheduled publish time, and not past its expiry.  Expiry is only
// reported for sites that would otherwise be live, so an unpublished
// site never reveals that it has expired.
func (s *Site) Availability(now time.Time) Availability {
	if !s.IsPublished {
		return Unpublished
	}
	if s.ScheduledPublishAt != nil && now.Before(*s.ScheduledPublishAt) {
		return Unpublished
	}
	if s.ExpiresAt != nil && !now.Before(*s.ExpiresAt) {
		return Expired
	}
	return Live
}

// Path is the canonical slug route for the site.
func (s *Site) Path() string { return "/" + string(s.Kind) + "/" + s.Slug }
