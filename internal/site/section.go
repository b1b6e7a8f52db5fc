package site

import (
	"encoding/json"
	"time"
)

// Section mirrors one row in `website_section`.  Config is the raw JSON
// object whose shape depends on Type; the section package decodes it.
//
//	CREATE TABLE website_section (
//	    id               BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    website_id       BIGINT UNSIGNED NOT NULL,
//	    section_type     VARCHAR(32)  NOT NULL,
//	    sort_order       INT          NOT NULL DEFAULT 0,
//	    is_visible       TINYINT(1)   NOT NULL DEFAULT 1,
//	    config           JSON         NOT NULL,
//	    custom_title     VARCHAR(255) NULL,
//	    background_color VARCHAR(16)  NULL,
//	    padding_top      INT NULL,
//	    padding_bottom   INT NULL,
//	    created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    FOREIGN KEY (website_id) REFERENCES website(id) ON DELETE CASCADE
//	);
type Section struct {
	ID              uint64          `db:"id"`
	SiteID          uint64          `db:"website_id"`
	Type            string          `db:"section_type"`
	SortOrder       int             `db:"sort_order"`
	IsVisible       bool            `db:"is_visible"`
	Config          json.RawMessage `db:"config"`
	CustomTitle     string          `db:"custom_title"`
	BackgroundColor string          `db:"background_color"`
	PaddingTop      *int            `db:"padding_top"`
	PaddingBottom   *int            `db:"padding_bottom"`
	CreatedAt       time.Time       `db:"created_at"`
}

// ConfigMap decodes Config into a generic object.  Empty or null configs
// yield an empty map; anything that is not a JSON object is an error.
func (s *Section) ConfigMap() (map[string]any, error) {
	out := map[string]any{}
	if len(s.Config) == 0 || string(s.Config) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(s.Config, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
