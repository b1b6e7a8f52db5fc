package site

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Organization is the owning photography business.  Portfolio sections
// auto-fill contact details from it.
type Organization struct {
	ID      uint64 `db:"id"`
	Name    string `db:"name"`
	Email   string `db:"email"`
	Phone   string `db:"phone"`
	Website string `db:"website"`
	LogoURL string `db:"logo_url"`
}

// Property is the listing behind a property website.  Listing-agent
// columns live on the same row.
type Property struct {
	ID             uint64     `db:"id"`
	OrganizationID uint64     `db:"organization_id"`
	Address        string     `db:"address"`
	City           string     `db:"city"`
	State          string     `db:"state"`
	PostalCode     string     `db:"postal_code"`
	PriceCents     int64      `db:"price_cents"`
	Beds           int        `db:"beds"`
	Baths          float64    `db:"baths"`
	SquareFeet     int        `db:"square_feet"`
	LotSize        string     `db:"lot_size"`
	YearBuilt      int        `db:"year_built"`
	PropertyType   string     `db:"property_type"`
	Description    string     `db:"description"`
	Features       StringList `db:"features"`
	Photos         PhotoList  `db:"photos"`
	VirtualTourURL string     `db:"virtual_tour_url"`
	Latitude       *float64   `db:"latitude"`
	Longitude      *float64   `db:"longitude"`
	WalkScore      int        `db:"walk_score"`
	TransitScore   int        `db:"transit_score"`
	BikeScore      int        `db:"bike_score"`
	AgentName      string     `db:"agent_name"`
	AgentEmail     string     `db:"agent_email"`
	AgentPhone     string     `db:"agent_phone"`
	AgentPhotoURL  string     `db:"agent_photo_url"`
	AgentTitle     string     `db:"agent_title"`
	Brokerage      string     `db:"brokerage"`
}

// FullAddress joins street, city, state, and postal code.
func (p *Property) FullAddress() string {
	out := p.Address
	locality := p.City
	if p.State != "" {
		if locality != "" {
			locality += ", "
		}
		locality += p.State
	}
	if p.PostalCode != "" {
		if locality != "" {
			locality += " "
		}
		locality += p.PostalCode
	}
	if locality != "" {
		if out != "" {
			out += ", "
		}
		out += locality
	}
	return out
}

// Business bundles the live records auto-fill sections read.  Property is
// nil for portfolio sites.
type Business struct {
	Organization *Organization
	Property     *Property
}

//
// JSON column helpers
//

// Photo is one listing image.
type Photo struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// StringList scans a JSON array column.
type StringList []string

// PhotoList scans a JSON array of photo objects.
type PhotoList []Photo

func (l *StringList) Scan(src any) error { return scanJSON(src, l) }
func (l *PhotoList) Scan(src any) error  { return scanJSON(src, l) }

func (l StringList) Value() (driver.Value, error) { return json.Marshal(l) }
func (l PhotoList) Value() (driver.Value, error)  { return json.Marshal(l) }

func scanJSON(src any, dst any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("site: cannot scan %T into JSON list", src)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Join(errors.New("site: malformed JSON list"), err)
	}
	return nil
}
