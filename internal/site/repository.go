// internal/site/repository.go
//
// Typed queries over the website tables.
//
// Context
// -------
// The publication pipeline reads websites, sections, and the owning
// business records, and writes leads.  Nothing else.  Every method takes
// a context.Context so a slow query is bounded by the request deadline.
//
// Workflow
// --------
//  1. Queries are written once with `?` placeholders and passed through
//     `db.Rebind`, so the same Store serves MySQL and Postgres pools.
//  2. Nullable text columns are COALESCEd to '' in SQL, keeping the Go
//     structs free of sql.NullString.
//  3. sql.ErrNoRows is translated into the package sentinels so callers
//     branch with errors.Is and never import database/sql.
//
// Notes
// -----
//   - Column lists match the struct tags; update both together.
//   - Sections are returned in storage order (id ascending).  Render
//     order is the composer's job.
//   - Oxford commas, two spaces after periods, no m-dash.
package site

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const siteColumns = `
        id, organization_id, kind, property_id, name,
        COALESCE(description, '')          AS description,
        slug,
        COALESCE(custom_domain, '')        AS custom_domain,
        custom_domain_verified, is_published,
        scheduled_publish_at, expires_at,
        is_password_protected,
        COALESCE(password_hash, '')        AS password_hash,
        require_lead_capture,
        COALESCE(lead_capture_message, '') AS lead_capture_message,
        COALESCE(primary_color, '')        AS primary_color,
        COALESCE(font_family, '')          AS font_family,
        template,
        COALESCE(logo_url, '')             AS logo_url,
        COALESCE(hero_image_url, '')       AS hero_image_url,
        created_at, updated_at`

const sectionColumns = `
        id, website_id, section_type, sort_order, is_visible, config,
        COALESCE(custom_title, '')     AS custom_title,
        COALESCE(background_color, '') AS background_color,
        padding_top, padding_bottom, created_at`

// Store wraps one connection pool.
type Store struct {
	db *sqlx.DB
}

// NewStore returns a Store over db.
func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

// SiteBySlug fetches the site with an exact slug inside one kind.
func (s *Store) SiteBySlug(ctx context.Context, kind Kind, slug string) (*Site, error) {
	q := s.db.Rebind(`SELECT ` + siteColumns + `
        FROM   website
        WHERE  kind = ?
          AND  slug = ?
        LIMIT  1`)
	var rec Site
	if err := s.db.GetContext(ctx, &rec, q, string(kind), slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSite
		}
		return nil, fmt.Errorf("site by slug %s/%s: %w", kind, slug, err)
	}
	return &rec, nil
}

// SitesByDomain returns up to two sites claiming domain across both kinds.
// Two rows means the domain is ambiguous; callers treat that as missing.
func (s *Store) SitesByDomain(ctx context.Context, domain string) ([]Site, error) {
	q := s.db.Rebind(`SELECT ` + siteColumns + `
        FROM   website
        WHERE  custom_domain = ?
        ORDER  BY id
        LIMIT  2`)
	var rows []Site
	if err := s.db.SelectContext(ctx, &rows, q, domain); err != nil {
		return nil, fmt.Errorf("sites by domain %q: %w", domain, err)
	}
	return rows, nil
}

// Sections lists every section of a site in storage order, hidden ones
// included.
func (s *Store) Sections(ctx context.Context, siteID uint64) ([]Section, error) {
	q := s.db.Rebind(`SELECT ` + sectionColumns + `
        FROM   website_section
        WHERE  website_id = ?
        ORDER  BY id`)
	var rows []Section
	if err := s.db.SelectContext(ctx, &rows, q, siteID); err != nil {
		return nil, fmt.Errorf("sections of site %d: %w", siteID, err)
	}
	return rows, nil
}

// SectionByID fetches one section.
func (s *Store) SectionByID(ctx context.Context, id uint64) (*Section, error) {
	q := s.db.Rebind(`SELECT ` + sectionColumns + `
        FROM   website_section
        WHERE  id = ?`)
	var rec Section
	if err := s.db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSection
		}
		return nil, fmt.Errorf("section %d: %w", id, err)
	}
	return &rec, nil
}

// AddSection inserts sec and returns its new id.  Postgres has no
// LastInsertId, so the pgx path uses RETURNING.
func (s *Store) AddSection(ctx context.Context, sec *Section) (uint64, error) {
	const ins = `INSERT INTO website_section
        (website_id, section_type, sort_order, is_visible, config,
         custom_title, background_color, padding_top, padding_bottom, created_at)
        VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, ?)`
	args := []any{
		sec.SiteID, sec.Type, sec.SortOrder, sec.IsVisible, []byte(sec.Config),
		sec.CustomTitle, sec.BackgroundColor, sec.PaddingTop, sec.PaddingBottom, sec.CreatedAt,
	}

	if s.db.DriverName() == "pgx" {
		var id uint64
		if err := s.db.QueryRowxContext(ctx, s.db.Rebind(ins+` RETURNING id`), args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("add section: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(ins), args...)
	if err != nil {
		return 0, fmt.Errorf("add section: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add section: %w", err)
	}
	return uint64(id), nil
}

// UpdateSectionConfig replaces the stored config JSON of one section.
// Callers compute the merged object first; see section.Merge.
func (s *Store) UpdateSectionConfig(ctx context.Context, id uint64, cfg json.RawMessage) error {
	q := s.db.Rebind(`UPDATE website_section SET config = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, []byte(cfg), id)
	if err != nil {
		return fmt.Errorf("update section %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoSection
	}
	return nil
}

// Organization fetches the owning business.
func (s *Store) Organization(ctx context.Context, id uint64) (*Organization, error) {
	q := s.db.Rebind(`
        SELECT id, name,
               COALESCE(email, '')    AS email,
               COALESCE(phone, '')    AS phone,
               COALESCE(website, '')  AS website,
               COALESCE(logo_url, '') AS logo_url
        FROM   organization
        WHERE  id = ?`)
	var rec Organization
	if err := s.db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoBusiness
		}
		return nil, fmt.Errorf("organization %d: %w", id, err)
	}
	return &rec, nil
}

// Property fetches a listing together with its agent columns.
func (s *Store) Property(ctx context.Context, id uint64) (*Property, error) {
	q := s.db.Rebind(`
        SELECT id, organization_id, address,
               COALESCE(city, '')             AS city,
               COALESCE(state, '')            AS state,
               COALESCE(postal_code, '')      AS postal_code,
               COALESCE(price_cents, 0)       AS price_cents,
               COALESCE(beds, 0)              AS beds,
               COALESCE(baths, 0)             AS baths,
               COALESCE(square_feet, 0)       AS square_feet,
               COALESCE(lot_size, '')         AS lot_size,
               COALESCE(year_built, 0)        AS year_built,
               COALESCE(property_type, '')    AS property_type,
               COALESCE(description, '')      AS description,
               features, photos,
               COALESCE(virtual_tour_url, '') AS virtual_tour_url,
               latitude, longitude,
               COALESCE(walk_score, 0)        AS walk_score,
               COALESCE(transit_score, 0)     AS transit_score,
               COALESCE(bike_score, 0)        AS bike_score,
               COALESCE(agent_name, '')       AS agent_name,
               COALESCE(agent_email, '')      AS agent_email,
               COALESCE(agent_phone, '')      AS agent_phone,
               COALESCE(agent_photo_url, '')  AS agent_photo_url,
               COALESCE(agent_title, '')      AS agent_title,
               COALESCE(brokerage, '')        AS brokerage
        FROM   property
        WHERE  id = ?`)
	var rec Property
	if err := s.db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoBusiness
		}
		return nil, fmt.Errorf("property %d: %w", id, err)
	}
	return &rec, nil
}

// Business loads the auto-fill records for st.  Property sites without a
// linked property still get their organization.
func (s *Store) Business(ctx context.Context, st *Site) (*Business, error) {
	org, err := s.Organization(ctx, st.OrganizationID)
	if err != nil {
		return nil, err
	}
	b := &Business{Organization: org}
	if st.Kind == KindProperty && st.PropertyID != nil {
		if b.Property, err = s.Property(ctx, *st.PropertyID); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// InsertLead persists one lead.  ID and CreatedAt are set by the caller.
func (s *Store) InsertLead(ctx context.Context, l *Lead) error {
	q := s.db.Rebind(`INSERT INTO lead
        (id, website_id, site_kind, name, email, phone, message, source,
         section_id, ip, user_agent, country, created_at)
        VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, q,
		l.ID, l.SiteID, string(l.SiteKind), l.Name, l.Email, l.Phone, l.Message,
		l.Source, l.SectionID, l.IP, l.UserAgent, l.Country, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead for site %d: %w", l.SiteID, err)
	}
	return nil
}
