package sitecache

import (
	"context"
	"strconv"
	"time"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// Backend is the uncached store.  *site.Store satisfies it.
type Backend interface {
	SiteBySlug(ctx context.Context, kind site.Kind, slug string) (*site.Site, error)
	SitesByDomain(ctx context.Context, domain string) ([]site.Site, error)
	Sections(ctx context.Context, siteID uint64) ([]site.Section, error)
	Business(ctx context.Context, s *site.Site) (*site.Business, error)
}

// Store decorates a Backend with one Cache per read.  It satisfies the
// same read interfaces as Backend, so callers do not know whether caching
// is on.
type Store struct {
	backend  Backend
	slugs    *Cache[*site.Site]
	domains  *Cache[[]site.Site]
	sections *Cache[[]site.Section]
	business *Cache[*site.Business]
}

// NewStore wraps backend.  ttl <= 0 keeps only load collapsing.
func NewStore(backend Backend, ttl time.Duration, maxEntries int) *Store {
	return &Store{
		backend:  backend,
		slugs:    New[*site.Site]("site_slug", ttl, maxEntries),
		domains:  New[[]site.Site]("site_domain", ttl, maxEntries),
		sections: New[[]site.Section]("sections", ttl, maxEntries),
		business: New[*site.Business]("business", ttl, maxEntries),
	}
}

func (s *Store) SiteBySlug(ctx context.Context, kind site.Kind, slug string) (*site.Site, error) {
	return s.slugs.Get(ctx, string(kind)+"/"+slug, func(ctx context.Context) (*site.Site, error) {
		return s.backend.SiteBySlug(ctx, kind, slug)
	})
}

func (s *Store) SitesByDomain(ctx context.Context, domain string) ([]site.Site, error) {
	return s.domains.Get(ctx, domain, func(ctx context.Context) ([]site.Site, error) {
		return s.backend.SitesByDomain(ctx, domain)
	})
}

func (s *Store) Sections(ctx context.Context, siteID uint64) ([]site.Section, error) {
	return s.sections.Get(ctx, strconv.FormatUint(siteID, 10), func(ctx context.Context) ([]site.Section, error) {
		return s.backend.Sections(ctx, siteID)
	})
}

// Business is keyed by organization and property id, which is all the
// backend reads from st.
func (s *Store) Business(ctx context.Context, st *site.Site) (*site.Business, error) {
	key := strconv.FormatUint(st.OrganizationID, 10)
	if st.Kind == site.KindProperty && st.PropertyID != nil {
		key += "/" + strconv.FormatUint(*st.PropertyID, 10)
	}
	return s.business.Get(ctx, key, func(ctx context.Context) (*site.Business, error) {
		return s.backend.Business(ctx, st)
	})
}

// Close stops every evictor.
func (s *Store) Close() {
	s.slugs.Close()
	s.domains.Close()
	s.sections.Close()
	s.business.Close()
}
