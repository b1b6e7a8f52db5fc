// Package resolve maps an inbound visitor request, by path slug or by
// custom domain, to one canonical site record.
//
// The resolver is read-only and makes no publication judgement: it only
// enforces slug shape and custom-domain verification.  Missing, ambiguous,
// and unverified records all surface as ErrNotFound so no caller can tell
// them apart.  Whether a found site is live, unpublished, or expired is
// decided by the caller from the record itself.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/routing"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// ErrNotFound covers every "no usable site" outcome.
var ErrNotFound = errors.New("resolve: site not found")

// Store is the subset of site.Store the resolver reads.
type Store interface {
	SiteBySlug(ctx context.Context, kind site.Kind, slug string) (*site.Site, error)
	SitesByDomain(ctx context.Context, domain string) ([]site.Site, error)
}

// Resolver looks sites up through a Store.
type Resolver struct {
	store Store
	log   *zap.Logger
}

// New returns a Resolver.  A nil logger falls back to zap.L().
func New(store Store, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.L()
	}
	return &Resolver{store: store, log: log}
}

// BySlug returns the site of kind with exactly slug.  Matching is
// case-sensitive; nothing is normalised.
func (r *Resolver) BySlug(ctx context.Context, kind site.Kind, slug string) (*site.Site, error) {
	if !kind.IsValid() || !routing.ValidSlug(slug) {
		return nil, ErrNotFound
	}
	s, err := r.store.SiteBySlug(ctx, kind, slug)
	switch {
	case errors.Is(err, site.ErrNoSite):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("resolve slug %s/%s: %w", kind, slug, err)
	}
	return s, nil
}

// ByDomain returns the site whose verified custom domain equals domain.
// domain may be a raw Host header value.
func (r *Resolver) ByDomain(ctx context.Context, domain string) (*site.Site, error) {
	domain = routing.NormalizeHost(domain)
	if domain == "" {
		return nil, ErrNotFound
	}

	rows, err := r.store.SitesByDomain(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("resolve domain %q: %w", domain, err)
	}
	switch len(rows) {
	case 0:
		return nil, ErrNotFound
	case 1:
	default:
		r.log.Warn("custom domain claimed by several sites",
			zap.String("domain", domain),
			zap.Uint64("first_id", rows[0].ID),
			zap.Uint64("second_id", rows[1].ID))
		return nil, ErrNotFound
	}

	s := rows[0]
	if !s.CustomDomainVerified {
		return nil, ErrNotFound
	}
	return &s, nil
}
