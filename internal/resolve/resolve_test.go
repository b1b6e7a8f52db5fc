package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

type fakeStore struct {
	bySlug   map[string]*site.Site
	byDomain map[string][]site.Site
	err      error
	calls    int
}

func (f *fakeStore) SiteBySlug(_ context.Context, kind site.Kind, slug string) (*site.Site, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.bySlug[string(kind)+"/"+slug]
	if !ok {
		return nil, site.ErrNoSite
	}
	return s, nil
}

func (f *fakeStore) SitesByDomain(_ context.Context, domain string) ([]site.Site, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byDomain[domain], nil
}

func TestBySlug(t *testing.T) {
	store := &fakeStore{bySlug: map[string]*site.Site{
		"property/123-main-st": {ID: 1, Kind: site.KindProperty, Slug: "123-main-st"},
	}}
	r := New(store, zap.NewNop())
	ctx := context.Background()

	got, err := r.BySlug(ctx, site.KindProperty, "123-main-st")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)

	// case-sensitive, kind-scoped
	_, err = r.BySlug(ctx, site.KindProperty, "123-Main-St")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.BySlug(ctx, site.KindPortfolio, "123-main-st")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBySlug_InvalidShapeSkipsQuery(t *testing.T) {
	store := &fakeStore{}
	r := New(store, nil)

	_, err := r.BySlug(context.Background(), site.KindPortfolio, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.BySlug(context.Background(), "gallery", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.calls)
}

func TestBySlug_QueryFailureIsNotNotFound(t *testing.T) {
	r := New(&fakeStore{err: errors.New("db down")}, nil)
	_, err := r.BySlug(context.Background(), site.KindPortfolio, "jane")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestByDomain(t *testing.T) {
	store := &fakeStore{byDomain: map[string][]site.Site{
		"photos.jane.test": {{ID: 1, CustomDomain: "photos.jane.test", CustomDomainVerified: true}},
		"pending.test":     {{ID: 2, CustomDomain: "pending.test"}},
		"shared.test":      {{ID: 3, CustomDomainVerified: true}, {ID: 4, CustomDomainVerified: true}},
	}}
	r := New(store, zap.NewNop())
	ctx := context.Background()

	got, err := r.ByDomain(ctx, "Photos.Jane.Test:443")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)

	for _, d := range []string{"pending.test", "shared.test", "unknown.test", ""} {
		_, err := r.ByDomain(ctx, d)
		assert.ErrorIsf(t, err, ErrNotFound, "domain %q", d)
	}
}
