package website

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/component"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/form"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/publish"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/render"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/resolve"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/routing"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/view"
)

type store []site.Site

func (s store) SiteBySlug(_ context.Context, k site.Kind, slug string) (*site.Site, error) {
	for i := range s {
		if s[i].Kind == k && s[i].Slug == slug {
			return &s[i], nil
		}
	}
	return nil, site.ErrNoSite
}

func (s store) SitesByDomain(_ context.Context, d string) ([]site.Site, error) {
	var out []site.Site
	for _, st := range s {
		if st.CustomDomain == d && st.CustomDomainVerified {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s store) Sections(context.Context, uint64) ([]site.Section, error) {
	return []site.Section{{ID: 1, Type: "text", IsVisible: true, Config: json.RawMessage(`{"content":"Hello from the studio"}`)}}, nil
}

func (s store) Business(context.Context, *site.Site) (*site.Business, error) { return nil, site.ErrNoBusiness }

func newHandler(t *testing.T, sites ...site.Site) http.Handler {
	t.Helper()
	st := store(sites)
	log := zap.NewNop()
	forms, err := form.LoadDefaults(form.NewGuard(""))
	require.NoError(t, err)
	disp, err := render.New(log)
	require.NoError(t, err)
	views, err := view.New()
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(routing.DomainRewrite([]string{"sites.example.com"}))
	require.NoError(t, component.Mount(r, component.Deps{
		Pipeline: publish.New(publish.Deps{Sites: resolve.New(st, log), Content: st, Dispatcher: disp, Forms: forms, Logger: log}),
		Grants:   grant.NewIssuer(""),
		Views:    views,
	}, &Component{}))
	return r
}

func get(h http.Handler, host, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPagesBySlug(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	h := newHandler(t,
		site.Site{ID: 1, Kind: site.KindPortfolio, Slug: "jane", Name: "Jane Doe Photo", IsPublished: true},
		site.Site{ID: 2, Kind: site.KindProperty, Slug: "draft-house"},
		site.Site{ID: 3, Kind: site.KindProperty, Slug: "sold", IsPublished: true, ExpiresAt: &past},
	)

	rec := get(h, "sites.example.com", "/portfolio/jane")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello from the studio")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	// Slugs are scoped by kind.
	assert.Equal(t, http.StatusNotFound, get(h, "sites.example.com", "/property/jane").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "sites.example.com", "/property/draft-house").Code)

	rec = get(h, "sites.example.com", "/property/sold")
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Hello from the studio")
}

func TestPagesByCustomDomain(t *testing.T) {
	h := newHandler(t,
		site.Site{ID: 1, Kind: site.KindPortfolio, Slug: "jane", IsPublished: true,
			CustomDomain: "janedoe.photo", CustomDomainVerified: true},
		site.Site{ID: 2, Kind: site.KindPortfolio, Slug: "pending", IsPublished: true,
			CustomDomain: "pending.photo"},
	)

	rec := get(h, "JaneDoe.photo:443", "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello from the studio")

	assert.Equal(t, http.StatusNotFound, get(h, "janedoe.photo", "/about").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "pending.photo", "/").Code)
}
