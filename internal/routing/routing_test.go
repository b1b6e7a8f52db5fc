// internal/routing/routing_test.go
//
// Unit-tests for DomainRewrite and the slug helpers.
//
// Context
// -------
// DomainRewrite decides, per request, whether the Host is the platform or
// a customer's custom domain.  These tests pin three behaviours:
//
//   • Platform host                       → path untouched
//   • Custom domain                       → /_domain/<host>/<path>
//   • Custom domain on a shared prefix    → path untouched

package routing

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, platform []string, host, path string) string {
	t.Helper()
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
	})
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	DomainRewrite(platform)(next).ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestDomainRewrite(t *testing.T) {
	platform := []string{"sites.photoproos.test", "localhost:8080"}

	tests := []struct {
		name, host, path, want string
	}{
		{"platform host", "sites.photoproos.test", "/portfolio/jane", "/portfolio/jane"},
		{"platform host with port", "localhost:8080", "/property/x", "/property/x"},
		{"custom root", "Photos.Jane.TEST.", "/", "/_domain/photos.jane.test/"},
		{"custom subpath", "photos.jane.test:443", "/gallery", "/_domain/photos.jane.test/gallery"},
		{"custom api passthrough", "photos.jane.test", "/api/portfolio/password", "/api/portfolio/password"},
		{"custom health passthrough", "photos.jane.test", "/healthz", "/healthz"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, serve(t, platform, tc.host, tc.path))
		})
	}
}

func TestDomainRewrite_NoPlatformHostsDisables(t *testing.T) {
	assert.Equal(t, "/", serve(t, nil, "anything.test", "/"))
}

func TestDomainRewrite_ChiRoutesRewrittenPath(t *testing.T) {
	r := chi.NewRouter()
	r.Use(DomainRewrite([]string{"platform.test"}))

	var domain, rest string
	r.Get("/_domain/{domain}/*", func(w http.ResponseWriter, r *http.Request) {
		domain = chi.URLParam(r, "domain")
		rest = chi.URLParam(r, "*")
	})

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Host = "homes.agent.test"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "homes.agent.test", domain)
	assert.Equal(t, "about", rest)
}

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, "a.test", NormalizeHost("A.Test:8443"))
	assert.Equal(t, "a.test", NormalizeHost("a.test."))
	assert.Equal(t, "", NormalizeHost(""))
}

func TestSlugs(t *testing.T) {
	assert.True(t, ValidSlug("123-main-st"))
	assert.True(t, ValidSlug("Legacy_Slug"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("../etc"))
	assert.False(t, ValidSlug("a b"))
	assert.False(t, ValidSlug(strings.Repeat("a", MaxSlugLen+1)))
	assert.Equal(t, "/_domain/x.test/a", BuildPath("/_domain/x.test/", "/a"))
	assert.Equal(t, "/", BuildPath("", "/"))
}
