package grant

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

var mainSt = &site.Site{Kind: site.KindPortfolio, Slug: "123-main-st"}

func roundTrip(t *testing.T, iss *Issuer, s *site.Site, k Kind) (*http.Cookie, Checker) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/password", nil)
	require.NoError(t, iss.Issue(rr, req, s, k))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)

	next := httptest.NewRequest(http.MethodGet, "/portfolio/123-main-st", nil)
	next.AddCookie(cookies[0])
	return cookies[0], iss.ForRequest(next)
}

func TestPlainAccessCookie(t *testing.T) {
	c, grants := roundTrip(t, NewIssuer(""), mainSt, Access)

	assert.Equal(t, "portfolio-access-123-main-st", c.Name)
	assert.Equal(t, "granted", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 86400, c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)

	assert.True(t, grants.Has(mainSt, Access))
	assert.False(t, grants.Has(mainSt, Lead))
}

func TestPlainLeadCookieHasNoMaxAge(t *testing.T) {
	c, grants := roundTrip(t, NewIssuer(""), mainSt, Lead)
	assert.Equal(t, "portfolio-lead-123-main-st", c.Name)
	assert.Zero(t, c.MaxAge)
	assert.True(t, grants.Has(mainSt, Lead))
}

func TestGrantsNeverCrossSites(t *testing.T) {
	_, grants := roundTrip(t, NewIssuer(""), mainSt, Access)

	other := &site.Site{Kind: site.KindPortfolio, Slug: "456-oak-ave"}
	sameSlugOtherKind := &site.Site{Kind: site.KindProperty, Slug: "123-main-st"}
	assert.False(t, grants.Has(other, Access))
	assert.False(t, grants.Has(sameSlugOtherKind, Access))
}

func TestPlainRejectsOtherValues(t *testing.T) {
	iss := NewIssuer("")
	assert.False(t, iss.Valid("portfolio-access-x", "true"))
	assert.False(t, iss.Valid("portfolio-access-x", ""))
}

func TestSignedAccessGrantExpires(t *testing.T) {
	iss := NewIssuer("s3cret")
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return clock }

	c, grants := roundTrip(t, iss, mainSt, Access)
	assert.NotEqual(t, PlainValue, c.Value)
	assert.True(t, grants.Has(mainSt, Access))

	clock = clock.Add(23 * time.Hour)
	assert.True(t, grants.Has(mainSt, Access))

	clock = clock.Add(2 * time.Hour)
	assert.False(t, grants.Has(mainSt, Access))
}

func TestSignedLeadGrantDoesNotExpire(t *testing.T) {
	iss := NewIssuer("s3cret")
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return clock }

	_, grants := roundTrip(t, iss, mainSt, Lead)
	clock = clock.AddDate(1, 0, 0)
	assert.True(t, grants.Has(mainSt, Lead))
}

func TestSignedRejectsForgeryAndCopies(t *testing.T) {
	iss := NewIssuer("s3cret")

	assert.False(t, iss.Valid("portfolio-access-123-main-st", PlainValue))

	c, err := iss.Cookie(mainSt, Access, false)
	require.NoError(t, err)
	// copied onto another site's cookie name
	assert.False(t, iss.Valid("portfolio-access-456-oak-ave", c.Value))
	// minted with another key
	assert.False(t, NewIssuer("other").Valid(c.Name, c.Value))
	assert.True(t, iss.Valid(c.Name, c.Value))
}

func TestSecureFlag(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, IsSecure(req))

	rr := httptest.NewRecorder()
	require.NoError(t, NewIssuer("").Issue(rr, req, mainSt, Access))
	assert.True(t, rr.Result().Cookies()[0].Secure)
}

func TestNone(t *testing.T) {
	assert.False(t, None.Has(mainSt, Access))
}
