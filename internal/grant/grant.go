// internal/grant/grant.go
//
// Gate grant cookies.
//
// Context
//   A visitor who clears the password gate or the lead-capture gate of one
//   site receives a client-held grant cookie.  Nothing is stored server-
//   side; the next page load reads the cookie and skips that gate.  Grants
//   are scoped by site kind and slug through the cookie name, so a grant
//   for one site never opens another:
//
//     portfolio-access-<slug>   password grant, Max-Age 86400
//     property-lead-<slug>      lead grant, no Max-Age
//
// Modes
//   Plain   The value is the literal "granted".  Cheap to forge, acceptable
//           for low-stakes marketing sites.
//   Signed  When a grant secret is configured the value is an HS256 JWT
//           whose subject is the cookie name and, for password grants,
//           whose expiry mirrors Max-Age.  A forged, copied, or stale
//           value is treated as no grant.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package grant

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// Kind is the gate a grant records.
type Kind string

const (
	Access Kind = "access" // password gate
	Lead   Kind = "lead"   // lead-capture gate
)

const (
	// PlainValue is the cookie value in plain mode.
	PlainValue = "granted"
	// AccessLifetime bounds password grants.  Lead grants do not expire.
	AccessLifetime = 24 * time.Hour
)

// CookieName returns "<site-kind>-<grant-kind>-<slug>".
func CookieName(siteKind site.Kind, k Kind, slug string) string {
	return string(siteKind) + "-" + string(k) + "-" + slug
}

// Checker answers whether a visitor holds a valid grant.
type Checker interface {
	Has(s *site.Site, k Kind) bool
}

// Issuer mints and verifies grant cookies.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer returns an Issuer.  An empty secret selects plain mode.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Signed reports whether grants are JWTs.
func (i *Issuer) Signed() bool { return len(i.secret) > 0 }

// Cookie builds the grant cookie for s.  secure should be true when the
// visitor reached us over TLS.
func (i *Issuer) Cookie(s *site.Site, k Kind, secure bool) (*http.Cookie, error) {
	name := CookieName(s.Kind, k, s.Slug)
	c := &http.Cookie{
		Name:     name,
		Value:    PlainValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if k == Access {
		c.MaxAge = int(AccessLifetime / time.Second)
	}
	if !i.Signed() {
		return c, nil
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:  name,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if k == Access {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(AccessLifetime))
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, err
	}
	c.Value = tok
	return c, nil
}

// Issue sets the grant cookie on w.
func (i *Issuer) Issue(w http.ResponseWriter, r *http.Request, s *site.Site, k Kind) error {
	c, err := i.Cookie(s, k, IsSecure(r))
	if err != nil {
		return err
	}
	http.SetCookie(w, c)
	return nil
}

// Valid reports whether value is a valid grant for the cookie name.
func (i *Issuer) Valid(name, value string) bool {
	if !i.Signed() {
		return value == PlainValue
	}
	tok, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(name),
		jwt.WithTimeFunc(i.now),
	)
	return err == nil && tok.Valid
}

// ForRequest returns a Checker over the cookies of r.
func (i *Issuer) ForRequest(r *http.Request) Checker {
	return requestGrants{issuer: i, r: r}
}

type requestGrants struct {
	issuer *Issuer
	r      *http.Request
}

func (g requestGrants) Has(s *site.Site, k Kind) bool {
	name := CookieName(s.Kind, k, s.Slug)
	c, err := g.r.Cookie(name)
	if err != nil {
		return false
	}
	return g.issuer.Valid(name, c.Value)
}

// None is a Checker that holds no grants.
var None Checker = noGrants{}

type noGrants struct{}

func (noGrants) Has(*site.Site, Kind) bool { return false }

// IsSecure reports whether r arrived over TLS, directly or through a
// terminating proxy.
func IsSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
