// internal/middleware/security.go
//
// Security-header middleware.
//
// Sets these headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy   –  self-only, plus the embed hosts video,
//                                  tour, and map sections frame
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP; once a handler writes the
//   status line later changes are lost.  Handlers may still overwrite a
//   value with Header().Set.
// • Section images come from customer CDNs, so img-src allows any https
//   origin.  Virtual tours are hosted by many vendors; frame-src does the
//   same.

package middleware

import "net/http"

// CSP is the Content-Security-Policy applied to public pages.
const CSP = "default-src 'self'; " +
	"img-src 'self' data: https:; " +
	"style-src 'self' 'unsafe-inline'; " +
	"frame-src https://www.youtube-nocookie.com https://player.vimeo.com " +
	"https://www.openstreetmap.org https:; " +
	"form-action 'self'; object-src 'none'; base-uri 'self'; frame-ancestors 'none'"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("Content-Security-Policy", CSP)
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Permissions-Policy", perm)

		next.ServeHTTP(w, r)
	})
}
