// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/routing"
)

// ForceHTTPS wraps h.  A plain-HTTP request for any host other than
// localhost is answered with a 308 Permanent Redirect to the HTTPS version
// of the same URL.  Requests a TLS-terminating proxy marked with
// X-Forwarded-Proto: https count as secure.  Health and metric probes are
// never redirected.
func ForceHTTPS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Already HTTPS, dev host, or probe → continue.
		host := routing.NormalizeHost(r.Host)
		if grant.IsSecure(r) || host == "" || host == "localhost" || host == "127.0.0.1" ||
			r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			h.ServeHTTP(w, r)
			return
		}

		target := "https://" + r.Host + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})
}
