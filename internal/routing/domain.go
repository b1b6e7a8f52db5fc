// internal/routing/domain.go
//
// Custom-domain rewrite middleware.
//
// Context
// -------
// Sites are normally served under the platform host at /portfolio/<slug>
// and /property/<slug>.  A site owner can also point a custom domain at
// the service.  Any request whose Host is not one of the configured
// platform hosts is therefore a custom-domain visit and is rewritten to
// the generic domain route:
//
//	Host: photos.jane.test   GET /gallery  →  GET /_domain/photos.jane.test/gallery
//
// The domain handler then runs the normal pipeline keyed by domain.
//
// Workflow
// --------
//  1. NormalizeHost lower-cases the Host, strips any port and a trailing
//     dot.
//  2. Platform hosts and shared prefixes (/api/, /static/, /healthz,
//     /metrics) pass through untouched so gate forms and probes work on
//     every host.
//  3. Everything else is rewritten in place before chi matches routes.

package routing

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DomainPrefix is the internal route custom-domain requests land on.
const DomainPrefix = "/_domain/"

// passthrough prefixes are served identically on every host.
var passthrough = []string{"/api/", "/static/", "/healthz", "/metrics"}

// NormalizeHost lower-cases h and strips a port and a trailing dot.
func NormalizeHost(h string) string {
	h = strings.TrimSpace(h)
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	}
	return strings.TrimSuffix(strings.ToLower(h), ".")
}

// DomainRewrite returns middleware that rewrites custom-domain requests to
// DomainPrefix + host + path.  With no platform hosts configured nothing
// is rewritten, which keeps local development on localhost simple.
func DomainRewrite(platformHosts []string) func(http.Handler) http.Handler {
	platform := make(map[string]struct{}, len(platformHosts))
	for _, h := range platformHosts {
		platform[NormalizeHost(h)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := NormalizeHost(r.Host)
			if len(platform) == 0 || host == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := platform[host]; ok {
				next.ServeHTTP(w, r)
				return
			}
			for _, p := range passthrough {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			target := BuildPath(DomainPrefix+host, r.URL.Path)
			if r.URL.Path == "" || r.URL.Path == "/" {
				target += "/"
			}
			zap.L().Debug("domain rewrite",
				zap.String("host", host),
				zap.String("from", r.URL.Path),
				zap.String("to", target))

			r.URL.Path = target
			r.URL.RawPath = ""
			next.ServeHTTP(w, r)
		})
	}
}
