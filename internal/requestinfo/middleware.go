// internal/requestinfo/middleware.go
//
// Enrich is mounted on the submission routes only, where a lead may be
// written.  Page renders never pay for the UA parse or the GeoLite2 read.
package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/logger"
)

// Enrich stores a *RequestInfo on the request context.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		info := &RequestInfo{
			UA:        parseUA(r.UserAgent()),
			Geo:       lookupGeo(ip),
			Timestamp: time.Now().UTC(),
		}
		logger.FromContext(r.Context()).Debug("submitter",
			zap.String("ip", info.IPString()),
			zap.String("country", info.Geo.CountryISO),
			zap.String("ua", info.UA.Summary()),
			zap.Bool("bot", info.UA.IsBot))

		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

// clientIP prefers the first parseable X-Forwarded-For entry, then
// X-Real-Ip, then the socket peer.
func clientIP(r *http.Request) net.IP {
	candidates := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	candidates = append(candidates, r.Header.Get("X-Real-Ip"))
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		candidates = append(candidates, host)
	}
	for _, c := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(c)); ip != nil {
			return ip
		}
	}
	return nil
}
