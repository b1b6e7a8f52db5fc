// internal/middleware/logging.go
//
// Access logging and latency metrics.
//
// RequestLog attaches a request-scoped zap logger (carrying the chi
// request id) to the context, then logs one line per request with
// method, path, status, bytes, and duration.  The same timing feeds the
// photoproos_http_request_duration_seconds histogram, labelled by chi
// route pattern rather than raw path so slugs never become label values.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/logger"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/metrics"
)

// RequestLog returns the access-log middleware.  Mount it after
// chimw.RequestID so the id is available.
func RequestLog(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.L()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			l := base
			if id := chimw.GetReqID(r.Context()); id != "" {
				l = l.With(zap.String("request_id", id))
			}
			path := r.URL.Path // before any sub-router trims it
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			metrics.HTTPDuration.
				WithLabelValues(routePattern(r), r.Method, strconv.Itoa(status)).
				Observe(elapsed.Seconds())

			lvl := zapcore.InfoLevel
			if status >= http.StatusInternalServerError {
				lvl = zapcore.ErrorLevel
			}
			l.Check(lvl, "http request").Write(
				zap.String("method", r.Method),
				zap.String("path", path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", elapsed),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
