package middleware

import (
	"net/http"
	"time"

	"shopify-pixel-relay/internal/infrastructure/metrics"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Metrics records request duration by route pattern, method and status
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(routePattern(r), r.Method, status, time.Since(start))
		})
	}
}
