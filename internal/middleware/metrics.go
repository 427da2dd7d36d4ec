// internal/middleware/metrics.go
//
// Prometheus HTTP instrumentation.
//
// Every request increments `http_requests_total` and observes
// `http_request_duration_seconds` and `http_response_size_bytes`, labelled
// by method, chi route pattern, and status.  Using the route pattern (e.g.
// `/api/form/fields/{name}`) instead of the raw path keeps label
// cardinality bounded.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yanizio/welcome/internal/metrics"
)

// Metrics records request count, latency, and response size.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, routePattern(r), strconv.Itoa(status)}
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.HTTPResponseSize.WithLabelValues(labels...).Observe(float64(ww.BytesWritten()))
	})
}

// routePattern returns the matched chi pattern, or "unmatched".
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
