// internal/middleware/logging.go
//
// Request logging.
//
// RequestLogger attaches a request-scoped zap logger (carrying the chi
// request ID) to the context, then logs one line per request with method,
// path, status, size, and latency.  Handlers fetch the logger with
// logger.FromContext so their events share the request ID.

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/welcome/internal/logger"
)

// RequestLogger must run after chi's RequestID middleware.
func RequestLogger(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := base.With("req_id", chimw.GetReqID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
			}
			if status >= http.StatusInternalServerError {
				log.Errorw("request", fields...)
				return
			}
			log.Debugw("request", fields...)
		})
	}
}
