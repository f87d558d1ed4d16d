package middleware

import (
	"net/http"
	"time"

	"naat/pkg/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog attaches a request-scoped logger to the context and logs one line
// per request once the handler returns. 5xx responses are logged at error.
func RequestLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log
			if id := chimw.GetReqID(r.Context()); id != "" {
				reqLog = log.With("request_id", id)
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.IntoContext(r.Context(), reqLog)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			}
			if status >= http.StatusInternalServerError {
				reqLog.Error("http: request", args...)
				return
			}
			reqLog.Info("http: request", args...)
		})
	}
}
