package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestLog logs every request with its status and duration.
func RequestLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			capture := newResponseCapture(w)

			next.ServeHTTP(capture, r)

			logger.Info("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", capture.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
