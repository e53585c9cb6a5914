package middleware

import (
	"net/http"
	"time"
)

// AccessLog пишет одну строку на запрос
func AccessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			logger.Info("%s %s - status=%d, bytes=%d, duration_ms=%d, request_id=%s",
				r.Method, r.URL.Path, sw.status, sw.bytes,
				time.Since(start).Milliseconds(), RequestIDFromContext(r.Context()))
		})
	}
}
