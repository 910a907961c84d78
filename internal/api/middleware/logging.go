package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"socialnet/pkg/logger"
)

const headerRequestID = "X-Request-ID"

// Logging tags every request with a request id, echoes it back in the
// response and writes one line when the request completes.
func Logging(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(headerRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(headerRequestID, reqID)

			r = r.WithContext(logger.WithRequestID(r.Context(), reqID))

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"client_ip":  clientIP(r),
				"status":     rec.status,
				"latency_ms": time.Since(start).Milliseconds(),
			}

			switch {
			case rec.status >= http.StatusInternalServerError:
				log.ErrorContext(r.Context(), "request completed", fields)
			case rec.status >= http.StatusBadRequest:
				log.WarnContext(r.Context(), "request completed", fields)
			default:
				log.InfoContext(r.Context(), "request completed", fields)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
