package middleware

import (
	"net/http"
	"strconv"
	"time"

	"socialnet/pkg/metrics"
)

// Metrics records request count and latency under the route pattern rather
// than the raw path, which would carry post ids and usernames.
func Metrics(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		metrics.RecordHttpRequest(
			r.Method,
			route,
			strconv.Itoa(rec.status),
			time.Since(startTime),
		)
	})
}
