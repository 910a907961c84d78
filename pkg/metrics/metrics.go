package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialnet_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "entity", "result"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialnet_database_operation_duration_seconds",
			Help:    "Database operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "entity"},
	)

	TogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_toggles_total",
			Help: "Like and follow toggles by resulting state",
		},
		[]string{"kind", "state"},
	)

	ContentCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_content_created_total",
			Help: "Posts and comments written",
		},
		[]string{"kind"},
	)

	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_auth_events_total",
			Help: "Registrations, logins and logouts by outcome",
		},
		[]string{"event", "outcome"},
	)
)

func RecordHttpRequest(method, route, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, route, status).Inc()
	HttpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordDatabaseOperation(operation, entity string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	DatabaseOperationsTotal.WithLabelValues(operation, entity, result).Inc()
	DatabaseOperationDuration.WithLabelValues(operation, entity).Observe(duration.Seconds())
}

func RecordToggle(kind string, active bool) {
	state := "off"
	if active {
		state = "on"
	}
	TogglesTotal.WithLabelValues(kind, state).Inc()
}

func RecordContentCreated(kind string) {
	ContentCreatedTotal.WithLabelValues(kind).Inc()
}

func RecordAuthEvent(event, outcome string) {
	AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}
