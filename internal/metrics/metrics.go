package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtyard_http_requests_total",
		Help: "HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courtyard_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtyard_bookings_created_total",
		Help: "Reservations admitted and persisted.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtyard_booking_conflicts_total",
		Help: "Reservations rejected for occupancy conflicts.",
	})

	LockContention = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtyard_lock_contention_total",
		Help: "Write transactions aborted by lock timeouts.",
	})

	SubscriptionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "courtyard_subscriptions_active",
		Help: "Active subscriptions as of the last sweep.",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtyard_events_published_total",
		Help: "Domain events pushed to the notification queue.",
	}, []string{"event"})
)

func RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	HTTPRequests.WithLabelValues(method, path, status).Inc()
	HTTPDuration.WithLabelValues(method, path).Observe(durationSeconds)
}
