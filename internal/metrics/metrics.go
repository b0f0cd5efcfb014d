// Package metrics exposes Prometheus counters for the booking engine
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roombooking"

var (
	once sync.Once

	bookingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_requests_total",
			Help:      "Count of booking requests by result code.",
		},
		[]string{"result"},
	)

	roomsReleased = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_released_total",
			Help:      "Count of rooms returned to the pool after their booking expired.",
		},
	)

	reconcileFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_failures_total",
			Help:      "Count of expiry reconciliation passes that failed.",
		},
	)

	availabilityQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_queries_total",
			Help:      "Count of availability queries by result code.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingRequests, roomsReleased, reconcileFailures, availabilityQueries)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncBookingRequest counts a booking request by result code
func IncBookingRequest(result string) {
	bookingRequests.WithLabelValues(result).Inc()
}

// IncRoomsReleased adds count rooms returned to the pool
func IncRoomsReleased(count int) {
	roomsReleased.Add(float64(count))
}

// IncReconcileFailure counts a failed reconciliation pass
func IncReconcileFailure() {
	reconcileFailures.Inc()
}

// IncAvailabilityQuery counts an availability query by result code
func IncAvailabilityQuery(result string) {
	availabilityQueries.WithLabelValues(result).Inc()
}
