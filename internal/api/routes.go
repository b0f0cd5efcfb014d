package api

import (
	"net/http"

	"github.com/navikt/roombooking/internal/metrics"
	"github.com/rs/zerolog"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(bookingService BookingServicer, store Pinger, events http.Handler, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	mux.HandleFunc("/health/live", HealthLiveHandler)
	mux.HandleFunc("/health/ready", HealthReadyHandler(store))

	// Prometheus metrics
	mux.Handle("/metrics", metrics.Handler())

	// Conference room endpoints
	conference := NewConferenceHandler(bookingService, logger)
	mux.HandleFunc("/conference", conference.AvailableRooms)
	mux.HandleFunc("/conference/book", conference.Book)
	mux.HandleFunc("/conference/maintenance-timings", conference.MaintenanceTimings)

	// Room status stream
	if events != nil {
		mux.Handle("/conference/events", events)
	}

	return mux
}
