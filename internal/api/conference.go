package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/navikt/roombooking/internal/utils"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps the size of a booking request body
const maxBodyBytes = 1 << 16

// ConferenceHandler serves the booking and availability endpoints
type ConferenceHandler struct {
	service BookingServicer
	logger  zerolog.Logger
}

// NewConferenceHandler creates a new conference handler backed by the given service
func NewConferenceHandler(service BookingServicer, logger zerolog.Logger) *ConferenceHandler {
	return &ConferenceHandler{
		service: service,
		logger:  logger,
	}
}

// Book handles POST /conference/book
func (h *ConferenceHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BookingRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	defer r.Body.Close()
	if err != nil || json.Unmarshal(body, &req) != nil {
		h.logger.Debug().Str("body", utils.SanitizeLogString(string(body))).Msg("Malformed booking request")
		writeInvalid(w, "Malformed JSON request")
		return
	}

	if messages := validateShape(req); len(messages) > 0 {
		writeInvalid(w, messages...)
		return
	}

	result, err := h.service.Book(r.Context(), req.ToServiceRequest())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Status:   result.Status,
		Response: result.Booking,
	})
}

// AvailableRooms handles GET /conference?startTime=HH:mm&endTime=HH:mm
func (h *ConferenceHandler) AvailableRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := AvailabilityQuery{
		StartTime: r.URL.Query().Get("startTime"),
		EndTime:   r.URL.Query().Get("endTime"),
	}
	if messages := validateShape(query); len(messages) > 0 {
		writeInvalid(w, messages...)
		return
	}

	rooms, err := h.service.AvailableRooms(r.Context(), query.StartTime, query.EndTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Response: rooms})
}

// MaintenanceTimings handles GET /conference/maintenance-timings
func (h *ConferenceHandler) MaintenanceTimings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.service.MaintenanceWindows())
}
