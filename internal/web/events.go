// Package web provides the room event stream and the HTTP middleware chain
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/navikt/roombooking/internal/models"
	"github.com/r3labs/sse/v2"
	"github.com/rs/zerolog"
)

// RoomsStream is the SSE stream carrying room status changes
const RoomsStream = "rooms"

// EventStream publishes room events to server-sent event subscribers
type EventStream struct {
	server *sse.Server
	logger zerolog.Logger
}

// NewEventStream creates the SSE server with a single rooms stream
func NewEventStream(logger zerolog.Logger) *EventStream {
	server := sse.New()
	server.AutoReplay = false
	server.Headers = map[string]string{
		"Cache-Control":     "no-cache, no-transform",
		"X-Accel-Buffering": "no", // Disable nginx proxy buffering
	}
	server.CreateStream(RoomsStream)

	return &EventStream{
		server: server,
		logger: logger,
	}
}

// PublishRoomEvent sends a room event to every subscriber. It matches
// service.RoomUpdateCallback so it can be registered directly.
func (e *EventStream) PublishRoomEvent(event models.RoomEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		e.logger.Error().Err(err).Str("room_id", event.RoomID).Msg("Failed to encode room event")
		return
	}

	e.server.Publish(RoomsStream, &sse.Event{
		ID:    []byte(strconv.FormatInt(time.Now().UnixNano(), 10)),
		Event: []byte(event.Type),
		Data:  data,
	})
	e.logger.Debug().Str("type", string(event.Type)).Str("room_id", event.RoomID).Msg("Published room event")
}

// ServeHTTP subscribes the caller to the rooms stream
func (e *EventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Last-Event-ID")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !isEventStreamSupported(r) {
		http.Error(w, "This endpoint requires EventStream support", http.StatusNotAcceptable)
		return
	}

	// The SSE server selects the stream from the query string
	req := r.Clone(r.Context())
	query := req.URL.Query()
	query.Set("stream", RoomsStream)
	req.URL.RawQuery = query.Encode()

	e.logger.Debug().Str("remote", r.RemoteAddr).Str("proto", r.Proto).Msg("SSE client connected")
	e.server.ServeHTTP(w, req)
	e.logger.Debug().Str("remote", r.RemoteAddr).Msg("SSE client disconnected")
}

// Close disconnects all subscribers
func (e *EventStream) Close() {
	e.server.Close()
}

// isEventStreamSupported checks if the client accepts event streams
func isEventStreamSupported(r *http.Request) bool {
	accepts := r.Header.Get("Accept")
	return accepts == "" ||
		strings.Contains(accepts, "*/*") ||
		strings.Contains(accepts, "text/event-stream")
}
