package api

import (
	"context"

	"github.com/navikt/roombooking/internal/models"
	"github.com/navikt/roombooking/internal/service"
)

// BookingServicer defines the booking operations needed by API handlers
type BookingServicer interface {
	Book(ctx context.Context, req service.BookingRequest) (*service.BookingResult, error)
	AvailableRooms(ctx context.Context, start, end string) ([]*models.Room, error)
	MaintenanceWindows() []models.MaintenanceWindow
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}
