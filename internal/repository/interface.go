// Package repository defines interfaces for data storage
package repository

import (
	"context"

	"github.com/navikt/roombooking/internal/models"
)

// Repository defines the interface for storing rooms and booking records.
// Backends return models.ErrRoomNotFound and models.ErrRoomUnavailable,
// possibly wrapped, for the corresponding conditions.
type Repository interface {
	// Room operations
	SaveRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	ListRoomsByStatus(ctx context.Context, status models.RoomStatus) ([]*models.Room, error)
	// ReleaseRoom moves a BOOKED room back to AVAILABLE if its version still
	// equals version. It reports whether the room changed.
	ReleaseRoom(ctx context.Context, id string, version int64) (bool, error)
	// UpdateRoomDetails changes name and capacity of an existing room and
	// never touches its status. It reports whether anything changed.
	UpdateRoomDetails(ctx context.Context, id, name string, capacity int) (bool, error)

	// Booking operations, records are never updated or deleted
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	ListBookingsInRange(ctx context.Context, window models.TimeWindow) ([]*models.Booking, error)
	// CreateBooking claims the booking's room (AVAILABLE to BOOKED) and stores
	// the record in one atomic step.
	CreateBooking(ctx context.Context, booking *models.Booking) error

	Ping(ctx context.Context) error
	Close() error
}
