// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/navikt/roombooking/internal/models"
)

// Repository implements the repository interface with in-memory storage
type Repository struct {
	rooms    map[string]*models.Room
	bookings []*models.Booking
	mu       sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms: make(map[string]*models.Room),
	}
}

// SaveRoom inserts or replaces a room
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *room
	if existing, ok := r.rooms[room.ID]; ok {
		stored.Version = existing.Version + 1
	} else {
		stored.Version = 1
	}
	stored.UpdatedAt = time.Now()
	r.rooms[room.ID] = &stored
	room.Version = stored.Version

	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, models.ErrRoomNotFound
	}

	copied := *room
	return &copied, nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return r.listRooms(func(*models.Room) bool { return true }), nil
}

// ListRoomsByStatus returns rooms with the given status ordered by ID
func (r *Repository) ListRoomsByStatus(ctx context.Context, status models.RoomStatus) ([]*models.Room, error) {
	return r.listRooms(func(room *models.Room) bool { return room.Status == status }), nil
}

func (r *Repository) listRooms(keep func(*models.Room) bool) []*models.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if keep(room) {
			copied := *room
			rooms = append(rooms, &copied)
		}
	}

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

// ReleaseRoom moves a BOOKED room at the given version back to AVAILABLE
func (r *Repository) ReleaseRoom(ctx context.Context, id string, version int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return false, models.ErrRoomNotFound
	}
	if room.Status != models.RoomStatusBooked || room.Version != version {
		return false, nil
	}

	room.Status = models.RoomStatusAvailable
	room.Version++
	room.UpdatedAt = time.Now()
	return true, nil
}

// UpdateRoomDetails changes name and capacity in place, keeping the stored status
func (r *Repository) UpdateRoomDetails(ctx context.Context, id, name string, capacity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return false, models.ErrRoomNotFound
	}
	if room.Name == name && room.Capacity == capacity {
		return false, nil
	}

	room.Name = name
	room.Capacity = capacity
	room.Version++
	room.UpdatedAt = time.Now()
	return true, nil
}

// ListBookings returns every booking record
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return r.listBookings(func(*models.Booking) bool { return true }), nil
}

// ListBookingsInRange returns bookings whose window overlaps the given one
func (r *Repository) ListBookingsInRange(ctx context.Context, window models.TimeWindow) ([]*models.Booking, error) {
	return r.listBookings(func(b *models.Booking) bool { return b.Window().Overlaps(window) }), nil
}

func (r *Repository) listBookings(keep func(*models.Booking) bool) []*models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if keep(b) {
			copied := *b
			bookings = append(bookings, &copied)
		}
	}
	return bookings
}

// CreateBooking claims the room and appends the booking under a single lock
func (r *Repository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[booking.RoomID]
	if !ok {
		return fmt.Errorf("room %s: %w", booking.RoomID, models.ErrRoomNotFound)
	}
	if room.Status != models.RoomStatusAvailable {
		return fmt.Errorf("room %s: %w", booking.RoomID, models.ErrRoomUnavailable)
	}

	room.Status = models.RoomStatusBooked
	room.Version++
	room.UpdatedAt = time.Now()

	copied := *booking
	r.bookings = append(r.bookings, &copied)
	return nil
}

// Ping always succeeds for the in-memory store
func (r *Repository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store
func (r *Repository) Close() error {
	return nil
}
