package service_test

import (
	"context"

	"github.com/navikt/roombooking/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a testify mock of repository.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveRoom(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRepository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *MockRepository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]*models.Room)
	return rooms, args.Error(1)
}

func (m *MockRepository) ListRoomsByStatus(ctx context.Context, status models.RoomStatus) ([]*models.Room, error) {
	args := m.Called(ctx, status)
	rooms, _ := args.Get(0).([]*models.Room)
	return rooms, args.Error(1)
}

func (m *MockRepository) ReleaseRoom(ctx context.Context, id string, version int64) (bool, error) {
	args := m.Called(ctx, id, version)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateRoomDetails(ctx context.Context, id, name string, capacity int) (bool, error) {
	args := m.Called(ctx, id, name, capacity)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	args := m.Called(ctx)
	bookings, _ := args.Get(0).([]*models.Booking)
	return bookings, args.Error(1)
}

func (m *MockRepository) ListBookingsInRange(ctx context.Context, window models.TimeWindow) ([]*models.Booking, error) {
	args := m.Called(ctx, window)
	bookings, _ := args.Get(0).([]*models.Booking)
	return bookings, args.Error(1)
}

func (m *MockRepository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRepository) Close() error {
	return m.Called().Error(0)
}
