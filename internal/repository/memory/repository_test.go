package memory_test

import (
	"context"
	"testing"

	"github.com/navikt/roombooking/internal/models"
	"github.com/navikt/roombooking/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomsAreCopied(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	room := &models.Room{ID: "amaze", Name: "Amaze", Capacity: 3, Status: models.RoomStatusAvailable}
	require.NoError(t, repo.SaveRoom(ctx, room))

	// Mutating the caller's value must not leak into the store
	room.Status = models.RoomStatusBooked

	fetched, err := repo.GetRoom(ctx, "amaze")
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, fetched.Status)

	fetched.Capacity = 99
	again, err := repo.GetRoom(ctx, "amaze")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Capacity)
}

func TestBookingsAreCopied(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveRoom(ctx, &models.Room{ID: "amaze", Name: "Amaze", Capacity: 3, Status: models.RoomStatusAvailable}))
	booking := &models.Booking{
		ID:        "b1",
		RoomID:    "amaze",
		StartTime: models.MustParseTimeOfDay("10:00"),
		EndTime:   models.MustParseTimeOfDay("10:15"),
	}
	require.NoError(t, repo.CreateBooking(ctx, booking))

	booking.RoomID = "changed"

	bookings, err := repo.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "amaze", bookings[0].RoomID)
}

func TestPingAndClose(t *testing.T) {
	repo := memory.NewRepository()
	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, repo.Close())
}
