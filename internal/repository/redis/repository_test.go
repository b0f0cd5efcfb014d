// Package redis_test provides tests for the Redis repository
package redis_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/navikt/roombooking/internal/config"
	"github.com/navikt/roombooking/internal/models"
	"github.com/navikt/roombooking/internal/repository/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Repository, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cfg := config.RedisConfig{
		Host:      mr.Host(),
		Port:      mr.Port(),
		KeyPrefix: "test:",
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)

	cleanup := func() {
		_ = repo.Close()
		mr.Close()
	}

	return repo, mr, cleanup
}

// TestRedisWithURI tests connection with URI format
func TestRedisWithURI(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.RedisConfig{
		URI:       fmt.Sprintf("redis://%s:%s", mr.Host(), mr.Port()),
		KeyPrefix: "uri:",
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.SaveRoom(ctx, &models.Room{ID: "amaze", Name: "Amaze", Capacity: 3, Status: models.RoomStatusAvailable}))

	room, err := repo.GetRoom(ctx, "amaze")
	require.NoError(t, err)
	assert.Equal(t, "Amaze", room.Name)
	assert.True(t, mr.Exists("uri:rooms:amaze"))
}

func TestRedisInvalidURI(t *testing.T) {
	_, err := redis.NewRepository(config.RedisConfig{URI: "not-a-uri://"})
	assert.Error(t, err)
}

func TestRedisConnectionFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err = redis.NewRepository(config.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}

func TestRedisKeyLayout(t *testing.T) {
	repo, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.SaveRoom(ctx, &models.Room{ID: "beauty", Name: "Beauty", Capacity: 7, Status: models.RoomStatusAvailable}))
	require.NoError(t, repo.CreateBooking(ctx, &models.Booking{
		ID:             "booking-1",
		BookedBy:       "user-1",
		NumberOfPeople: 5,
		StartTime:      models.MustParseTimeOfDay("10:00"),
		EndTime:        models.MustParseTimeOfDay("10:45"),
		RoomID:         "beauty",
		CreatedAt:      time.Now(),
	}))

	roomData, err := mr.Get("test:rooms:beauty")
	require.NoError(t, err)
	var room map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(roomData), &room))
	assert.Equal(t, "BOOKED", room["status"])
	assert.EqualValues(t, 2, room["version"])

	bookingData, err := mr.Get("test:bookings:booking-1")
	require.NoError(t, err)
	var booking map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(bookingData), &booking))
	assert.Equal(t, "10:00", booking["fromTime"])
	assert.Equal(t, "10:45", booking["toTime"])

	assert.Equal(t, time.Duration(0), mr.TTL("test:bookings:booking-1"), "booking history is kept")
}

func TestRedisSkipsCorruptEntries(t *testing.T) {
	repo, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.SaveRoom(ctx, &models.Room{ID: "amaze", Name: "Amaze", Capacity: 3, Status: models.RoomStatusAvailable}))
	require.NoError(t, mr.Set("test:rooms:broken", "{not json"))

	rooms, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "amaze", rooms[0].ID)
}
