// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/navikt/roombooking/internal/config"
	"github.com/navikt/roombooking/internal/models"
	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic transaction retries on WATCH conflicts
const maxTxRetries = 10

// roomState is the internal model for storing a room in Redis
type roomState struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Capacity  int               `json:"capacity"`
	Status    models.RoomStatus `json:"status"`
	Version   int64             `json:"version"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (s *roomState) toModel() *models.Room {
	return &models.Room{
		ID:        s.ID,
		Name:      s.Name,
		Capacity:  s.Capacity,
		Status:    s.Status,
		Version:   s.Version,
		UpdatedAt: s.UpdatedAt,
	}
}

// Repository implements the repository interface with Redis storage
type Repository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// Ping checks the connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// roomKey returns the Redis key for a room
func (r *Repository) roomKey(id string) string {
	return fmt.Sprintf("%srooms:%s", r.keyPrefix, id)
}

// bookingKey returns the Redis key for a booking record
func (r *Repository) bookingKey(id string) string {
	return fmt.Sprintf("%sbookings:%s", r.keyPrefix, id)
}

// SaveRoom inserts or replaces a room, bumping its version
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	key := r.roomKey(room.ID)

	var version int64
	txf := func(tx *redis.Tx) error {
		current, err := getRoomState(ctx, tx, key)
		if err != nil && !errors.Is(err, models.ErrRoomNotFound) {
			return err
		}

		version = 1
		if current != nil {
			version = current.Version + 1
		}

		data, err := json.Marshal(&roomState{
			ID:        room.ID,
			Name:      room.Name,
			Capacity:  room.Capacity,
			Status:    room.Status,
			Version:   version,
			UpdatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal room: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, key); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	room.Version = version
	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	state, err := getRoomState(ctx, r.client, r.roomKey(id))
	if err != nil {
		return nil, err
	}
	return state.toModel(), nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return r.listRooms(ctx, func(*roomState) bool { return true })
}

// ListRoomsByStatus returns rooms with the given status ordered by ID
func (r *Repository) ListRoomsByStatus(ctx context.Context, status models.RoomStatus) ([]*models.Room, error) {
	return r.listRooms(ctx, func(s *roomState) bool { return s.Status == status })
}

func (r *Repository) listRooms(ctx context.Context, keep func(*roomState) bool) ([]*models.Room, error) {
	values, err := r.loadAll(ctx, r.roomKey("*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	rooms := make([]*models.Room, 0, len(values))
	for _, data := range values {
		var state roomState
		if err := json.Unmarshal(data, &state); err != nil {
			continue
		}
		if keep(&state) {
			rooms = append(rooms, state.toModel())
		}
	}

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

// ReleaseRoom moves a BOOKED room at the given version back to AVAILABLE
func (r *Repository) ReleaseRoom(ctx context.Context, id string, version int64) (bool, error) {
	key := r.roomKey(id)

	var released bool
	txf := func(tx *redis.Tx) error {
		released = false

		state, err := getRoomState(ctx, tx, key)
		if err != nil {
			return err
		}
		if state.Status != models.RoomStatusBooked || state.Version != version {
			return nil
		}

		state.Status = models.RoomStatusAvailable
		state.Version++
		state.UpdatedAt = time.Now()
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to marshal room: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			released = true
		}
		return err
	}

	if err := r.watch(ctx, txf, key); err != nil {
		if errors.Is(err, models.ErrRoomNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to release room: %w", err)
	}
	return released, nil
}

// UpdateRoomDetails rewrites name and capacity inside a WATCH transaction,
// keeping whatever status is stored at commit time
func (r *Repository) UpdateRoomDetails(ctx context.Context, id, name string, capacity int) (bool, error) {
	key := r.roomKey(id)

	var updated bool
	txf := func(tx *redis.Tx) error {
		updated = false

		state, err := getRoomState(ctx, tx, key)
		if err != nil {
			return err
		}
		if state.Name == name && state.Capacity == capacity {
			return nil
		}

		state.Name = name
		state.Capacity = capacity
		state.Version++
		state.UpdatedAt = time.Now()
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to marshal room: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			updated = true
		}
		return err
	}

	if err := r.watch(ctx, txf, key); err != nil {
		if errors.Is(err, models.ErrRoomNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to update room: %w", err)
	}
	return updated, nil
}

// ListBookings returns every booking record
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return r.listBookings(ctx, func(*models.Booking) bool { return true })
}

// ListBookingsInRange returns bookings whose window overlaps the given one
func (r *Repository) ListBookingsInRange(ctx context.Context, window models.TimeWindow) ([]*models.Booking, error) {
	return r.listBookings(ctx, func(b *models.Booking) bool { return b.Window().Overlaps(window) })
}

func (r *Repository) listBookings(ctx context.Context, keep func(*models.Booking) bool) ([]*models.Booking, error) {
	values, err := r.loadAll(ctx, r.bookingKey("*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*models.Booking, 0, len(values))
	for _, data := range values {
		var booking models.Booking
		if err := json.Unmarshal(data, &booking); err != nil {
			continue
		}
		if keep(&booking) {
			bookings = append(bookings, &booking)
		}
	}
	return bookings, nil
}

// CreateBooking claims the room with WATCH/MULTI and writes the booking in the same transaction
func (r *Repository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	roomKey := r.roomKey(booking.RoomID)

	bookingData, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		state, err := getRoomState(ctx, tx, roomKey)
		if err != nil {
			return fmt.Errorf("room %s: %w", booking.RoomID, err)
		}
		if state.Status != models.RoomStatusAvailable {
			return fmt.Errorf("room %s: %w", booking.RoomID, models.ErrRoomUnavailable)
		}

		state.Status = models.RoomStatusBooked
		state.Version++
		state.UpdatedAt = time.Now()
		roomData, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to marshal room: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, roomKey, roomData, 0)
			pipe.Set(ctx, r.bookingKey(booking.ID), bookingData, 0)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, roomKey); err != nil {
		if errors.Is(err, models.ErrRoomNotFound) || errors.Is(err, models.ErrRoomUnavailable) {
			return err
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// watch runs txf as an optimistic transaction, retrying when a watched key changes
func (r *Repository) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

// loadAll fetches the raw values of every key matching pattern with one MGET
func (r *Repository) loadAll(ctx context.Context, pattern string) ([][]byte, error) {
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([][]byte, 0, len(values))
	for _, v := range values {
		strData, ok := v.(string)
		if !ok {
			continue
		}
		result = append(result, []byte(strData))
	}
	return result, nil
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// getRoomState reads a room through either the client or a transaction
func getRoomState(ctx context.Context, c getter, key string) (*roomState, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var state roomState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}
	return &state, nil
}
