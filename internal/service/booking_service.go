package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/navikt/roombooking/internal/metrics"
	"github.com/navikt/roombooking/internal/models"
	"github.com/navikt/roombooking/internal/repository"
	"github.com/navikt/roombooking/internal/utils"
	"github.com/rs/zerolog"
)

// maxClaimAttempts bounds how often a booking re-allocates after losing a room to a concurrent request
const maxClaimAttempts = 3

// RulesSource provides the current booking rules snapshot
type RulesSource interface {
	Current() models.BookingRules
}

// StaticRules is a RulesSource that never changes
type StaticRules models.BookingRules

func (r StaticRules) Current() models.BookingRules { return models.BookingRules(r) }

// RoomUpdateCallback is a function type for room status change callbacks
type RoomUpdateCallback func(models.RoomEvent)

// BookingRequest is a request to reserve a room
type BookingRequest struct {
	UserID         string
	StartTime      string
	EndTime        string
	NumberOfPeople int
}

// BookingResult is a successful reservation
type BookingResult struct {
	Status  string
	Booking *models.Booking
	Room    *models.Room
}

// Option configures a BookingService
type Option func(*BookingService)

// WithClock replaces the wall clock
func WithClock(clock Clock) Option {
	return func(s *BookingService) { s.clock = clock }
}

// WithIDGenerator replaces the booking ID generator
func WithIDGenerator(newID func() string) Option {
	return func(s *BookingService) { s.newID = newID }
}

// BookingService provides business logic for booking rooms
type BookingService struct {
	repo       repository.Repository
	rules      RulesSource
	clock      Clock
	logger     zerolog.Logger
	newID      func() string
	reconciler *ExpiryReconciler

	mu              sync.RWMutex
	updateCallbacks []RoomUpdateCallback
}

// NewBookingService creates a new BookingService with the given repository and rules
func NewBookingService(repo repository.Repository, rules RulesSource, logger zerolog.Logger, opts ...Option) *BookingService {
	s := &BookingService{
		repo:            repo,
		rules:           rules,
		clock:           RealClock{},
		logger:          logger,
		newID:           uuid.NewString,
		updateCallbacks: make([]RoomUpdateCallback, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reconciler = NewExpiryReconciler(repo, s.clock, logger, s.notifyUpdate)
	return s
}

// RegisterUpdateCallback registers a callback function to be called when a room changes status
func (s *BookingService) RegisterUpdateCallback(callback RoomUpdateCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// notifyUpdate calls all registered callbacks with the event
func (s *BookingService) notifyUpdate(event models.RoomEvent) {
	s.mu.RLock()
	callbacks := s.updateCallbacks
	s.mu.RUnlock()

	for _, callback := range callbacks {
		callback(event)
	}
}

// Book validates the request, reconciles expired bookings and reserves the best-fit room
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	result, err := s.book(ctx, req)
	metrics.IncBookingRequest(resultLabel(err))
	if err != nil {
		level := zerolog.WarnLevel
		var svcErr *Error
		if errors.As(err, &svcErr) && svcErr.Internal() {
			level = zerolog.ErrorLevel
		}
		s.logger.WithLevel(level).Err(err).
			Str("user_id", utils.SanitizeLogString(req.UserID)).
			Str("start", utils.SanitizeLogString(req.StartTime)).
			Str("end", utils.SanitizeLogString(req.EndTime)).
			Int("people", req.NumberOfPeople).
			Msg("Booking rejected")
	}
	return result, err
}

func (s *BookingService) book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, newError(CodeMissingField, "user Id is required", nil)
	}
	if req.NumberOfPeople < 1 {
		return nil, newError(CodeMissingField, "number of people should not be zero or empty or null", nil)
	}
	if strings.TrimSpace(req.StartTime) == "" || strings.TrimSpace(req.EndTime) == "" {
		return nil, newError(CodeMissingTimeRange, MsgInvalidRequest, nil)
	}

	rules := s.rules.Current()

	window, err := ValidateTimeWindow(req.StartTime, req.EndTime, currentTimeOfDay(s.clock))
	if err != nil {
		return nil, err
	}
	if err := ValidateInterval(window, rules.IntervalMinutes); err != nil {
		return nil, err
	}
	if err := CheckMaintenance(window, rules.MaintenanceWindows); err != nil {
		return nil, err
	}
	if _, err := s.reconciler.Reconcile(ctx); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxClaimAttempts; attempt++ {
		rooms, err := s.repo.ListRoomsByStatus(ctx, models.RoomStatusAvailable)
		if err != nil {
			return nil, newError(CodePersistenceFailure, MsgPersistenceFailure, fmt.Errorf("list available rooms: %w", err))
		}

		room, err := SelectRoom(rooms, req.NumberOfPeople)
		if err != nil {
			return nil, err
		}

		booking := &models.Booking{
			ID:             s.newID(),
			BookedBy:       req.UserID,
			NumberOfPeople: req.NumberOfPeople,
			StartTime:      window.Start,
			EndTime:        window.End,
			RoomID:         room.ID,
			CreatedAt:      s.clock.Now(),
		}

		err = s.repo.CreateBooking(ctx, booking)
		if errors.Is(err, models.ErrRoomUnavailable) || errors.Is(err, models.ErrRoomNotFound) {
			s.logger.Debug().Str("room_id", room.ID).Int("attempt", attempt).Msg("Room claimed concurrently, retrying allocation")
			continue
		}
		if err != nil {
			return nil, newError(CodePersistenceFailure, MsgPersistenceFailure, fmt.Errorf("create booking: %w", err))
		}

		room.Status = models.RoomStatusBooked
		room.Version++

		s.logger.Info().
			Str("booking_id", booking.ID).
			Str("room_id", room.ID).
			Str("window", window.String()).
			Int("people", booking.NumberOfPeople).
			Msg("Room booked")

		s.notifyUpdate(models.RoomEvent{
			Type:      models.RoomEventBooked,
			RoomID:    room.ID,
			Status:    models.RoomStatusBooked,
			BookingID: booking.ID,
			At:        booking.CreatedAt,
		})

		return &BookingResult{Status: MsgBooked, Booking: booking, Room: room}, nil
	}

	return nil, newError(CodeNoRoomAvailable, MsgNoRoomAvailable, nil)
}

// AvailableRooms returns every room not held by a booking overlapping the window, ordered by ID
func (s *BookingService) AvailableRooms(ctx context.Context, start, end string) ([]*models.Room, error) {
	rooms, err := s.availableRooms(ctx, start, end)
	metrics.IncAvailabilityQuery(resultLabel(err))
	return rooms, err
}

func (s *BookingService) availableRooms(ctx context.Context, start, end string) ([]*models.Room, error) {
	window, err := ValidateQueryWindow(start, end, currentTimeOfDay(s.clock))
	if err != nil {
		return nil, err
	}
	if _, err := s.reconciler.Reconcile(ctx); err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListBookingsInRange(ctx, window)
	if err != nil {
		return nil, newError(CodePersistenceFailure, MsgPersistenceFailure, fmt.Errorf("list bookings in range: %w", err))
	}
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, newError(CodePersistenceFailure, MsgPersistenceFailure, fmt.Errorf("list rooms: %w", err))
	}

	occupied := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		occupied[b.RoomID] = true
	}

	available := make([]*models.Room, 0, len(rooms))
	for _, room := range rooms {
		if occupied[room.ID] {
			continue
		}
		room.Status = models.RoomStatusAvailable
		available = append(available, room)
	}

	sort.Slice(available, func(i, j int) bool { return available[i].ID < available[j].ID })
	return available, nil
}

// MaintenanceWindows returns the configured blackout periods
func (s *BookingService) MaintenanceWindows() []models.MaintenanceWindow {
	windows := s.rules.Current().MaintenanceWindows
	if windows == nil {
		return []models.MaintenanceWindow{}
	}
	return windows
}

// Reconcile runs one expiry reconciliation pass
func (s *BookingService) Reconcile(ctx context.Context) (int, error) {
	return s.reconciler.Reconcile(ctx)
}

// StartReconcileLoop reconciles on every tick until ctx is cancelled
func (s *BookingService) StartReconcileLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// failures are logged and counted by the reconciler
				_, _ = s.reconciler.Reconcile(ctx)
			}
		}
	}()
}

// ProvisionRooms creates missing rooms as AVAILABLE and updates name and
// capacity of existing ones. Existing rooms keep their status.
func (s *BookingService) ProvisionRooms(ctx context.Context, rooms []models.Room) error {
	var created, updated int
	for _, cfg := range rooms {
		changed, err := s.repo.UpdateRoomDetails(ctx, cfg.ID, cfg.Name, cfg.Capacity)
		switch {
		case errors.Is(err, models.ErrRoomNotFound):
			room := &models.Room{
				ID:       cfg.ID,
				Name:     cfg.Name,
				Capacity: cfg.Capacity,
				Status:   models.RoomStatusAvailable,
			}
			if err := s.repo.SaveRoom(ctx, room); err != nil {
				return fmt.Errorf("create room %s: %w", cfg.ID, err)
			}
			created++

		case err != nil:
			return fmt.Errorf("update room %s: %w", cfg.ID, err)

		case changed:
			updated++
		}
	}

	s.logger.Info().Int("created", created).Int("updated", updated).Int("total", len(rooms)).Msg("Rooms provisioned")
	return nil
}

// resultLabel maps an outcome to a metrics label
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return string(svcErr.Code)
	}
	return "error"
}
