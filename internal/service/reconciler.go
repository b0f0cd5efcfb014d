package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/navikt/roombooking/internal/metrics"
	"github.com/navikt/roombooking/internal/models"
	"github.com/navikt/roombooking/internal/repository"
	"github.com/rs/zerolog"
)

// ExpiryReconciler returns rooms whose bookings have ended to the available pool
type ExpiryReconciler struct {
	repo      repository.Repository
	clock     Clock
	logger    zerolog.Logger
	onRelease func(models.RoomEvent)
}

// NewExpiryReconciler creates a reconciler; onRelease may be nil
func NewExpiryReconciler(repo repository.Repository, clock Clock, logger zerolog.Logger, onRelease func(models.RoomEvent)) *ExpiryReconciler {
	return &ExpiryReconciler{
		repo:      repo,
		clock:     clock,
		logger:    logger,
		onRelease: onRelease,
	}
}

// Reconcile releases every BOOKED room whose bookings have all ended before
// the current minute and returns how many rooms it released. A failure on
// one room does not stop the others.
func (r *ExpiryReconciler) Reconcile(ctx context.Context) (int, error) {
	// Rooms are read before bookings: a booking created in between bumps the
	// room version, so the conditional release below skips that room.
	booked, err := r.repo.ListRoomsByStatus(ctx, models.RoomStatusBooked)
	if err != nil {
		return 0, r.fail(fmt.Errorf("list booked rooms: %w", err))
	}
	if len(booked) == 0 {
		return 0, nil
	}

	bookings, err := r.repo.ListBookings(ctx)
	if err != nil {
		return 0, r.fail(fmt.Errorf("list bookings: %w", err))
	}

	now := currentTimeOfDay(r.clock)
	expired := make(map[string]bool)
	active := make(map[string]bool)
	for _, b := range bookings {
		if b.ExpiredAt(now) {
			expired[b.RoomID] = true
		} else {
			active[b.RoomID] = true
		}
	}

	var (
		released int
		errs     []error
	)
	for _, room := range booked {
		if !expired[room.ID] || active[room.ID] {
			continue
		}

		changed, err := r.repo.ReleaseRoom(ctx, room.ID, room.Version)
		if err != nil {
			errs = append(errs, fmt.Errorf("release room %s: %w", room.ID, err))
			continue
		}
		if !changed {
			continue
		}

		released++
		r.logger.Info().Str("room_id", room.ID).Str("now", now.String()).Msg("Released room after booking expired")
		if r.onRelease != nil {
			r.onRelease(models.RoomEvent{
				Type:   models.RoomEventReleased,
				RoomID: room.ID,
				Status: models.RoomStatusAvailable,
				At:     r.clock.Now(),
			})
		}
	}

	if released > 0 {
		metrics.IncRoomsReleased(released)
	}
	if len(errs) > 0 {
		return released, r.fail(errors.Join(errs...))
	}
	return released, nil
}

func (r *ExpiryReconciler) fail(err error) error {
	metrics.IncReconcileFailure()
	r.logger.Error().Err(err).Msg("Expiry reconciliation failed")
	return newError(CodeReconciliationFailed, MsgReconciliationFailed, err)
}
