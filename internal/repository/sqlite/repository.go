// Package sqlite provides a SQLite implementation of the repository interface
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/navikt/roombooking/internal/models"
)

// Repository implements the repository interface on a SQLite database
type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the database at path and applies the schema
func NewRepository(path string) (*Repository, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Immediate transactions take the write lock up front so concurrent
	// claims queue on busy_timeout instead of failing on lock upgrade.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return repo, nil
}

func (r *Repository) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			capacity INTEGER NOT NULL CHECK (capacity > 0),
			status TEXT NOT NULL DEFAULT 'AVAILABLE',
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			room_id TEXT NOT NULL,
			start_minute INTEGER NOT NULL,
			end_minute INTEGER NOT NULL,
			number_of_people INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY(room_id) REFERENCES rooms(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_status ON rooms(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_window ON bookings(start_minute, end_minute)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_room_id ON bookings(room_id)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveRoom inserts or replaces a room, bumping its version
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	const query = `
		INSERT INTO rooms (id, name, capacity, status, version, updated_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			capacity = excluded.capacity,
			status = excluded.status,
			version = rooms.version + 1,
			updated_at = excluded.updated_at
		RETURNING version`

	var version int64
	err := r.db.QueryRowContext(ctx, query, room.ID, room.Name, room.Capacity, string(room.Status), time.Now()).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	room.Version = version
	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, capacity, status, version, updated_at FROM rooms WHERE id = ?`, id)

	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return r.queryRooms(ctx,
		`SELECT id, name, capacity, status, version, updated_at FROM rooms ORDER BY id`)
}

// ListRoomsByStatus returns rooms with the given status ordered by ID
func (r *Repository) ListRoomsByStatus(ctx context.Context, status models.RoomStatus) ([]*models.Room, error) {
	return r.queryRooms(ctx,
		`SELECT id, name, capacity, status, version, updated_at FROM rooms WHERE status = ? ORDER BY id`,
		string(status))
}

func (r *Repository) queryRooms(ctx context.Context, query string, args ...interface{}) ([]*models.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// ReleaseRoom moves a BOOKED room at the given version back to AVAILABLE
func (r *Repository) ReleaseRoom(ctx context.Context, id string, version int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE rooms SET status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND status = ? AND version = ?`,
		string(models.RoomStatusAvailable), time.Now(), id, string(models.RoomStatusBooked), version)
	if err != nil {
		return false, fmt.Errorf("failed to release room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to release room: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	if _, err := r.GetRoom(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// UpdateRoomDetails changes name and capacity without touching status
func (r *Repository) UpdateRoomDetails(ctx context.Context, id, name string, capacity int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE rooms SET name = ?, capacity = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND (name <> ? OR capacity <> ?)`,
		name, capacity, time.Now(), id, name, capacity)
	if err != nil {
		return false, fmt.Errorf("failed to update room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update room: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	if _, err := r.GetRoom(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// ListBookings returns every booking record
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return r.queryBookings(ctx, `
		SELECT id, user_id, room_id, start_minute, end_minute, number_of_people, created_at
		FROM bookings ORDER BY created_at, id`)
}

// ListBookingsInRange returns bookings whose window overlaps the given one
func (r *Repository) ListBookingsInRange(ctx context.Context, window models.TimeWindow) ([]*models.Booking, error) {
	return r.queryBookings(ctx, `
		SELECT id, user_id, room_id, start_minute, end_minute, number_of_people, created_at
		FROM bookings WHERE start_minute < ? AND end_minute > ? ORDER BY created_at, id`,
		window.End.Minutes(), window.Start.Minutes())
}

func (r *Repository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		var (
			b          models.Booking
			start, end int
		)
		if err := rows.Scan(&b.ID, &b.BookedBy, &b.RoomID, &start, &end, &b.NumberOfPeople, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.StartTime = models.TimeOfDay(start)
		b.EndTime = models.TimeOfDay(end)
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

// CreateBooking claims the room with a conditional update and inserts the booking in one transaction
func (r *Repository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE rooms SET status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(models.RoomStatusBooked), time.Now(), booking.RoomID, string(models.RoomStatusAvailable))
	if err != nil {
		return fmt.Errorf("failed to claim room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to claim room: %w", err)
	}
	if affected == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM rooms WHERE id = ?`, booking.RoomID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check room: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("room %s: %w", booking.RoomID, models.ErrRoomNotFound)
		}
		return fmt.Errorf("room %s: %w", booking.RoomID, models.ErrRoomUnavailable)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, user_id, room_id, start_minute, end_minute, number_of_people, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		booking.ID, booking.BookedBy, booking.RoomID,
		booking.StartTime.Minutes(), booking.EndTime.Minutes(), booking.NumberOfPeople, booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRoom(s scanner) (*models.Room, error) {
	var (
		room   models.Room
		status string
	)
	if err := s.Scan(&room.ID, &room.Name, &room.Capacity, &status, &room.Version, &room.UpdatedAt); err != nil {
		return nil, err
	}
	room.Status = models.RoomStatus(status)
	return &room, nil
}
