package models

import "time"

// RoomStatus is the occupancy state of a room
type RoomStatus string

const (
	RoomStatusAvailable RoomStatus = "AVAILABLE"
	RoomStatusBooked    RoomStatus = "BOOKED"
)

// Valid reports whether s is a known status
func (s RoomStatus) Valid() bool {
	return s == RoomStatusAvailable || s == RoomStatusBooked
}

// Room represents a physical conference room
type Room struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Capacity  int        `json:"capacity"`
	Status    RoomStatus `json:"status"`
	Version   int64      `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// IsAvailable returns true if the room is not held by a booking
func (r *Room) IsAvailable() bool {
	return r.Status == RoomStatusAvailable
}

// Fits reports whether the room can seat the given number of people
func (r *Room) Fits(headcount int) bool {
	return r.Capacity >= headcount
}
