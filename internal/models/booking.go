package models

import (
	"errors"
	"time"
)

// Store errors shared by every repository backend
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomUnavailable = errors.New("room is not available")
)

// Booking is an immutable record of a room held by a requester for a time window
type Booking struct {
	ID             string    `json:"id"`
	BookedBy       string    `json:"bookedBy"`
	NumberOfPeople int       `json:"numberOfPeople"`
	StartTime      TimeOfDay `json:"fromTime"`
	EndTime        TimeOfDay `json:"toTime"`
	RoomID         string    `json:"roomId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Window returns the booked interval
func (b *Booking) Window() TimeWindow {
	return TimeWindow{Start: b.StartTime, End: b.EndTime}
}

// ExpiredAt reports whether the booking ended strictly before now
func (b *Booking) ExpiredAt(now TimeOfDay) bool {
	return b.EndTime.Before(now)
}

// MaintenanceWindow is a configured blackout period during which no booking can be made
type MaintenanceWindow struct {
	StartTime TimeOfDay `json:"startTime"`
	EndTime   TimeOfDay `json:"endTime"`
}

// Window returns the blackout interval
func (m MaintenanceWindow) Window() TimeWindow {
	return TimeWindow{Start: m.StartTime, End: m.EndTime}
}

// BookingRules is the configuration snapshot the booking engine works against
type BookingRules struct {
	IntervalMinutes    int
	MaintenanceWindows []MaintenanceWindow
	Rooms              []Room
}

// RoomEventType names a room status transition
type RoomEventType string

const (
	RoomEventBooked   RoomEventType = "booked"
	RoomEventReleased RoomEventType = "released"
)

// RoomEvent is published after a room status transition has been persisted
type RoomEvent struct {
	Type      RoomEventType `json:"type"`
	RoomID    string        `json:"roomId"`
	Status    RoomStatus    `json:"status"`
	BookingID string        `json:"bookingId,omitempty"`
	At        time.Time     `json:"at"`
}
