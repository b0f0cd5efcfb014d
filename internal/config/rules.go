package config

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/navikt/roombooking/internal/models"
	"gopkg.in/yaml.v3"
)

// RoomConfig describes one room in the catalogue
type RoomConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// MaintenanceConfig is a blackout period, "HH:mm" on both ends
type MaintenanceConfig struct {
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
}

// BookingConfig holds booking granularity
type BookingConfig struct {
	Interval int `yaml:"interval"`
}

// RulesFile is the root of rules.yaml
type RulesFile struct {
	Booking            BookingConfig       `yaml:"booking"`
	MaintenanceTimings []MaintenanceConfig `yaml:"maintenance_timings"`
	Rooms              []RoomConfig        `yaml:"rooms"`
}

// LoadRules reads, expands and validates a rules file
func LoadRules(path string) (*RulesFile, error) {
	if path == "" {
		path = "configs/rules.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules config: %w", err)
	}

	return ParseRules(data)
}

// ParseRules decodes rules YAML, expanding ${VAR} placeholders first
func ParseRules(data []byte) (*RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &rules); err != nil {
		return nil, fmt.Errorf("parse rules config: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validate rules config: %w", err)
	}

	return &rules, nil
}

// Validate checks maintenance timings and the room catalogue.
// The booking interval is deliberately not checked here; an unusable
// interval is reported per booking request instead.
func (r *RulesFile) Validate() error {
	for i, m := range r.MaintenanceTimings {
		start, err := models.ParseTimeOfDay(m.StartTime)
		if err != nil {
			return fmt.Errorf("maintenance_timings[%d].start_time: invalid format '%s', expected HH:mm", i, m.StartTime)
		}
		end, err := models.ParseTimeOfDay(m.EndTime)
		if err != nil {
			return fmt.Errorf("maintenance_timings[%d].end_time: invalid format '%s', expected HH:mm", i, m.EndTime)
		}
		if !end.After(start) {
			return fmt.Errorf("maintenance_timings[%d]: end_time must be after start_time", i)
		}
	}

	ids := make(map[string]bool)
	for i, room := range r.Rooms {
		if room.ID == "" {
			return fmt.Errorf("rooms[%d]: id is required", i)
		}
		if ids[room.ID] {
			return fmt.Errorf("rooms[%d]: duplicate id '%s'", i, room.ID)
		}
		ids[room.ID] = true

		if room.Capacity <= 0 {
			return fmt.Errorf("rooms[%d]: capacity must be positive, got %d", i, room.Capacity)
		}
	}

	return nil
}

// HasUsableInterval reports whether bookings can be validated against the interval
func (r *RulesFile) HasUsableInterval() bool {
	return r.Booking.Interval > 0
}

// ToBookingRules converts the validated file into the snapshot the service consumes
func (r *RulesFile) ToBookingRules() models.BookingRules {
	windows := make([]models.MaintenanceWindow, 0, len(r.MaintenanceTimings))
	for _, m := range r.MaintenanceTimings {
		windows = append(windows, models.MaintenanceWindow{
			StartTime: models.MustParseTimeOfDay(m.StartTime),
			EndTime:   models.MustParseTimeOfDay(m.EndTime),
		})
	}

	rooms := make([]models.Room, 0, len(r.Rooms))
	for _, room := range r.Rooms {
		name := room.Name
		if name == "" {
			name = room.ID
		}
		rooms = append(rooms, models.Room{
			ID:       room.ID,
			Name:     name,
			Capacity: room.Capacity,
			Status:   models.RoomStatusAvailable,
		})
	}

	return models.BookingRules{
		IntervalMinutes:    r.Booking.Interval,
		MaintenanceWindows: windows,
		Rooms:              rooms,
	}
}

// RulesStore holds the current rules snapshot and swaps it atomically on reload
type RulesStore struct {
	current atomic.Pointer[models.BookingRules]
}

// NewRulesStore creates a store seeded with an initial snapshot
func NewRulesStore(initial models.BookingRules) *RulesStore {
	s := &RulesStore{}
	s.Set(initial)
	return s
}

// Current returns the active snapshot
func (s *RulesStore) Current() models.BookingRules {
	if rules := s.current.Load(); rules != nil {
		return *rules
	}
	return models.BookingRules{}
}

// Set replaces the active snapshot
func (s *RulesStore) Set(rules models.BookingRules) {
	s.current.Store(&rules)
}
