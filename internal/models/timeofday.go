package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TimeLayout is the wire format for every time value in the service
const TimeLayout = "15:04"

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeOfDay is a wall-clock time without a date, stored as minutes since midnight
type TimeOfDay int

// IsValidTimeOfDay reports whether s is a 24-hour HH:mm string
func IsValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// ParseTimeOfDay parses a strict HH:mm string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !timeOfDayPattern.MatchString(s) {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:mm", s)
	}

	hours, _ := strconv.Atoi(s[:2])
	minutes, _ := strconv.Atoi(s[3:])
	return TimeOfDay(hours*60 + minutes), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for constants and tests
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf returns the time of day of t, truncated to the minute
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// Minutes returns the number of minutes since midnight
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Before reports whether t is strictly earlier than other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// After reports whether t is strictly later than other
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t > other
}

// String renders the time as HH:mm
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON encodes the time as an HH:mm string
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an HH:mm string
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeWindow is a half-open interval [Start, End) within one day
type TimeWindow struct {
	Start TimeOfDay `json:"startTime"`
	End   TimeOfDay `json:"endTime"`
}

// DurationMinutes returns the length of the window in minutes
func (w TimeWindow) DurationMinutes() int {
	return w.End.Minutes() - w.Start.Minutes()
}

// Overlaps reports whether the two windows share at least one minute
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && other.Start < w.End
}

// String renders the window as HH:mm-HH:mm
func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}
