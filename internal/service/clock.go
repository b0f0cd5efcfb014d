package service

import (
	"time"

	"github.com/navikt/roombooking/internal/models"
)

// Clock supplies the wall-clock time
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// ClockAt returns a FixedClock set to hh:mm today in UTC
func ClockAt(hhmm string) FixedClock {
	t := models.MustParseTimeOfDay(hhmm)
	y, m, d := time.Now().UTC().Date()
	return FixedClock(time.Date(y, m, d, t.Minutes()/60, t.Minutes()%60, 0, 0, time.UTC))
}

func currentTimeOfDay(c Clock) models.TimeOfDay {
	return models.TimeOfDayOf(c.Now())
}
