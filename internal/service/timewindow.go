package service

import (
	"strings"

	"github.com/navikt/roombooking/internal/models"
)

// ValidateTimeWindow parses a booking's start/end pair and checks ordering
// and that neither end lies in the past. Windows never wrap midnight, so
// start must be strictly before end.
func ValidateTimeWindow(start, end string, now models.TimeOfDay) (models.TimeWindow, error) {
	return validateWindow(start, end, now, false)
}

// ValidateQueryWindow is ValidateTimeWindow for availability queries, which
// also accept a zero-length window.
func ValidateQueryWindow(start, end string, now models.TimeOfDay) (models.TimeWindow, error) {
	return validateWindow(start, end, now, true)
}

func validateWindow(start, end string, now models.TimeOfDay, allowEmpty bool) (models.TimeWindow, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return models.TimeWindow{}, newError(CodeMissingTimeRange, MsgInvalidTimeRange, nil)
	}

	startTime, err := models.ParseTimeOfDay(start)
	if err != nil {
		return models.TimeWindow{}, newError(CodeInvalidTimeFormat, MsgInvalidTimeFormat, err)
	}
	endTime, err := models.ParseTimeOfDay(end)
	if err != nil {
		return models.TimeWindow{}, newError(CodeInvalidTimeFormat, MsgInvalidTimeFormat, err)
	}

	if endTime.Before(startTime) || (endTime == startTime && !allowEmpty) {
		return models.TimeWindow{}, newError(CodeInvalidOrder, MsgInvalidOrder, nil)
	}

	if startTime.Before(now) || endTime.Before(now) {
		return models.TimeWindow{}, newError(CodePastTime, MsgPastTime, nil)
	}

	return models.TimeWindow{Start: startTime, End: endTime}, nil
}

// ValidateInterval checks that the window length is a whole number of booking intervals
func ValidateInterval(window models.TimeWindow, intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return newError(CodeMissingIntervalConfig, MsgMissingIntervalConfig, nil)
	}
	if window.DurationMinutes()%intervalMinutes != 0 {
		return invalidIntervalError(intervalMinutes)
	}
	return nil
}
