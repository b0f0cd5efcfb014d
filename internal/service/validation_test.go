package service_test

import (
	"errors"
	"testing"

	"github.com/navikt/roombooking/internal/models"
	"github.com/navikt/roombooking/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(start, end string) models.TimeWindow {
	return models.TimeWindow{Start: models.MustParseTimeOfDay(start), End: models.MustParseTimeOfDay(end)}
}

func TestValidateTimeWindow(t *testing.T) {
	now := models.MustParseTimeOfDay("10:00")

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{name: "valid window", start: "10:00", end: "10:30"},
		{name: "starts at current minute", start: "10:00", end: "10:15"},
		{name: "missing start", start: "", end: "10:30", wantErr: service.ErrMissingTimeRange},
		{name: "blank end", start: "10:00", end: "  ", wantErr: service.ErrMissingTimeRange},
		{name: "bad start format", start: "1000", end: "10:30", wantErr: service.ErrInvalidTimeFormat},
		{name: "bad end format", start: "10:00", end: "24:00", wantErr: service.ErrInvalidTimeFormat},
		{name: "end before start", start: "11:00", end: "10:30", wantErr: service.ErrInvalidOrder},
		{name: "zero length", start: "11:00", end: "11:00", wantErr: service.ErrInvalidOrder},
		{name: "start in the past", start: "09:45", end: "10:30", wantErr: service.ErrPastTime},
		{name: "order checked before past", start: "09:00", end: "08:00", wantErr: service.ErrInvalidOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ValidateTimeWindow(tt.start, tt.end, now)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, got.Start.String())
			assert.Equal(t, tt.end, got.End.String())
		})
	}
}

func TestValidateQueryWindow(t *testing.T) {
	now := models.MustParseTimeOfDay("10:00")

	got, err := service.ValidateQueryWindow("11:00", "11:00", now)
	require.NoError(t, err)
	assert.Equal(t, 0, got.DurationMinutes())

	_, err = service.ValidateQueryWindow("11:00", "10:30", now)
	assert.True(t, errors.Is(err, service.ErrInvalidOrder))

	_, err = service.ValidateQueryWindow("09:30", "10:30", now)
	assert.True(t, errors.Is(err, service.ErrPastTime))

	_, err = service.ValidateQueryWindow("", "10:30", now)
	assert.True(t, errors.Is(err, service.ErrMissingTimeRange))
}

func TestValidateTimeWindow_Messages(t *testing.T) {
	now := models.MustParseTimeOfDay("10:00")
	var svcErr *service.Error

	_, err := service.ValidateTimeWindow("11:00", "10:00", now)
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "Start Time should always be lesser than End Time.", svcErr.Message)

	_, err = service.ValidateTimeWindow("09:00", "10:30", now)
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "Start Time or End Time should be greater than current time", svcErr.Message)

	_, err = service.ValidateTimeWindow("", "", now)
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "Invalid Time Range Given", svcErr.Message)
}

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		name     string
		window   models.TimeWindow
		interval int
		wantErr  error
	}{
		{name: "one interval", window: window("10:00", "10:15"), interval: 15},
		{name: "several intervals", window: window("10:00", "11:30"), interval: 15},
		{name: "hour granularity", window: window("10:00", "12:00"), interval: 60},
		{name: "not a multiple", window: window("10:00", "10:20"), interval: 15, wantErr: service.ErrInvalidInterval},
		{name: "shorter than interval", window: window("10:00", "10:10"), interval: 15, wantErr: service.ErrInvalidInterval},
		{name: "zero interval", window: window("10:00", "10:15"), interval: 0, wantErr: service.ErrMissingIntervalConfig},
		{name: "negative interval", window: window("10:00", "10:15"), interval: -15, wantErr: service.ErrMissingIntervalConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateInterval(tt.window, tt.interval)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateInterval_AllMultiplesPass(t *testing.T) {
	start := models.MustParseTimeOfDay("08:00")
	for _, interval := range []int{5, 10, 15, 30} {
		for n := 1; n*interval <= 120; n++ {
			w := models.TimeWindow{Start: start, End: start + models.TimeOfDay(n*interval)}
			assert.NoError(t, service.ValidateInterval(w, interval), "interval %d x %d", interval, n)

			off := models.TimeWindow{Start: start, End: w.End + 1}
			assert.Error(t, service.ValidateInterval(off, interval), "interval %d x %d + 1", interval, n)
		}
	}
}

func TestCheckMaintenance(t *testing.T) {
	maintenance := []models.MaintenanceWindow{
		{StartTime: models.MustParseTimeOfDay("09:00"), EndTime: models.MustParseTimeOfDay("09:15")},
		{StartTime: models.MustParseTimeOfDay("13:00"), EndTime: models.MustParseTimeOfDay("13:15")},
	}

	tests := []struct {
		name     string
		window   models.TimeWindow
		conflict bool
	}{
		{name: "exact match", window: window("09:00", "09:15"), conflict: true},
		{name: "spans maintenance", window: window("12:30", "13:30"), conflict: true},
		{name: "starts inside", window: window("13:10", "13:30"), conflict: true},
		{name: "ends inside", window: window("08:45", "09:05"), conflict: true},
		{name: "ends at maintenance start", window: window("08:45", "09:00")},
		{name: "starts at maintenance end", window: window("09:15", "09:30")},
		{name: "unrelated", window: window("15:00", "16:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.CheckMaintenance(tt.window, maintenance)
			if tt.conflict {
				assert.True(t, errors.Is(err, service.ErrMaintenanceConflict))
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.NoError(t, service.CheckMaintenance(window("09:00", "09:15"), nil))
}
