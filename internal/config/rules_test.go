package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/navikt/roombooking/internal/config"
	"github.com/navikt/roombooking/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRules = `
booking:
  interval: 15
maintenance_timings:
  - start_time: "09:00"
    end_time: "09:15"
  - start_time: "13:00"
    end_time: "13:15"
rooms:
  - id: amaze
    name: Amaze
    capacity: 3
  - id: strive
    capacity: 20
`

func writeRules(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, t.TempDir(), validRules)

	rules, err := config.LoadRules(path)
	require.NoError(t, err)

	assert.True(t, rules.HasUsableInterval())
	snapshot := rules.ToBookingRules()
	assert.Equal(t, 15, snapshot.IntervalMinutes)
	require.Len(t, snapshot.MaintenanceWindows, 2)
	assert.Equal(t, models.MustParseTimeOfDay("09:00"), snapshot.MaintenanceWindows[0].StartTime)
	assert.Equal(t, models.MustParseTimeOfDay("13:15"), snapshot.MaintenanceWindows[1].EndTime)
	require.Len(t, snapshot.Rooms, 2)
	assert.Equal(t, "Amaze", snapshot.Rooms[0].Name)
	assert.Equal(t, "strive", snapshot.Rooms[1].Name, "name defaults to id")
	assert.Equal(t, models.RoomStatusAvailable, snapshot.Rooms[1].Status)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := config.LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseRules_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_BOOKING_INTERVAL", "30")

	rules, err := config.ParseRules([]byte("booking:\n  interval: ${TEST_BOOKING_INTERVAL}\n"))
	require.NoError(t, err)
	assert.Equal(t, 30, rules.Booking.Interval)
}

func TestParseRules_NonPositiveIntervalIsAccepted(t *testing.T) {
	rules, err := config.ParseRules([]byte("booking:\n  interval: 0\n"))
	require.NoError(t, err)
	assert.False(t, rules.HasUsableInterval())
	assert.Equal(t, 0, rules.ToBookingRules().IntervalMinutes)
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "malformed yaml",
			content: "booking: [",
			errText: "parse rules config",
		},
		{
			name:    "bad maintenance start",
			content: "maintenance_timings:\n  - start_time: \"9:00\"\n    end_time: \"09:15\"\n",
			errText: "maintenance_timings[0].start_time",
		},
		{
			name:    "bad maintenance end",
			content: "maintenance_timings:\n  - start_time: \"09:00\"\n    end_time: \"25:00\"\n",
			errText: "maintenance_timings[0].end_time",
		},
		{
			name:    "inverted maintenance window",
			content: "maintenance_timings:\n  - start_time: \"10:00\"\n    end_time: \"09:00\"\n",
			errText: "end_time must be after start_time",
		},
		{
			name:    "room without id",
			content: "rooms:\n  - name: Nameless\n    capacity: 4\n",
			errText: "id is required",
		},
		{
			name:    "duplicate room id",
			content: "rooms:\n  - id: a\n    capacity: 4\n  - id: a\n    capacity: 5\n",
			errText: "duplicate id 'a'",
		},
		{
			name:    "zero capacity",
			content: "rooms:\n  - id: a\n    capacity: 0\n",
			errText: "capacity must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseRules([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestRulesStore(t *testing.T) {
	var empty config.RulesStore
	assert.Equal(t, 0, empty.Current().IntervalMinutes)

	store := config.NewRulesStore(models.BookingRules{IntervalMinutes: 15})
	assert.Equal(t, 15, store.Current().IntervalMinutes)

	store.Set(models.BookingRules{IntervalMinutes: 30})
	assert.Equal(t, 30, store.Current().IntervalMinutes)
}

func TestWatchRules(t *testing.T) {
	dir := t.TempDir()
	path := writeRules(t, dir, validRules)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *config.RulesFile, 4)
	err := config.WatchRules(ctx, path, 10*time.Millisecond, zerolog.Nop(), func(r *config.RulesFile) {
		updates <- r
	})
	require.NoError(t, err)

	select {
	case r := <-updates:
		assert.Equal(t, 15, r.Booking.Interval)
	case <-time.After(time.Second):
		t.Fatal("initial load was not delivered")
	}

	require.NoError(t, os.WriteFile(path, []byte("booking:\n  interval: 30\n"), 0o600))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case r := <-updates:
		assert.Equal(t, 30, r.Booking.Interval)
	case <-time.After(2 * time.Second):
		t.Fatal("reload was not delivered")
	}
}

func TestWatchRules_InitialLoadFailure(t *testing.T) {
	path := writeRules(t, t.TempDir(), "rooms:\n  - id: a\n    capacity: -1\n")

	err := config.WatchRules(context.Background(), path, time.Second, zerolog.Nop(), nil)
	assert.Error(t, err)
}
