package api

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestNewValidator_RegistersCustomTags(t *testing.T) {
	assert.NotPanics(t, func() { newValidator() })

	assert.Equal(t, []string{"start time is required"}, validateShape(BookingRequest{
		UserID: "alice", StartTime: " ", EndTime: "10:30", NumberOfPeople: 2,
	}))
	assert.Empty(t, validateShape(AvailabilityQuery{StartTime: "10:00", EndTime: "10:30"}))
}

func TestMustRegister_PanicsOnRejectedTag(t *testing.T) {
	v := validator.New()
	assert.Panics(t, func() {
		mustRegister(v, "", func(validator.FieldLevel) bool { return true })
	})
}
