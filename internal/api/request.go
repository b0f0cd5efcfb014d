package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/navikt/roombooking/internal/models"
	"github.com/navikt/roombooking/internal/service"
)

// BookingRequest is the JSON body of POST /conference/book
type BookingRequest struct {
	UserID         string `json:"userId" validate:"notblank"`
	StartTime      string `json:"startTime" validate:"notblank,hhmm"`
	EndTime        string `json:"endTime" validate:"notblank,hhmm"`
	NumberOfPeople int    `json:"numberOfPeople" validate:"required,min=2"`
}

// ToServiceRequest converts the body into a core booking request
func (r BookingRequest) ToServiceRequest() service.BookingRequest {
	return service.BookingRequest{
		UserID:         r.UserID,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		NumberOfPeople: r.NumberOfPeople,
	}
}

// AvailabilityQuery holds the query parameters of GET /conference
type AvailabilityQuery struct {
	StartTime string `validate:"notblank,hhmm"`
	EndTime   string `validate:"notblank,hhmm"`
}

// fieldMessages maps struct field and failed tag to the caller-facing message
var fieldMessages = map[string]map[string]string{
	"BookingRequest.UserID": {
		"notblank": "user Id is required",
	},
	"BookingRequest.StartTime": {
		"notblank": "start time is required",
		"hhmm":     service.MsgInvalidTimeFormat,
	},
	"BookingRequest.EndTime": {
		"notblank": "end time is required",
		"hhmm":     service.MsgInvalidTimeFormat,
	},
	"BookingRequest.NumberOfPeople": {
		"required": "number of people should not be zero or empty or null",
		"min":      "number of people should be minimum 2",
	},
	"AvailabilityQuery.StartTime": {
		"notblank": "Startime is required",
		"hhmm":     service.MsgInvalidTimeFormat,
	},
	"AvailabilityQuery.EndTime": {
		"notblank": "EndTime is required",
		"hhmm":     service.MsgInvalidTimeFormat,
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "hhmm", func(fl validator.FieldLevel) bool {
		return models.IsValidTimeOfDay(fl.Field().String())
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				return true
			}
		}
		return false
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateShape checks s and returns every field message in field order,
// without duplicates
func validateShape(s interface{}) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	seen := make(map[string]bool, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.StructNamespace()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		if seen[msg] {
			continue
		}
		seen[msg] = true
		messages = append(messages, msg)
	}
	return messages
}
