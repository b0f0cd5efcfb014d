package service

import "fmt"

// ErrorCode identifies a booking failure class
type ErrorCode string

const (
	CodeMissingField          ErrorCode = "MISSING_FIELD"
	CodeMissingTimeRange      ErrorCode = "MISSING_TIME_RANGE"
	CodeInvalidTimeFormat     ErrorCode = "INVALID_TIME_FORMAT"
	CodeInvalidOrder          ErrorCode = "INVALID_ORDER"
	CodePastTime              ErrorCode = "PAST_TIME"
	CodeInvalidInterval       ErrorCode = "INVALID_INTERVAL"
	CodeMissingIntervalConfig ErrorCode = "MISSING_INTERVAL_CONFIG"
	CodeMaintenanceConflict   ErrorCode = "MAINTENANCE_CONFLICT"
	CodeNoRoomAvailable       ErrorCode = "NO_ROOM_AVAILABLE"
	CodeCapacityExceeded      ErrorCode = "CAPACITY_EXCEEDED"
	CodeReconciliationFailed  ErrorCode = "RECONCILIATION_FAILED"
	CodePersistenceFailure    ErrorCode = "PERSISTENCE_FAILURE"
)

// Error is a classified booking failure. Message is safe to show to callers.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Internal reports whether the failure was caused by infrastructure rather than the request
func (e *Error) Internal() bool {
	return e.Code == CodePersistenceFailure || e.Code == CodeReconciliationFailed
}

// Sentinels for errors.Is
var (
	ErrMissingField          = &Error{Code: CodeMissingField}
	ErrMissingTimeRange      = &Error{Code: CodeMissingTimeRange}
	ErrInvalidTimeFormat     = &Error{Code: CodeInvalidTimeFormat}
	ErrInvalidOrder          = &Error{Code: CodeInvalidOrder}
	ErrPastTime              = &Error{Code: CodePastTime}
	ErrInvalidInterval       = &Error{Code: CodeInvalidInterval}
	ErrMissingIntervalConfig = &Error{Code: CodeMissingIntervalConfig}
	ErrMaintenanceConflict   = &Error{Code: CodeMaintenanceConflict}
	ErrNoRoomAvailable       = &Error{Code: CodeNoRoomAvailable}
	ErrCapacityExceeded      = &Error{Code: CodeCapacityExceeded}
	ErrReconciliationFailed  = &Error{Code: CodeReconciliationFailed}
	ErrPersistenceFailure    = &Error{Code: CodePersistenceFailure}
)

// Caller-facing messages
const (
	MsgInvalidRequest        = "Invalid Request"
	MsgInvalidTimeRange      = "Invalid Time Range Given"
	MsgInvalidTimeFormat     = "Invalid time format. Please use the 24-hour format (HH:mm)."
	MsgInvalidOrder          = "Start Time should always be lesser than End Time."
	MsgPastTime              = "Start Time or End Time should be greater than current time"
	MsgMissingIntervalConfig = "Booking Interval cannot be null"
	MsgMaintenanceConflict   = "Cannot book room due to maintenance time"
	MsgNoRoomAvailable       = "There are no conference rooms available at the moment"
	MsgCapacityExceeded      = "Requested number of people is greater than maximum capacity of the rooms available"
	MsgReconciliationFailed  = "Unable to refresh room availability"
	MsgPersistenceFailure    = "Unable to save the booking"
	MsgBooked                = "Conference Room Booked Successfully"
)

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func invalidIntervalError(interval int) *Error {
	return newError(CodeInvalidInterval,
		fmt.Sprintf("Invalid Booking time. It should be intervals of %d mins", interval), nil)
}
