package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/navikt/roombooking/internal/service"
)

const (
	responseInvalidRequest = "Invalid Request"
	responseInternalError  = "Internal Error"
)

// Envelope is the body returned by every conference endpoint
type Envelope struct {
	Status   string      `json:"status,omitempty"`
	Response interface{} `json:"response,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeInvalid(w http.ResponseWriter, messages ...string) {
	writeJSON(w, http.StatusBadRequest, Envelope{
		Response: responseInvalidRequest,
		Errors:   messages,
	})
}

// writeServiceError maps a booking failure to 400 or, for infrastructure
// faults, 500
func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		writeJSON(w, http.StatusInternalServerError, Envelope{
			Response: responseInternalError,
			Errors:   []string{"Unexpected error"},
		})
		return
	}

	if svcErr.Internal() {
		writeJSON(w, http.StatusInternalServerError, Envelope{
			Response: responseInternalError,
			Errors:   []string{svcErr.Message},
		})
		return
	}

	writeInvalid(w, svcErr.Message)
}
