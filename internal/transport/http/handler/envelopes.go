package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-event-tickets/internal/domain"
)

// ResultEnvelope is the body of the OTP endpoints.
type ResultEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusEnvelope is the body of the registration and payment endpoints.
type StatusEnvelope struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	TeamCode *string `json:"team_code,omitempty"`
}

// ParticipantsEnvelope wraps participant search results.
type ParticipantsEnvelope struct {
	Data []domain.Participant `json:"data"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ResultEnvelope{Success: status == http.StatusOK, Message: msg})
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	s := statusSuccess
	if status != http.StatusOK {
		s = statusError
	}
	writeJSON(w, status, StatusEnvelope{Status: s, Message: msg})
}

// httpStatus maps a service error onto a response code.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
