package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-event-tickets/internal/application/registration"
	"github.com/go-event-tickets/internal/domain"
)

// RegistrationHandler handles participant sign-up.
type RegistrationHandler struct {
	svc registration.Service
}

func NewRegistrationHandler(svc registration.Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reg, err := h.svc.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeStatus(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("registration failed", "email", req.Email, "err", err)
		writeStatus(w, httpStatus(err), "Error saving registration.")
		return
	}
	writeJSON(w, http.StatusOK, StatusEnvelope{
		Status:   statusSuccess,
		Message:  "Registered. Awaiting payment.",
		TeamCode: reg.TeamCode,
	})
}
