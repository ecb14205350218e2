package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-event-tickets/internal/application/participant"
)

// ParticipantHandler serves the participant directory.
type ParticipantHandler struct {
	svc participant.Service
}

func NewParticipantHandler(svc participant.Service) *ParticipantHandler {
	return &ParticipantHandler{svc: svc}
}

func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		slog.Error("participant search failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load participants"})
		return
	}
	writeJSON(w, http.StatusOK, ParticipantsEnvelope{Data: out})
}
