package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-event-tickets/internal/application/issuance"
	"github.com/go-event-tickets/internal/domain"
)

// PaymentHandler handles payment confirmation and ticket delivery.
type PaymentHandler struct {
	svc issuance.Service
}

func NewPaymentHandler(svc issuance.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type emailRequest struct {
	Email string `json:"email"`
}

func decodeEmail(r *http.Request) string {
	var req emailRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	return domain.NormalizeEmail(req.Email)
}

func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	email := decodeEmail(r)
	if email == "" {
		writeStatus(w, http.StatusBadRequest, "Email is required.")
		return
	}
	res, err := h.svc.ConfirmPayment(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeStatus(w, http.StatusNotFound, "Participant not found.")
			return
		}
		var stage issuance.Stage
		if res != nil {
			stage = res.Stage
		}
		slog.Error("confirm payment failed", "email", email, "stage", stage, "err", err)
		writeStatus(w, http.StatusInternalServerError, "Failed to generate or upload ticket.")
		return
	}
	msg := "Payment confirmed & ticket sent."
	if !res.Delivered {
		msg = "Payment confirmed. Ticket email could not be sent; it can be resent later."
	}
	writeStatus(w, http.StatusOK, msg)
}

func (h *PaymentHandler) Resend(w http.ResponseWriter, r *http.Request) {
	email := decodeEmail(r)
	if email == "" {
		writeStatus(w, http.StatusBadRequest, "Email is required.")
		return
	}
	err := h.svc.ResendTicket(r.Context(), email)
	switch {
	case err == nil:
		writeStatus(w, http.StatusOK, "Ticket sent.")
	case errors.Is(err, domain.ErrNotFound):
		writeStatus(w, http.StatusNotFound, "No ticket has been issued for this email.")
	case errors.Is(err, domain.ErrDelivery):
		writeStatus(w, http.StatusBadGateway, "Failed to send ticket.")
	default:
		slog.Error("resend ticket failed", "email", email, "err", err)
		writeStatus(w, httpStatus(err), "Failed to load ticket.")
	}
}
