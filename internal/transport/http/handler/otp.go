package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-event-tickets/internal/application/otp"
	"github.com/go-event-tickets/internal/domain"
	"github.com/go-event-tickets/internal/pkg/validate"
)

// CodeSender issues a code for an email and delivers it.
type CodeSender interface {
	Send(ctx context.Context, email string) error
}

// OTPHandler handles email ownership verification.
type OTPHandler struct {
	svc    otp.Service
	sender CodeSender
}

func NewOTPHandler(svc otp.Service, sender CodeSender) *OTPHandler {
	return &OTPHandler{svc: svc, sender: sender}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	email := domain.NormalizeEmail(req.Email)
	if email == "" {
		writeResult(w, http.StatusBadRequest, "Email is required.")
		return
	}
	if !validate.Email(email) {
		writeResult(w, http.StatusBadRequest, "Email is invalid.")
		return
	}
	if err := h.sender.Send(r.Context(), email); err != nil {
		slog.Warn("send otp failed", "email", email, "err", err)
		writeResult(w, http.StatusInternalServerError, "Failed to send OTP.")
		return
	}
	writeResult(w, http.StatusOK, "OTP sent successfully.")
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	email := domain.NormalizeEmail(req.Email)
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		writeResult(w, http.StatusBadRequest, "Email and OTP required.")
		return
	}

	res, err := h.svc.Verify(r.Context(), email, code)
	if err != nil {
		slog.Error("verify otp failed", "email", email, "err", err)
		writeResult(w, http.StatusInternalServerError, "Could not verify OTP.")
		return
	}
	switch res {
	case otp.ResultSuccess:
		writeResult(w, http.StatusOK, "Email verified!")
	case otp.ResultMismatch:
		writeResult(w, http.StatusUnauthorized, "Invalid OTP.")
	case otp.ResultExpired:
		writeResult(w, http.StatusGone, "OTP has expired.")
	default:
		writeResult(w, http.StatusNotFound, "OTP not found.")
	}
}
