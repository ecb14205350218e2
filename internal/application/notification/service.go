package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-event-tickets/internal/domain"
)

// Transport is a mail backend (SMTP, transactional API). Implementations
// return an error on any failure; they may also panic on malformed input.
type Transport interface {
	Deliver(ctx context.Context, msg domain.Email) error
}

// SMSTransport is an SMS backend.
type SMSTransport interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Sender delivers email and reports success. It never returns an error and
// never panics; failures are logged and reported as false. Failed sends are
// not retried.
type Sender interface {
	Send(ctx context.Context, msg domain.Email) bool
}

// SMSSender is the SMS counterpart of Sender.
type SMSSender interface {
	Send(ctx context.Context, to, message string) bool
}

type sender struct {
	transport Transport
	timeout   time.Duration
}

func NewSender(transport Transport, timeout time.Duration) Sender {
	return &sender{transport: transport, timeout: timeout}
}

func (s *sender) Send(ctx context.Context, msg domain.Email) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("email transport panicked", "to", msg.To, "subject", msg.Subject, "panic", r)
			ok = false
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.transport.Deliver(ctx, msg); err != nil {
		slog.Warn("email delivery failed", "to", msg.To, "subject", msg.Subject, "err", err)
		return false
	}
	slog.Info("email sent", "to", msg.To, "subject", msg.Subject, "attachments", len(msg.Attachments))
	return true
}

type smsSender struct {
	transport SMSTransport
	timeout   time.Duration
}

func NewSMSSender(transport SMSTransport, timeout time.Duration) SMSSender {
	return &smsSender{transport: transport, timeout: timeout}
}

func (s *smsSender) Send(ctx context.Context, to, message string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("sms transport panicked", "to", to, "panic", r)
			ok = false
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.transport.SendSMS(ctx, to, message); err != nil {
		slog.Warn("sms delivery failed", "to", to, "err", err)
		return false
	}
	return true
}
