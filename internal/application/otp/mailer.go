package otp

import (
	"context"
	"fmt"

	"github.com/go-event-tickets/internal/application/notification"
	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/domain"
)

// CodeMailer issues a code and emails it.
type CodeMailer struct {
	svc    Service
	sender notification.Sender
	event  config.Event
}

func NewCodeMailer(svc Service, sender notification.Sender, event config.Event) *CodeMailer {
	return &CodeMailer{svc: svc, sender: sender, event: event}
}

// Send issues a code for email and delivers it. The code stays stored even
// when delivery fails; a later request replaces it.
func (m *CodeMailer) Send(ctx context.Context, email string) error {
	c, err := m.svc.Issue(ctx, email)
	if err != nil {
		return err
	}
	if !m.sender.Send(ctx, notification.OTPEmail(m.event, email, c, m.svc.TTL())) {
		return fmt.Errorf("send otp to %s: %w", email, domain.ErrDelivery)
	}
	return nil
}
