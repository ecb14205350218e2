package notification

import (
	"fmt"
	"html"
	"time"

	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/domain"
)

// OTPEmail is the plain-text message carrying a verification code.
func OTPEmail(ev config.Event, to, code string, ttl time.Duration) domain.Email {
	return domain.Email{
		To:      to,
		Subject: fmt.Sprintf("Your %s Registration OTP", ev.Name),
		Text: fmt.Sprintf("Your one-time password (OTP) is: %s\n\nThis code is valid for %s.",
			code, humanDuration(ttl)),
	}
}

// TicketEmail is the HTML message carrying the ticket PDF.
func TicketEmail(ev config.Event, p *domain.Participant, pdf []byte) domain.Email {
	return domain.Email{
		To:      p.Email,
		Subject: fmt.Sprintf("Your %s Ticket is Here! 🎉", ev.Name),
		HTML: fmt.Sprintf("Hello %s,<br><br>Your registration is confirmed! We are thrilled to have you at %s. "+
			"Your personalized ticket is attached to this email.<br><br>See you there!",
			html.EscapeString(p.Name), html.EscapeString(ev.Name)),
		Attachments: []domain.Attachment{{
			Filename: ev.ShortName + "-Ticket.pdf",
			Content:  pdf,
			MIMEType: "application/pdf",
		}},
	}
}

// TicketSMS is the short notice sent when SMS notifications are enabled.
func TicketSMS(ev config.Event, ticketURL string) string {
	return fmt.Sprintf("Your %s ticket is ready: %s", ev.Name, ticketURL)
}

func humanDuration(d time.Duration) string {
	if d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}
