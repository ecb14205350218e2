package mailersend

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-event-tickets/internal/domain"
	"github.com/mailersend/mailersend-go"
)

// Mailer delivers email through the MailerSend transactional API.
type Mailer struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailer(apiKey, fromName, fromEmail string) (*Mailer, error) {
	if apiKey == "" || fromEmail == "" {
		return nil, errors.New("mailersend: missing MAILERSEND_API_KEY or MAIL_FROM")
	}
	return &Mailer{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
	}, nil
}

// Deliver sends msg. Attachments travel base64-encoded inside the JSON envelope.
func (m *Mailer) Deliver(ctx context.Context, msg domain.Email) error {
	message := m.client.Email.NewMessage()
	message.SetFrom(m.from)
	message.SetRecipients([]mailersend.Recipient{{Email: msg.To}})
	message.SetSubject(msg.Subject)
	if strings.TrimSpace(msg.Text) != "" {
		message.SetText(msg.Text)
	}
	if strings.TrimSpace(msg.HTML) != "" {
		message.SetHTML(msg.HTML)
	}
	for _, a := range toAttachments(msg.Attachments) {
		message.AddAttachment(a)
	}

	res, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailersend send: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func toAttachments(in []domain.Attachment) []mailersend.Attachment {
	out := make([]mailersend.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, mailersend.Attachment{
			Filename:    a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			Disposition: "attachment",
		})
	}
	return out
}
