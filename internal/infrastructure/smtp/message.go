package smtp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/go-event-tickets/internal/domain"
)

const base64LineLen = 76

// buildMessage renders msg as a multipart/mixed MIME document: the body
// (text, html, or a multipart/alternative of both) followed by attachments.
func buildMessage(from, fromName string, msg domain.Email) ([]byte, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	mixed := multipart.NewWriter(&buf)

	sender := (&mail.Address{Name: fromName, Address: from}).String()
	fmt.Fprintf(&buf, "From: %s\r\n", sender)
	fmt.Fprintf(&buf, "To: %s\r\n", (&mail.Address{Address: msg.To}).String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixed.Boundary())

	if err := writeBody(mixed, msg); err != nil {
		return nil, err
	}
	for _, a := range msg.Attachments {
		if err := writeAttachment(mixed, a); err != nil {
			return nil, err
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBody(mixed *multipart.Writer, msg domain.Email) error {
	switch {
	case msg.Text != "" && msg.HTML != "":
		var alt bytes.Buffer
		aw := multipart.NewWriter(&alt)
		if err := writeTextPart(aw, "text/plain", msg.Text); err != nil {
			return err
		}
		if err := writeTextPart(aw, "text/html", msg.HTML); err != nil {
			return err
		}
		if err := aw.Close(); err != nil {
			return err
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", "multipart/alternative; boundary="+aw.Boundary())
		pw, err := mixed.CreatePart(h)
		if err != nil {
			return err
		}
		_, err = pw.Write(alt.Bytes())
		return err
	case msg.HTML != "":
		return writeTextPart(mixed, "text/html", msg.HTML)
	default:
		return writeTextPart(mixed, "text/plain", msg.Text)
	}
}

func writeTextPart(w *multipart.Writer, contentType, body string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType+"; charset=utf-8")
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}

func writeAttachment(w *multipart.Writer, a domain.Attachment) error {
	ct := a.MIMEType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", mime.FormatMediaType(ct, map[string]string{"name": a.Filename}))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	h.Set("Content-Transfer-Encoding", "base64")
	pw, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	enc := base64.StdEncoding.EncodeToString(a.Content)
	for len(enc) > base64LineLen {
		if _, err := fmt.Fprintf(pw, "%s\r\n", enc[:base64LineLen]); err != nil {
			return err
		}
		enc = enc[base64LineLen:]
	}
	_, err = fmt.Fprintf(pw, "%s\r\n", enc)
	return err
}
