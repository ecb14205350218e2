package smtp

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/go-event-tickets/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw []byte) (*mail.Message, *multipart.Reader) {
	t.Helper()
	m, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	mt, params, err := mime.ParseMediaType(m.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mt)
	return m, multipart.NewReader(m.Body, params["boundary"])
}

func TestBuildMessage_PlainText(t *testing.T) {
	raw, err := buildMessage("noreply@x.com", "Arcane 2K25", domain.Email{
		To: "ada@x.com", Subject: "Your OTP", Text: "Your one-time password (OTP) is: 123456",
	})
	require.NoError(t, err)

	m, mr := parse(t, raw)
	from, err := mail.ParseAddress(m.Header.Get("From"))
	require.NoError(t, err)
	assert.Equal(t, "Arcane 2K25", from.Name)
	assert.Equal(t, "Your OTP", m.Header.Get("Subject"))

	p, err := mr.NextPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.Header.Get("Content-Type"), "text/plain"))
	// multipart.Reader undoes quoted-printable transparently.
	body, _ := io.ReadAll(p)
	assert.Equal(t, "Your one-time password (OTP) is: 123456", string(body))

	_, err = mr.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestBuildMessage_HTMLWithPDFAttachment(t *testing.T) {
	pdf := bytes.Repeat([]byte("%PDF-1.3 ticket "), 40)
	raw, err := buildMessage("noreply@x.com", "", domain.Email{
		To:      "ada@x.com",
		Subject: "Your ticket",
		HTML:    "Hello <b>Ada</b>",
		Attachments: []domain.Attachment{
			{Filename: "Arcane-2K25-Ticket.pdf", Content: pdf, MIMEType: "application/pdf"},
		},
	})
	require.NoError(t, err)

	_, mr := parse(t, raw)
	p, err := mr.NextPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.Header.Get("Content-Type"), "text/html"))

	att, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "Arcane-2K25-Ticket.pdf", att.FileName())
	assert.Equal(t, "base64", att.Header.Get("Content-Transfer-Encoding"))
	enc, _ := io.ReadAll(att)
	for _, line := range strings.Split(strings.TrimSpace(string(enc)), "\r\n") {
		assert.LessOrEqual(t, len(line), base64LineLen)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(enc), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)
}

func TestBuildMessage_TextAndHTMLUseAlternative(t *testing.T) {
	raw, err := buildMessage("noreply@x.com", "", domain.Email{To: "ada@x.com", Subject: "s", Text: "t", HTML: "<p>h</p>"})
	require.NoError(t, err)
	_, mr := parse(t, raw)
	p, err := mr.NextPart()
	require.NoError(t, err)
	mt, params, err := mime.ParseMediaType(p.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mt)

	alt := multipart.NewReader(p, params["boundary"])
	first, err := alt.NextPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Header.Get("Content-Type"), "text/plain"))
	second, err := alt.NextPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Header.Get("Content-Type"), "text/html"))
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	raw, err := buildMessage("noreply@x.com", "", domain.Email{To: "ada@x.com", Subject: "Your ticket is here! 🎉", Text: "x"})
	require.NoError(t, err)
	m, _ := parse(t, raw)
	dec := new(mime.WordDecoder)
	subj, err := dec.DecodeHeader(m.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Your ticket is here! 🎉", subj)
}

func TestBuildMessage_EmptyRecipient(t *testing.T) {
	_, err := buildMessage("noreply@x.com", "", domain.Email{Subject: "s", Text: "t"})
	assert.ErrorContains(t, err, "empty recipient")
}
