package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-event-tickets/internal/application/otp"
	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/domain"
)

// --- in-memory fakes ---

type memParticipants struct {
	mu    sync.Mutex
	byID  map[string]*domain.Participant
	order []string
}

func newMemParticipants() *memParticipants {
	return &memParticipants{byID: map[string]*domain.Participant{}}
}

func (m *memParticipants) Put(_ context.Context, p *domain.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ParticipantID] = &cp
	m.order = append(m.order, p.ParticipantID)
	return nil
}

func (m *memParticipants) GetByEmail(_ context.Context, email string) (*domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		if p := m.byID[id]; p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("participant: %w", domain.ErrNotFound)
}

func (m *memParticipants) MarkPaid(_ context.Context, id, url string, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PaymentStatus = domain.PaymentPaid
	p.TicketURL = &url
	p.UpdatedAt = paidAt
	return nil
}

func (m *memParticipants) SearchByName(_ context.Context, q string) ([]domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Participant{}
	for _, id := range m.order {
		if p := m.byID[id]; strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memObjects) Upload(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return "https://cdn.example.com/" + key, nil
}

func (m *memObjects) Download(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type recordingSender struct {
	mu   sync.Mutex
	ok   bool
	sent []domain.Email
}

func (s *recordingSender) Send(_ context.Context, msg domain.Email) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.ok
}

func (s *recordingSender) last() domain.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

// --- harness ---

type harness struct {
	srv     *httptest.Server
	repo    *memParticipants
	objects *memObjects
	mailer  *recordingSender
}

func newHarness(t *testing.T, mailOK bool) *harness {
	t.Helper()
	h := &harness{
		repo:    newMemParticipants(),
		objects: &memObjects{objects: map[string][]byte{}},
		mailer:  &recordingSender{ok: mailOK},
	}
	cfg := &config.Config{
		AllowedOrigins: []string{"*"},
		OTPTTL:         5 * time.Minute,
		StoreTimeout:   time.Second,
		StorageTimeout: time.Second,
		TicketCompress: false,
		Event:          config.Event{Name: "ARCANE 2K25", ShortName: "Arcane-2K25", Handle: "@arcane2k25"},
	}
	router, stop := NewRouter(cfg, &Deps{
		ParticipantRepo: h.repo,
		OTPBackend:      otp.NewMemoryBackend(),
		Storage:         h.objects,
		Mailer:          h.mailer,
	})
	h.srv = httptest.NewServer(router)
	t.Cleanup(func() {
		h.srv.Close()
		stop()
	})
	return h
}

func (h *harness) post(t *testing.T, path, body string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(h.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// --- tests ---

func TestRouter_Health(t *testing.T) {
	h := newHarness(t, true)
	resp, err := http.Get(h.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(b))
}

func TestRouter_OTPFlow(t *testing.T) {
	h := newHarness(t, true)

	status, body := h.post(t, "/api/send-otp", `{"email":"ada@x.com"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	code := regexp.MustCompile(`\d{6}`).FindString(h.mailer.last().Text)
	require.NotEmpty(t, code)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	status, _ = h.post(t, "/api/verify-otp", `{"email":"ada@x.com","otp":"`+wrong+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = h.post(t, "/api/verify-otp", `{"email":"ada@x.com","otp":"`+code+`"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.post(t, "/api/verify-otp", `{"email":"ada@x.com","otp":"`+code+`"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_RegisterAndConfirmPayment(t *testing.T) {
	h := newHarness(t, false)

	status, body := h.post(t, "/register", `{"name":"Ada","email":"ada@x.com","phone":"1","college":"C",
		"selected_events":[{"name":"Hackathon"}],"teamName":"Analytical","total":250}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	assert.Regexp(t, `^[A-Z0-9]{6}$`, body["team_code"])

	// Mail transport is down: issuance still succeeds.
	status, body = h.post(t, "/confirm_payment", `{"email":"ada@x.com"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	pdf, ok := h.objects.objects["tickets/ada@x.com_ticket.pdf"]
	require.True(t, ok)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Contains(t, string(pdf), "Name: Ada")

	p, err := h.repo.GetByEmail(context.Background(), "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, p.PaymentStatus)
	require.NotNil(t, p.TicketURL)
	assert.Equal(t, "https://cdn.example.com/tickets/ada@x.com_ticket.pdf", *p.TicketURL)

	last := h.mailer.last()
	assert.Equal(t, "ada@x.com", last.To)
	require.Len(t, last.Attachments, 1)
	assert.Equal(t, pdf, last.Attachments[0].Content)
}

func TestRouter_ConfirmPaymentUnknownEmail(t *testing.T) {
	h := newHarness(t, true)
	status, body := h.post(t, "/confirm_payment", `{"email":"ghost@x.com"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "error", body["status"])
	assert.Empty(t, h.objects.objects)
	assert.Empty(t, h.mailer.sent)
}

func TestRouter_ResendTicket(t *testing.T) {
	h := newHarness(t, true)
	status, _ := h.post(t, "/register", `{"name":"Ada","email":"ada@x.com"}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = h.post(t, "/resend_ticket", `{"email":"ada@x.com"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.post(t, "/confirm_payment", `{"email":"ada@x.com"}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = h.post(t, "/resend_ticket", `{"email":"ada@x.com"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, h.mailer.sent, 2)
}

func TestRouter_ParticipantsSearch(t *testing.T) {
	h := newHarness(t, true)
	for _, name := range []string{"Ada", "Grace", "Adaline"} {
		status, _ := h.post(t, "/register", `{"name":"`+name+`","email":"`+strings.ToLower(name)+`@x.com"}`)
		require.Equal(t, http.StatusOK, status)
	}

	resp, err := http.Get(h.srv.URL + "/participants?search=ADA")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Data []domain.Participant `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Ada", body.Data[0].Name)
	assert.Equal(t, "Adaline", body.Data[1].Name)
}
