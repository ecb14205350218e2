package otp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/domain"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, msg domain.Email) bool {
	return m.Called(ctx, msg).Bool(0)
}

func TestCodeMailer_Send(t *testing.T) {
	backend := NewMemoryBackend()
	svc := NewService(ServiceDeps{Backend: backend, NewCode: fixedCode("654321"), TTL: time.Minute})
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg domain.Email) bool {
		return msg.To == "a@x.io" && strings.Contains(msg.Text, "654321")
	})).Return(true)

	m := NewCodeMailer(svc, sender, config.Event{Name: "ARCANE 2K25"})
	require.NoError(t, m.Send(context.Background(), "a@x.io"))

	rec, err := backend.Get(context.Background(), "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "654321", rec.Code)
	sender.AssertExpectations(t)
}

func TestCodeMailer_DeliveryFailure(t *testing.T) {
	backend := NewMemoryBackend()
	svc := NewService(ServiceDeps{Backend: backend, NewCode: fixedCode("654321")})
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(false)

	m := NewCodeMailer(svc, sender, config.Event{})
	err := m.Send(context.Background(), "a@x.io")
	assert.ErrorIs(t, err, domain.ErrDelivery)

	// The code stays stored; the next request replaces it.
	_, err = backend.Get(context.Background(), "a@x.io")
	assert.NoError(t, err)
}
