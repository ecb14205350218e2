package otp

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-event-tickets/internal/domain"
)

// MemoryBackend is an in-process Backend. Records are never swept; an
// expired record lives until it is verified or replaced.
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string]domain.OTPRecord
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]domain.OTPRecord)}
}

func (m *MemoryBackend) Put(_ context.Context, rec *domain.OTPRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Email] = *rec
	return nil
}

func (m *MemoryBackend) Get(_ context.Context, email string) (*domain.OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[email]
	if !ok {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (m *MemoryBackend) Delete(_ context.Context, email, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[email]; !ok || rec.Code != code {
		return false, nil
	}
	delete(m.records, email)
	return true, nil
}
