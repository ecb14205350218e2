package http

import (
	"context"
	"io"
	"time"

	"github.com/go-event-tickets/internal/domain"
)

// ParticipantRepository is the minimal interface the router requires from a participant store.
type ParticipantRepository interface {
	Put(ctx context.Context, p *domain.Participant) error
	GetByEmail(ctx context.Context, email string) (*domain.Participant, error)
	MarkPaid(ctx context.Context, participantID, ticketURL string, paidAt time.Time) error
	// SearchByName matches a case-insensitive substring of the name.
	SearchByName(ctx context.Context, query string) ([]domain.Participant, error)
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}
