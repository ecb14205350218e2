package participant

import (
	"context"
	"fmt"
	"time"

	"github.com/go-event-tickets/internal/domain"
)

type Service interface {
	Search(ctx context.Context, query string) ([]domain.Participant, error)
}

type participantStore interface {
	SearchByName(ctx context.Context, query string) ([]domain.Participant, error)
}

type ServiceDeps struct {
	ParticipantRepo participantStore
	StoreTimeout    time.Duration
}

type service struct {
	repo         participantStore
	storeTimeout time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.ParticipantRepo, storeTimeout: deps.StoreTimeout}
}

// Search lists participants whose name contains query, ignoring case.
// An empty query lists everyone.
func (s *service) Search(ctx context.Context, query string) ([]domain.Participant, error) {
	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}
	out, err := s.repo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search participants: %w: %w", domain.ErrTransient, err)
	}
	if out == nil {
		out = []domain.Participant{}
	}
	return out, nil
}
