package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-event-tickets/internal/domain"
	"github.com/go-event-tickets/internal/pkg/code"
	"github.com/go-event-tickets/internal/pkg/id"
	"github.com/go-event-tickets/internal/pkg/validate"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Registration, error)
}

type participantStore interface {
	Put(ctx context.Context, p *domain.Participant) error
}

type ServiceDeps struct {
	ParticipantRepo participantStore
	StoreTimeout    time.Duration
	Now             func() time.Time
	NewID           func() string
	NewTeamCode     func() (string, error)
}

type service struct {
	repo         participantStore
	storeTimeout time.Duration
	now          func() time.Time
	newID        func() string
	newTeamCode  func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:         deps.ParticipantRepo,
		storeTimeout: deps.StoreTimeout,
		now:          deps.Now,
		newID:        deps.NewID,
		newTeamCode:  deps.NewTeamCode,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = id.New
	}
	if s.newTeamCode == nil {
		s.newTeamCode = code.NewTeamCode
	}
	return s
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Registration, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	teamName := nonEmpty(req.TeamName)
	teamCode := nonEmpty(req.TeamCode)
	if teamCode == nil && teamName != nil {
		c, err := s.newTeamCode()
		if err != nil {
			return nil, err
		}
		teamCode = &c
	}

	events := req.SelectedEvents
	if events == nil {
		events = []domain.SelectedEvent{}
	}

	now := s.now().UTC()
	p := &domain.Participant{
		ParticipantID:  s.newID(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          strings.TrimSpace(req.Phone),
		College:        strings.TrimSpace(req.College),
		SelectedEvents: events,
		TeamName:       teamName,
		TeamCode:       teamCode,
		FoodPreference: nonEmpty(req.FoodPreference),
		Amount:         req.Total,
		PaymentStatus:  domain.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	putCtx := ctx
	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		putCtx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}
	if err := s.repo.Put(putCtx, p); err != nil {
		return nil, fmt.Errorf("save participant: %w: %w: %w", domain.ErrPersistence, domain.ErrTransient, err)
	}

	return &domain.Registration{ParticipantID: p.ParticipantID, TeamCode: teamCode}, nil
}

// nonEmpty treats blank optional strings as absent.
func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	if strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
