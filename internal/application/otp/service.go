package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-event-tickets/internal/domain"
	"github.com/go-event-tickets/internal/pkg/code"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

// Result is the outcome of a verification. Exactly one holds per call.
type Result int

const (
	ResultSuccess Result = iota
	ResultMismatch
	ResultNotFound
	ResultExpired
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultMismatch:
		return "mismatch"
	case ResultNotFound:
		return "not_found"
	case ResultExpired:
		return "expired"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Backend stores at most one record per email.
// Get returns domain.ErrNotFound when no record exists. Delete removes the
// record only while it still holds code, and reports whether this call
// removed it. Concurrent verifies therefore resolve to a single success, and
// a verify racing a re-issue cannot consume the newer code.
type Backend interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, email, code string) (bool, error)
}

type Service interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, submitted string) (Result, error)
	TTL() time.Duration
}

type ServiceDeps struct {
	Backend Backend
	TTL     time.Duration
	// Timeout bounds each backend call. Zero means no extra bound.
	Timeout time.Duration
	Now     func() time.Time
	NewCode func() (string, error)
}

type service struct {
	backend Backend
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	newCode func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		backend: deps.Backend,
		ttl:     deps.TTL,
		timeout: deps.Timeout,
		now:     deps.Now,
		newCode: deps.NewCode,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = code.NewOTP
	}
	return s
}

func (s *service) TTL() time.Duration { return s.ttl }

// Issue stores a fresh code for email, replacing any outstanding one, and
// returns it for delivery. Last write wins.
func (s *service) Issue(ctx context.Context, email string) (string, error) {
	c, err := s.newCode()
	if err != nil {
		return "", err
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rec := &domain.OTPRecord{Email: email, Code: c, ExpiresAt: s.now().Add(s.ttl)}
	if err := s.backend.Put(ctx, rec); err != nil {
		return "", fmt.Errorf("store otp: %w: %w", domain.ErrTransient, err)
	}
	return c, nil
}

// Verify checks submitted against the stored code. Expired records and
// matched records are removed; mismatches leave the record for a retry.
func (s *service) Verify(ctx context.Context, email, submitted string) (Result, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rec, err := s.backend.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return ResultNotFound, nil
	}
	if err != nil {
		return ResultNotFound, fmt.Errorf("load otp: %w: %w", domain.ErrTransient, err)
	}

	if rec.Expired(s.now()) {
		if _, err := s.backend.Delete(ctx, email, rec.Code); err != nil {
			slog.Warn("failed to delete expired otp", "email", email, "err", err)
		}
		return ResultExpired, nil
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(submitted)) != 1 {
		return ResultMismatch, nil
	}

	removed, err := s.backend.Delete(ctx, email, rec.Code)
	if err != nil {
		return ResultNotFound, fmt.Errorf("consume otp: %w: %w", domain.ErrTransient, err)
	}
	if !removed {
		// Consumed by another verify, or replaced by a newer code.
		return ResultNotFound, nil
	}
	return ResultSuccess, nil
}

func (s *service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
