package issuance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-event-tickets/internal/application/notification"
	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/domain"
)

const pdfContentType = "application/pdf"

// Stage is the last step an issuance reached.
type Stage string

const (
	StagePending    Stage = "pending"
	StageGenerating Stage = "generating"
	StageUploading  Stage = "uploading"
	StageUpdating   Stage = "updating"
	StageNotifying  Stage = "notifying"
	StageDone       Stage = "done"
)

// Result describes one ConfirmPayment run. It is returned alongside errors so
// callers can see where the run stopped.
type Result struct {
	ParticipantID string
	TicketURL     string
	Delivered     bool
	Stage         Stage
}

type Service interface {
	ConfirmPayment(ctx context.Context, email string) (*Result, error)
	ResendTicket(ctx context.Context, email string) error
}

type participantStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Participant, error)
	MarkPaid(ctx context.Context, participantID, ticketURL string, paidAt time.Time) error
}

type ticketGenerator interface {
	Generate(ctx context.Context, p *domain.Participant) ([]byte, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type ServiceDeps struct {
	ParticipantRepo participantStore
	Generator       ticketGenerator
	Storage         objectStore
	Mailer          notification.Sender
	SMS             notification.SMSSender // optional
	Event           config.Event
	StoreTimeout    time.Duration
	StorageTimeout  time.Duration
	Now             func() time.Time // defaults to time.Now
}

type service struct {
	repo           participantStore
	generator      ticketGenerator
	storage        objectStore
	mailer         notification.Sender
	sms            notification.SMSSender
	event          config.Event
	storeTimeout   time.Duration
	storageTimeout time.Duration
	now            func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:           deps.ParticipantRepo,
		generator:      deps.Generator,
		storage:        deps.Storage,
		mailer:         deps.Mailer,
		sms:            deps.SMS,
		event:          deps.Event,
		storeTimeout:   deps.StoreTimeout,
		storageTimeout: deps.StorageTimeout,
		now:            now,
	}
}

// TicketKey is the storage path of a participant's ticket. It depends only
// on the email, so re-issuing overwrites the previous ticket.
func TicketKey(email string) string {
	return "tickets/" + domain.NormalizeEmail(email) + "_ticket.pdf"
}

// ConfirmPayment generates, stores, records and delivers the ticket for the
// participant registered under email. The ticket is stored and the record
// marked paid before any email goes out. A failed delivery is reported in
// Result.Delivered, not as an error.
//
// The run is detached from ctx cancellation; once started it finishes or fails.
func (s *service) ConfirmPayment(ctx context.Context, email string) (*Result, error) {
	ctx = context.WithoutCancel(ctx)
	email = domain.NormalizeEmail(email)
	res := &Result{Stage: StagePending}

	p, err := s.lookup(ctx, email)
	if err != nil {
		return res, err
	}
	res.ParticipantID = p.ParticipantID

	res.Stage = StageGenerating
	pdf, err := s.generator.Generate(ctx, p)
	if err != nil {
		if !errors.Is(err, domain.ErrGeneration) {
			err = fmt.Errorf("%w: %w", domain.ErrGeneration, err)
		}
		return res, err
	}

	res.Stage = StageUploading
	key := TicketKey(email)
	url, err := s.upload(ctx, key, pdf)
	if err != nil {
		return res, fmt.Errorf("upload ticket %s: %w: %w", key, domain.ErrTransient, err)
	}
	res.TicketURL = url

	res.Stage = StageUpdating
	if err := s.markPaid(ctx, p.ParticipantID, url); err != nil {
		slog.Error("ticket stored but participant not marked paid",
			"participant_id", p.ParticipantID, "email", email, "ticket_url", url, "err", err)
		return res, fmt.Errorf("mark participant %s paid: %w: %w", p.ParticipantID, domain.ErrPartialIssuance, err)
	}
	p.PaymentStatus = domain.PaymentPaid
	p.TicketURL = &url

	res.Stage = StageNotifying
	res.Delivered = s.mailer.Send(ctx, notification.TicketEmail(s.event, p, pdf))
	if !res.Delivered {
		slog.Warn("ticket issued but not delivered", "participant_id", p.ParticipantID, "email", email, "ticket_url", url)
	}
	if s.sms != nil && strings.TrimSpace(p.Phone) != "" {
		s.sms.Send(ctx, p.Phone, notification.TicketSMS(s.event, url))
	}

	res.Stage = StageDone
	slog.Info("ticket issued", "participant_id", p.ParticipantID, "ticket_url", url, "delivered", res.Delivered)
	return res, nil
}

// ResendTicket emails the stored ticket again. Only participants that have
// been marked paid with a ticket on record qualify.
func (s *service) ResendTicket(ctx context.Context, email string) error {
	ctx = context.WithoutCancel(ctx)
	email = domain.NormalizeEmail(email)

	p, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}
	if p.PaymentStatus != domain.PaymentPaid || p.TicketURL == nil {
		return fmt.Errorf("no ticket issued for %s: %w", email, domain.ErrNotFound)
	}

	pdf, err := s.download(ctx, TicketKey(email))
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("download ticket: %w: %w", domain.ErrTransient, err)
	}

	if !s.mailer.Send(ctx, notification.TicketEmail(s.event, p, pdf)) {
		return fmt.Errorf("resend ticket to %s: %w", email, domain.ErrDelivery)
	}
	return nil
}

func (s *service) lookup(ctx context.Context, email string) (*domain.Participant, error) {
	ctx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()
	p, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("lookup participant: %w: %w", domain.ErrTransient, err)
	}
	return p, nil
}

func (s *service) upload(ctx context.Context, key string, pdf []byte) (string, error) {
	ctx, cancel := withTimeout(ctx, s.storageTimeout)
	defer cancel()
	return s.storage.Upload(ctx, key, bytes.NewReader(pdf), pdfContentType)
}

func (s *service) download(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, s.storageTimeout)
	defer cancel()
	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *service) markPaid(ctx context.Context, participantID, url string) error {
	ctx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.MarkPaid(ctx, participantID, url, s.now().UTC())
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
