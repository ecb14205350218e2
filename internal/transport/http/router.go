package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-event-tickets/internal/application/issuance"
	"github.com/go-event-tickets/internal/application/notification"
	"github.com/go-event-tickets/internal/application/otp"
	"github.com/go-event-tickets/internal/application/participant"
	"github.com/go-event-tickets/internal/application/registration"
	"github.com/go-event-tickets/internal/application/ticket"
	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/transport/http/handler"
	appmiddleware "github.com/go-event-tickets/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	ParticipantRepo ParticipantRepository
	OTPBackend      otp.Backend
	Storage         ObjectStore
	Mailer          notification.Sender
	SMS             notification.SMSSender // nil disables SMS notices
	Assets          ticket.AssetFetcher    // nil disables ticket decorations
	Now             func() time.Time
}

// NewRouter builds and returns the application router. The returned stop
// function releases background resources held by the middleware.
func NewRouter(cfg *config.Config, deps *Deps) (http.Handler, func()) {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 1 request/second, burst of 5, per client IP on the OTP endpoints.
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(1), 5)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Backend: deps.OTPBackend,
		TTL:     cfg.OTPTTL,
		Timeout: cfg.StoreTimeout,
		Now:     deps.Now,
	})
	codeMailer := otp.NewCodeMailer(otpSvc, deps.Mailer, cfg.Event)
	registrationSvc := registration.NewService(registration.ServiceDeps{
		ParticipantRepo: deps.ParticipantRepo,
		StoreTimeout:    cfg.StoreTimeout,
		Now:             deps.Now,
	})
	generator := ticket.NewGenerator(ticket.GeneratorDeps{
		Event:    cfg.Event,
		Assets:   deps.Assets,
		Now:      deps.Now,
		Compress: cfg.TicketCompress,
	})
	issuanceSvc := issuance.NewService(issuance.ServiceDeps{
		ParticipantRepo: deps.ParticipantRepo,
		Generator:       generator,
		Storage:         deps.Storage,
		Mailer:          deps.Mailer,
		SMS:             deps.SMS,
		Event:           cfg.Event,
		StoreTimeout:    cfg.StoreTimeout,
		StorageTimeout:  cfg.StorageTimeout,
		Now:             deps.Now,
	})
	participantSvc := participant.NewService(participant.ServiceDeps{
		ParticipantRepo: deps.ParticipantRepo,
		StoreTimeout:    cfg.StoreTimeout,
	})

	otpH := handler.NewOTPHandler(otpSvc, codeMailer)
	registrationH := handler.NewRegistrationHandler(registrationSvc)
	paymentH := handler.NewPaymentHandler(issuanceSvc)
	participantH := handler.NewParticipantHandler(participantSvc)

	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(otpRL.Limit)
		r.Post("/send-otp", otpH.Send)
		r.Post("/verify-otp", otpH.Verify)
	})

	r.Post("/register", registrationH.Register)
	r.Post("/confirm_payment", paymentH.Confirm)
	r.Post("/resend_ticket", paymentH.Resend)
	r.Get("/participants", participantH.List)

	return r, otpRL.Stop
}
