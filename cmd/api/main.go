package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-event-tickets/internal/application/notification"
	"github.com/go-event-tickets/internal/application/otp"
	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/infrastructure/assets"
	"github.com/go-event-tickets/internal/infrastructure/dynamo"
	mailersendinfra "github.com/go-event-tickets/internal/infrastructure/mailersend"
	redisinfra "github.com/go-event-tickets/internal/infrastructure/redis"
	s3infra "github.com/go-event-tickets/internal/infrastructure/s3"
	"github.com/go-event-tickets/internal/infrastructure/smtp"
	"github.com/go-event-tickets/internal/infrastructure/sns"
	"github.com/go-event-tickets/internal/pkg/logger"
	transporthttp "github.com/go-event-tickets/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	if err := run(cfg); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("dynamodb client: %w", err)
	}
	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, cfg.OTPBackend == "dynamo")

	otpBackend, closeOTP, err := newOTPBackend(cfg, dynamoClient)
	if err != nil {
		return err
	}
	defer closeOTP()

	transport, err := newMailTransport(cfg)
	if err != nil {
		return err
	}

	// SNS SMS sender (optional).
	var smsSender notification.SMSSender
	if cfg.SMSNotifyEnabled {
		if s, err := sns.NewSender(ctx, cfg); err == nil {
			smsSender = notification.NewSMSSender(s, cfg.MailTimeout)
		} else {
			slog.Warn("sns sender not available", "err", err)
		}
	}

	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("s3 client: %w", err)
	}

	deps := &transporthttp.Deps{
		ParticipantRepo: dynamo.NewParticipantRepo(dynamoClient, cfg.DynamoTables.Participants),
		OTPBackend:      otpBackend,
		Storage:         s3infra.NewStore(s3Client, cfg.S3BucketName, cfg.AWSRegion, cfg.TicketPublicBaseURL),
		Mailer:          notification.NewSender(transport, cfg.MailTimeout),
		SMS:             smsSender,
		Assets:          assets.NewFetcher(cfg.AssetTimeout),
	}

	router, stopRouter := transporthttp.NewRouter(cfg, deps)
	defer stopRouter()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // confirm_payment renders, uploads and mails inline
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv,
			"otp_backend", cfg.OTPBackend, "mail_backend", cfg.MailBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// newOTPBackend selects the OTP store. Redis and DynamoDB records are kept
// for one extra TTL after expiry so a late verify still reports expiry.
func newOTPBackend(cfg *config.Config, dynamoClient dynamo.API) (otp.Backend, func(), error) {
	switch cfg.OTPBackend {
	case "memory", "":
		return otp.NewMemoryBackend(), func() {}, nil
	case "redis":
		client := redisinfra.NewClient(cfg)
		closeFn := func() {
			if err := client.Close(); err != nil {
				slog.Warn("redis close failed", "err", err)
			}
		}
		return redisinfra.NewOTPStore(client, cfg.OTPTTL), closeFn, nil
	case "dynamo":
		return dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPCodes, cfg.OTPTTL), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown OTP_BACKEND %q", cfg.OTPBackend)
	}
}

func newMailTransport(cfg *config.Config) (notification.Transport, error) {
	switch cfg.MailBackend {
	case "smtp", "":
		return smtp.NewMailer(cfg), nil
	case "mailersend":
		m, err := mailersendinfra.NewMailer(cfg.MailerSendAPIKey, cfg.MailFromName, cfg.MailFrom)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown MAIL_BACKEND %q", cfg.MailBackend)
	}
}
