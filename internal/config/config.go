package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	AllowedOrigins []string // CORS allowed origins

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	S3BucketName        string
	TicketPublicBaseURL string // empty falls back to the virtual-hosted S3 URL
	TicketCompress      bool   // deflate PDF content streams

	OTPBackend    string // "memory" | "redis" | "dynamo"
	OTPTTL        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MailBackend      string // "smtp" | "mailersend"
	MailFrom         string
	MailFromName     string
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	MailerSendAPIKey string

	SMSNotifyEnabled bool
	SNSRegion        string

	StoreTimeout   time.Duration
	StorageTimeout time.Duration
	MailTimeout    time.Duration
	AssetTimeout   time.Duration

	Event Event
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Participants string
	OTPCodes     string
}

// Event holds the static event details printed on tickets and emails.
type Event struct {
	Name           string
	ShortName      string
	Date           string
	Venue          string
	ContactEmail   string
	Handle         string
	HeaderImageURL string
	FooterImageURL string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Participants: getEnv("DYNAMO_TABLE_PARTICIPANTS", "participants"),
			OTPCodes:     getEnv("DYNAMO_TABLE_OTP_CODES", "otp_codes"),
		},

		S3BucketName:        getEnv("S3_BUCKET_NAME", "event-tickets"),
		TicketPublicBaseURL: strings.TrimRight(getEnv("TICKET_PUBLIC_BASE_URL", ""), "/"),
		TicketCompress:      getEnvBool("TICKET_COMPRESS", true),

		OTPBackend:    getEnv("OTP_BACKEND", "memory"),
		OTPTTL:        getEnvDuration("OTP_TTL", 5*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MailBackend:      getEnv("MAIL_BACKEND", "smtp"),
		MailFrom:         getEnv("MAIL_FROM", "noreply@example.com"),
		MailFromName:     getEnv("MAIL_FROM_NAME", "Arcane 2K25"),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnv("SMTP_PORT", "1025"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		MailerSendAPIKey: getEnv("MAILERSEND_API_KEY", ""),

		SMSNotifyEnabled: getEnvBool("SMS_NOTIFY_ENABLED", false),
		SNSRegion:        getEnv("SNS_REGION", "us-east-1"),

		StoreTimeout:   getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		StorageTimeout: getEnvDuration("STORAGE_TIMEOUT", 15*time.Second),
		MailTimeout:    getEnvDuration("MAIL_TIMEOUT", 10*time.Second),
		AssetTimeout:   getEnvDuration("ASSET_TIMEOUT", 5*time.Second),

		Event: Event{
			Name:           getEnv("EVENT_NAME", "ARCANE 2K25"),
			ShortName:      getEnv("EVENT_SHORT_NAME", "Arcane-2K25"),
			Date:           getEnv("EVENT_DATE", "16th October 2025"),
			Venue:          getEnv("EVENT_VENUE", "B.S. Abdur Rahman Crescent Institute of Science & Technology"),
			ContactEmail:   getEnv("EVENT_CONTACT_EMAIL", "arcane2k25@gmail.com"),
			Handle:         getEnv("EVENT_HANDLE", "@arcane2k25"),
			HeaderImageURL: getEnv("TICKET_HEADER_IMAGE_URL", ""),
			FooterImageURL: getEnv("TICKET_FOOTER_IMAGE_URL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("5m", "1500ms").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
