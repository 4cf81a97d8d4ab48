package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config carries everything the service needs at startup. All values come
// from the environment; components receive the parts they need through
// their constructors.
type Config struct {
	DatabaseURL string
	SecretKey   []byte

	// APIKeyDigest is the SHA-256 hex digest of the pre-shared service key
	// expected in the x-api-key header.
	APIKeyDigest string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	Port string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OTPTTL          time.Duration
	OTPLength       int
	EmailTimeout    time.Duration
}

const (
	defaultAccessTokenTTL  = 10 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
	defaultOTPTTL          = 5 * time.Minute
	defaultOTPLength       = 6
	defaultEmailTimeout    = 10 * time.Second
)

func LoadConfig() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL env var is required")
	}

	smtpPort, err := strconv.Atoi(envOr("SMTP_PORT", "587"))
	if err != nil {
		return nil, errors.New("SMTP_PORT must be a number")
	}

	return &Config{
		DatabaseURL:     databaseURL,
		SecretKey:       []byte(envOr("SECRET_KEY", "MYSECRETKEY123")),
		APIKeyDigest:    os.Getenv("EXPECTED_API_KEY"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        smtpPort,
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		EmailFrom:       envOr("EMAIL_FROM", "no-reply@tournament-organizer.app"),
		Port:            envOr("PORT", "8080"),
		AccessTokenTTL:  defaultAccessTokenTTL,
		RefreshTokenTTL: defaultRefreshTokenTTL,
		OTPTTL:          defaultOTPTTL,
		OTPLength:       defaultOTPLength,
		EmailTimeout:    defaultEmailTimeout,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
