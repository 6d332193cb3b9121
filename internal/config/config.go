package config

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultPort       = "8080"
	defaultSessionTTL = 24 * time.Hour
	defaultOTPTTL     = 5 * time.Minute
)

// Config holds the application configuration
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string
	SessionTTL  time.Duration
	OTPTTL      time.Duration
	DevMode     bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:       defaultPort,
		SessionTTL: defaultSessionTTL,
		OTPTTL:     defaultOTPTTL,
	}

	// DATABASE_URL (required)
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.DatabaseURL = databaseURL

	// JWT_SECRET (required, never logged)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWTSecret = jwtSecret

	// PORT (optional, defaults to 8080)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	// SESSION_TTL (optional, Go duration string, e.g. "24h")
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", raw, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("SESSION_TTL must be positive, got %q", raw)
		}
		cfg.SessionTTL = ttl
	}

	// OTP_TTL (optional, Go duration string, e.g. "5m")
	if raw := os.Getenv("OTP_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid OTP_TTL %q: %w", raw, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("OTP_TTL must be positive, got %q", raw)
		}
		cfg.OTPTTL = ttl
	}

	// DEV_MODE (optional, defaults to false)
	cfg.DevMode = os.Getenv("DEV_MODE") == "true"

	return cfg, nil
}
