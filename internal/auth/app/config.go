package app

import (
	"os"
	"strconv"
	"time"

	"github.com/tracknorth/basecamp/pkg/jwtx"
)

type Config struct {
	Issuer     string // Issuer claim stamped into bearer tokens
	SigningKey string // Required: symmetric HS512 signing key, min 16 bytes

	BearerTTL  time.Duration // Bearer token lifetime (default: 1h)
	RefreshTTL time.Duration // Refresh token lifetime (default: 28 days)

	DatabaseFile string // Path to SQLite database file (default: ./auth.db)

	// Optional one-shot bootstrap: when both are set and the username is free,
	// an admin account is created at startup.
	BootstrapUsername string
	BootstrapPassword string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "basecamp-auth"),
		SigningKey:          os.Getenv("AUTH_SIGNING_KEY"),
		BearerTTL:           getEnvDurationOrDefault("AUTH_BEARER_TTL", jwtx.DefaultBearerTTL),
		RefreshTTL:          getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTTL),
		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		BootstrapUsername:   os.Getenv("AUTH_BOOTSTRAP_USERNAME"),
		BootstrapPassword:   os.Getenv("AUTH_BOOTSTRAP_PASSWORD"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
