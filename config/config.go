package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration.
type Config struct {
	API      APIConfig
	Session  SessionConfig
	Health   HealthConfig
	LogLevel string
}

// APIConfig holds settings for the platform API client.
type APIConfig struct {
	// BaseURL is the root of the platform API, without a trailing slash.
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds settings for durable token storage.
type SessionConfig struct {
	// Path is the file the token pair is persisted to.
	Path string
}

// HealthConfig holds settings for the periodic health check.
type HealthConfig struct {
	Interval time.Duration
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	// Ignore a missing .env; plain env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("ESCROW_API_URL", "http://localhost:8000"),
			Timeout: getDuration("ESCROW_API_TIMEOUT", 15*time.Second),
		},
		Session: SessionConfig{
			Path: getEnv("ESCROW_SESSION_PATH", defaultSessionPath()),
		},
		Health: HealthConfig{
			Interval: getDuration("ESCROW_HEALTH_INTERVAL", 5*time.Second),
		},
		LogLevel: getEnv("ESCROW_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".escrowdesk-session.json"
	}
	return filepath.Join(dir, "escrowdesk", "session.json")
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
