// Package config loads application configuration from environment variables.
// A .env file in the working directory is honored when present so local
// development matches the deployed environment shape.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, grouped by concern.
type Config struct {
	Service struct {
		Name    string
		Version string
		Env     string
		Port    string
	}

	Logging struct {
		Level string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Session struct {
		Secret     string
		TTLMinutes int
	}

	Static struct {
		Dir string
	}

	Tracing struct {
		Enabled    bool
		Endpoint   string
		SampleRate float64
	}

	Profiling struct {
		Enabled  bool
		Endpoint string
	}

	Server struct {
		ShutdownTimeoutSeconds     int
		ReadinessDrainDelaySeconds int
	}
}

// Load reads configuration from the environment. Missing optional values fall
// back to defaults; Validate reports missing required ones.
func Load() *Config {
	// Best effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Service.Name = getEnv("SERVICE_NAME", "members-web")
	cfg.Service.Version = getEnv("SERVICE_VERSION", "dev")
	cfg.Service.Env = getEnv("ENV", "development")
	cfg.Service.Port = getEnv("PORT", "3000")

	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	cfg.Database.Host = os.Getenv("DATABASE_HOST")
	cfg.Database.Port = getEnv("DATABASE_PORT", "5432")
	cfg.Database.User = os.Getenv("DATABASE_USER")
	cfg.Database.Password = os.Getenv("DATABASE_PASSWORD")
	cfg.Database.Name = os.Getenv("DATABASE_NAME")

	cfg.Session.Secret = os.Getenv("SESSION_SECRET")
	cfg.Session.TTLMinutes = getEnvInt("SESSION_TTL_MINUTES", 60)

	cfg.Static.Dir = getEnv("STATIC_DIR", "./public")

	cfg.Tracing.Enabled = getEnvBool("TRACING_ENABLED", false)
	cfg.Tracing.Endpoint = getEnv("TRACING_ENDPOINT", "localhost:4318")
	cfg.Tracing.SampleRate = getEnvFloat("TRACING_SAMPLE_RATE", 1.0)

	cfg.Profiling.Enabled = getEnvBool("PROFILING_ENABLED", false)
	cfg.Profiling.Endpoint = getEnv("PROFILING_ENDPOINT", "http://localhost:4040")

	cfg.Server.ShutdownTimeoutSeconds = getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)
	cfg.Server.ReadinessDrainDelaySeconds = getEnvInt("READINESS_DRAIN_DELAY_SECONDS", 0)

	return cfg
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.Host == "" {
		missing = append(missing, "DATABASE_HOST")
	}
	if c.Database.User == "" {
		missing = append(missing, "DATABASE_USER")
	}
	if c.Database.Name == "" {
		missing = append(missing, "DATABASE_NAME")
	}
	if c.Session.Secret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	if c.Session.TTLMinutes <= 0 {
		return errors.New("SESSION_TTL_MINUTES must be positive")
	}
	return nil
}

// DatabaseURL builds the postgres connection string from the database fields.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// GetSessionTTLDuration returns the session lifetime as a duration.
func (c *Config) GetSessionTTLDuration() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// GetShutdownTimeoutDuration returns the graceful shutdown timeout.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// GetReadinessDrainDelayDuration returns how long to fail readiness before
// shutting the HTTP server down.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.Server.ReadinessDrainDelaySeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
