package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_USER", "members")
	t.Setenv("DATABASE_PASSWORD", "pw")
	t.Setenv("DATABASE_NAME", "members")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "3000", cfg.Service.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "./public", cfg.Static.Dir)
	assert.Equal(t, time.Hour, cfg.GetSessionTTLDuration())
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeoutDuration())
	assert.False(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Service.Port)
	assert.Equal(t, 30*time.Minute, cfg.GetSessionTTLDuration())
	assert.True(t, cfg.Tracing.Enabled)
}

func TestValidateMissingSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_SECRET", "")

	cfg := Load()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestDatabaseURL(t *testing.T) {
	setRequired(t)

	cfg := Load()
	assert.Equal(t, "postgres://members:pw@localhost:5432/members", cfg.DatabaseURL())
}
