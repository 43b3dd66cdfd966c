package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("REGISTRATION_CUTOFF", "")
	t.Setenv("EVENT_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.RegistrationCutoff)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Contains(t, cfg.DBUrl, "campusconnect")
}

func TestLoad_productionRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_parsesDurationsAndOrigins(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REGISTRATION_CUTOFF", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://campus.example.edu ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.RegistrationCutoff)
	assert.Equal(t, []string{"http://localhost:3000", "https://campus.example.edu"}, cfg.AllowedOrigins)
}

func TestLoad_badDuration(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY", "forever")

	_, err := Load()
	require.Error(t, err)
}

func TestNewLogger_levels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
}
