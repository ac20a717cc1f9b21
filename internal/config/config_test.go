package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, int64(52428800), cfg.MaxUploadSize)
	assert.Equal(t, 15, cfg.BatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PDF_PASSWORD", "secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")
	t.Setenv("BATCH_SIZE", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.PDFPassword)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("BATCH_SIZE", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
