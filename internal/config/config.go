package config

import (
	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration. The parser core never reads
// it; the password travels as an explicit argument from the edges in.
type Config struct {
	// PDFPassword decrypts uploaded statements. Required for serve.
	PDFPassword string `env:"PDF_PASSWORD"`

	// HTTP server
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// MaxUploadSize caps uploaded statement files, in bytes.
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"52428800"` // 50 MB

	// BatchSize is the number of PDF pages decoded per batch. Memory
	// knob only; parse output does not depend on it.
	BatchSize int `env:"BATCH_SIZE" envDefault:"15"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
