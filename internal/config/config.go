// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables. The resulting Config is immutable and passed explicitly
// into the components that need it.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the minimum length for the session secret;
// it doubles as the CSRF auth key, which requires 32 bytes.
const MinSessionSecretLength = 32

// knownWeakSecrets are example values that must never reach production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration.
type Config struct {
	DBPath        string `env:"UNISITE_DB_PATH" envDefault:"./data/unisite.db"`
	SessionSecret string `env:"UNISITE_SESSION_SECRET,required"`
	ServerHost    string `env:"UNISITE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"UNISITE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"UNISITE_ENV" envDefault:"development"`
	LogLevel      string `env:"UNISITE_LOG_LEVEL" envDefault:"info"`

	// Upload handling for news images.
	UploadsDir    string `env:"UNISITE_UPLOADS_DIR" envDefault:"./uploads/news"`
	MaxUploadSize int64  `env:"UNISITE_MAX_UPLOAD_SIZE" envDefault:"16777216"` // 16 MiB

	// Optional GeoLite2-Country database for feedback country tagging.
	GeoIPDBPath string `env:"UNISITE_GEOIP_DB_PATH"`

	// DoSeed enables startup seeding of users/categories/demo news.
	DoSeed bool `env:"UNISITE_DO_SEED" envDefault:"true"`
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the host:port the server listens on.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// GeoIPEnabled reports whether a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// Load parses environment variables into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("UNISITE_SESSION_SECRET must be at least %d bytes long, got %d; "+
			"generate one with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("UNISITE_SESSION_SECRET is a known default value and must not be used")
		}
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("UNISITE_MAX_UPLOAD_SIZE must be positive, got %d", cfg.MaxUploadSize)
	}
	if strings.TrimSpace(cfg.UploadsDir) == "" {
		return nil, fmt.Errorf("UNISITE_UPLOADS_DIR must not be empty")
	}

	return cfg, nil
}
