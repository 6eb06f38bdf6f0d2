// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and handed to constructors explicitly.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the LetterTool API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL) holding campaign target lists
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) holding generated letters and emailed lists
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Campaigner tokens are issued by the identity provider; we only verify them.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`

	// Cross-Origin Resource Sharing (comma separated origin suffixes)
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// ExcludedPartiesDE lists parties whose members are dropped from the
	// German representative directory when it is built.
	ExcludedPartiesDE []string `env:"EXCLUDED_PARTIES_DE" envDefault:"AfD" envSeparator:","`

	// LetterRetention is how long a generated letter stays readable.
	LetterRetention time.Duration `env:"LETTER_RETENTION" envDefault:"168h"`

	// Google Sheets import
	SheetsBaseURL      string        `env:"SHEETS_BASE_URL"      envDefault:"https://docs.google.com"`
	SheetsFetchTimeout time.Duration `env:"SHEETS_FETCH_TIMEOUT" envDefault:"20s"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.LetterRetention <= 0 {
		return nil, fmt.Errorf("config: LETTER_RETENTION must be positive, got %s", cfg.LetterRetention)
	}

	// Local stubs are fine elsewhere; production fetches sheets over TLS only.
	if cfg.IsProduction() && !strings.HasPrefix(cfg.SheetsBaseURL, "https://") {
		return nil, fmt.Errorf("config: SHEETS_BASE_URL must use https in production, got %q", cfg.SheetsBaseURL)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the trimmed, non-empty entries of EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
