// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lettertool/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lettertool")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
}

/*
TestLoad_Defaults verifies defaults for every optional setting.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"AfD"}, cfg.ExcludedPartiesDE)
	assert.Equal(t, 7*24*time.Hour, cfg.LetterRetention)
	assert.Equal(t, 20*time.Second, cfg.SheetsFetchTimeout)
	assert.Empty(t, cfg.AllowedOrigins())
}

/*
TestLoad_MissingRequired verifies that required variables are enforced.
*/
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_Overrides checks list and duration parsing.
*/
func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("EXCLUDED_PARTIES_DE", "AfD,Die Basis")
	t.Setenv("LETTER_RETENTION", "48h")
	t.Setenv("EXTRA_ORIGINS", " example.org , ,campaigns.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"AfD", "Die Basis"}, cfg.ExcludedPartiesDE)
	assert.Equal(t, 48*time.Hour, cfg.LetterRetention)
	assert.Equal(t, []string{"example.org", "campaigns.example.com"}, cfg.AllowedOrigins())
}

/*
TestLoad_RejectsNonPositiveRetention guards the lazy expiry check.
*/
func TestLoad_RejectsNonPositiveRetention(t *testing.T) {
	setRequired(t)
	t.Setenv("LETTER_RETENTION", "0s")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_ProductionRequiresHTTPSSheets rejects plain-HTTP sheet fetches in production only.
*/
func TestLoad_ProductionRequiresHTTPSSheets(t *testing.T) {
	setRequired(t)
	t.Setenv("SHEETS_BASE_URL", "http://127.0.0.1:9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsProduction())

	t.Setenv("ENVIRONMENT", "production")
	_, err = config.Load()
	assert.ErrorContains(t, err, "SHEETS_BASE_URL")
}
