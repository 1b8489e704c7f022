package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, StorageMySQL, cfg.StorageDriver)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 60*time.Minute, cfg.AccessTokenTTL)
	assert.Zero(t, cfg.RefreshTokenTTL)
	assert.False(t, cfg.RefreshTokenRotate)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.LoanPeriod)
	assert.True(t, cfg.ExposeResetToken)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 5.0, cfg.AuthRateLimitRPS)
	assert.Equal(t, 10, cfg.AuthRateLimitBurst)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		"PORT":                 "9000",
		"STORAGE_DRIVER":       "Memory",
		"LOG_LEVEL":            "debug",
		"ACCESS_TOKEN_TTL":     "15m",
		"REFRESH_TOKEN_TTL":    "30d",
		"REFRESH_TOKEN_ROTATE": "true",
		"LOAN_PERIOD":          "7d",
		"EXPOSE_RESET_TOKEN":   "false",
		"AUTH_RATE_LIMIT_RPS":  "0.5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	assert.True(t, cfg.RefreshTokenRotate)
	assert.Equal(t, 7*24*time.Hour, cfg.LoanPeriod)
	assert.False(t, cfg.ExposeResetToken)
	assert.Equal(t, 0.5, cfg.AuthRateLimitRPS)
}

func TestLoadProduction(t *testing.T) {
	_, err := load(envMap(map[string]string{"ENV": "production"}))
	assert.True(t, errors.Is(err, ErrDefaultSecretInProduction))

	cfg, err := load(envMap(map[string]string{"ENV": "production", "JWT_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.False(t, cfg.ExposeResetToken, "reset tokens stay private in production")
	assert.True(t, cfg.CookieSecure)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"ACCESS_TOKEN_TTL":      "soon",
		"REFRESH_TOKEN_ROTATE":  "maybe",
		"STORAGE_DRIVER":        "sqlite",
		"AUTH_RATE_LIMIT_BURST": "-1",
		"LOG_LEVEL":             "loud",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := load(envMap(map[string]string{key: value}))
			assert.ErrorContains(t, err, key)
		})
	}
}
