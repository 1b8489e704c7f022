package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvProduction = "production"

	StorageMySQL  = "mysql"
	StorageMemory = "memory"

	defaultJWTSecret = "dev-secret-change-in-production"
)

var ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port          string
	Env           string
	LogLevel      slog.Level
	DatabaseDSN   string
	StorageDriver string

	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	RefreshTokenRotate bool
	ResetTokenTTL      time.Duration
	LoanPeriod         time.Duration
	PasswordScheme     string
	ExposeResetToken   bool
	CookieSecure       bool

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// Production reports whether the service runs in the production environment.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	env := envOr(getenv, "ENV", "development")
	production := env == EnvProduction

	var errs []error
	cfg := Config{
		Port:          envOr(getenv, "PORT", "8080"),
		Env:           env,
		LogLevel:      parseLevel(getenv("LOG_LEVEL"), &errs),
		DatabaseDSN:   envOr(getenv, "DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/library?parseTime=true"),
		StorageDriver: strings.ToLower(envOr(getenv, "STORAGE_DRIVER", StorageMySQL)),

		JWTSecret:          envOr(getenv, "JWT_SECRET", defaultJWTSecret),
		AccessTokenTTL:     parseDuration(getenv, "ACCESS_TOKEN_TTL", 60*time.Minute, &errs),
		RefreshTokenTTL:    parseDuration(getenv, "REFRESH_TOKEN_TTL", 0, &errs),
		RefreshTokenRotate: parseBool(getenv, "REFRESH_TOKEN_ROTATE", false, &errs),
		ResetTokenTTL:      parseDuration(getenv, "RESET_TOKEN_TTL", time.Hour, &errs),
		LoanPeriod:         parseDuration(getenv, "LOAN_PERIOD", 14*24*time.Hour, &errs),
		PasswordScheme:     envOr(getenv, "PASSWORD_SCHEME", "pbkdf2-sha256"),
		ExposeResetToken:   parseBool(getenv, "EXPOSE_RESET_TOKEN", !production, &errs),
		CookieSecure:       parseBool(getenv, "COOKIE_SECURE", production, &errs),

		AuthRateLimitRPS:   parseFloat(getenv, "AUTH_RATE_LIMIT_RPS", 5, &errs),
		AuthRateLimitBurst: parseInt(getenv, "AUTH_RATE_LIMIT_BURST", 10, &errs),
	}

	switch cfg.StorageDriver {
	case StorageMySQL, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER: unknown driver %q", cfg.StorageDriver))
	}

	if production && cfg.JWTSecret == defaultJWTSecret {
		errs = append(errs, ErrDefaultSecretInProduction)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseDuration accepts Go durations ("90m") and a day suffix ("14d").
func parseDuration(getenv func(string) string, key string, fallback time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err == nil && n >= 0 {
			return time.Duration(n) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return fallback
	}
	return d
}

func parseBool(getenv func(string) string, key string, fallback bool, errs *[]error) bool {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return fallback
	}
	return b
}

func parseFloat(getenv func(string) string, key string, fallback float64, errs *[]error) float64 {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid rate %q", key, v))
		return fallback
	}
	return f
}

func parseInt(getenv func(string) string, key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func parseLevel(v string, errs *[]error) slog.Level {
	var level slog.Level
	if v == "" {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(v)); err != nil {
		*errs = append(*errs, fmt.Errorf("LOG_LEVEL: %w", err))
		return slog.LevelInfo
	}
	return level
}
