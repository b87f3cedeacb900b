// Package config loads service settings from the environment.
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

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Addr        string
	WebDir      string
	DatabaseURL string
	Storage     string
	LogFormat   string
	LogLevel    slog.Level
	SessionTTL  time.Duration
	DisableAuth bool
	OIDC        OIDC
}

// OIDC configures single sign-on. SSO is enabled when Issuer and ClientID are set.
type OIDC struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool {
	return o.Issuer != "" && o.ClientID != ""
}

// Load reads the configuration from environment variables and validates it.
func Load() (Config, error) {
	c, err := Parse()
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Parse reads the configuration from environment variables without
// cross-field validation, so callers can apply overrides first.
func Parse() (Config, error) {
	c := Config{
		Addr:        env("ADDR", ":8080"),
		WebDir:      env("WEB_DIR", "web"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Storage:     env("STORAGE", StoragePostgres),
		LogFormat:   env("LOG_FORMAT", "text"),
		OIDC: OIDC{
			Issuer:       os.Getenv("OIDC_ISSUER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
	}

	var err error
	if err = c.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.SessionTTL, err = time.ParseDuration(env("SESSION_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if c.DisableAuth, err = strconv.ParseBool(env("DISABLE_AUTH", "false")); err != nil {
		return Config{}, fmt.Errorf("DISABLE_AUTH: %w", err)
	}
	return c, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// Logger builds the process logger described by the config.
func (c Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
