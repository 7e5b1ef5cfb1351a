// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment       string
	HTTPBind          string
	HTTPPort          int
	DBPath            string // empty: in-memory store
	CalendarPath      string // YAML holiday calendar seeded at startup
	Workers           int
	RunRetention      time.Duration // 0 disables cleanup
	RetentionInterval time.Duration
}

// Load reads a .env file if present, then environment variables, applies
// defaults, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:       getEnv("VAKANS_ENV", "development"),
		HTTPBind:          getEnv("VAKANS_HTTP_BIND", "0.0.0.0"),
		HTTPPort:          getEnvInt("VAKANS_HTTP_PORT", 8080),
		DBPath:            getEnv("VAKANS_DB_PATH", ""),
		CalendarPath:      getEnv("VAKANS_CALENDAR_PATH", ""),
		Workers:           getEnvInt("VAKANS_WORKERS", runtime.NumCPU()),
		RunRetention:      getEnvDuration("VAKANS_RUN_RETENTION", 30*24*time.Hour),
		RetentionInterval: getEnvDuration("VAKANS_RETENTION_INTERVAL", time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("VAKANS_HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("VAKANS_WORKERS must be positive: %d", c.Workers)
	}
	if c.RunRetention < 0 {
		return fmt.Errorf("VAKANS_RUN_RETENTION must not be negative: %s", c.RunRetention)
	}
	if c.RunRetention > 0 && c.RetentionInterval <= 0 {
		return fmt.Errorf("VAKANS_RETENTION_INTERVAL must be positive: %s", c.RetentionInterval)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPBind, c.HTTPPort)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("720h") or plain days ("30d").
func getEnvDuration(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	if days, ok := strings.CutSuffix(val, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return time.Duration(n) * 24 * time.Hour
		}
		return def
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return def
}
