package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacancy-engine/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"VAKANS_ENV", "VAKANS_HTTP_BIND", "VAKANS_HTTP_PORT", "VAKANS_DB_PATH",
		"VAKANS_CALENDAR_PATH", "VAKANS_WORKERS", "VAKANS_RUN_RETENTION", "VAKANS_RETENTION_INTERVAL"} {
		t.Setenv(k, "")
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Empty(t, cfg.DBPath)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, 30*24*time.Hour, cfg.RunRetention)
	assert.Equal(t, time.Hour, cfg.RetentionInterval)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("VAKANS_ENV", "production")
	t.Setenv("VAKANS_HTTP_PORT", "9090")
	t.Setenv("VAKANS_DB_PATH", "/var/lib/vakans.db")
	t.Setenv("VAKANS_WORKERS", "3")
	t.Setenv("VAKANS_RUN_RETENTION", "7d")
	t.Setenv("VAKANS_RETENTION_INTERVAL", "15m")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "/var/lib/vakans.db", cfg.DBPath)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 7*24*time.Hour, cfg.RunRetention)
	assert.Equal(t, 15*time.Minute, cfg.RetentionInterval)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("VAKANS_HTTP_PORT", "70000")
	_, err := config.FromEnv()
	assert.Error(t, err)
}

func TestValidate_RetentionDisabled(t *testing.T) {
	cfg := &config.Config{HTTPPort: 8080, Workers: 1}
	assert.NoError(t, cfg.Validate())

	cfg.RunRetention = time.Hour
	assert.Error(t, cfg.Validate(), "retention needs an interval")
}
