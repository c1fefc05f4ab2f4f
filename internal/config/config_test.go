package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 100, cfg.History.MaxEntries)
	assert.Equal(t, 50, cfg.Events.ListenerLimit)
	assert.Equal(t, 16*time.Millisecond, cfg.Events.BatchInterval())
	assert.Equal(t, 100*time.Millisecond, cfg.Events.DebounceInterval())
	assert.Equal(t, 100, cfg.Events.DeadLetterCapacity)
	assert.Equal(t, 3, cfg.Events.MaxRetries)
	assert.False(t, cfg.Events.Metrics)
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campmap.yaml")
	content := `
history:
  max_entries: 25
events:
  batch_interval_ms: 32
  metrics: true
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.History.MaxEntries)
	assert.Equal(t, 32*time.Millisecond, cfg.Events.BatchInterval())
	assert.True(t, cfg.Events.Metrics)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, 50, cfg.Events.ListenerLimit)
	assert.Equal(t, "127.0.0.1:7333", cfg.Server.Listen)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  max_entries: 0\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "history.max_entries")
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero history", func(c *Config) { c.History.MaxEntries = 0 }, "history.max_entries"},
		{"zero listener limit", func(c *Config) { c.Events.ListenerLimit = 0 }, "events.listener_limit"},
		{"negative history size", func(c *Config) { c.Events.HistorySize = -1 }, "events.history_size"},
		{"zero batch interval", func(c *Config) { c.Events.BatchIntervalMS = 0 }, "events.batch_interval_ms"},
		{"zero debounce interval", func(c *Config) { c.Events.DebounceIntervalMS = 0 }, "events.debounce_interval_ms"},
		{"negative dlq capacity", func(c *Config) { c.Events.DeadLetterCapacity = -1 }, "events.dead_letter_capacity"},
		{"negative retries", func(c *Config) { c.Events.MaxRetries = -1 }, "events.max_retries"},
		{"empty listen", func(c *Config) { c.Server.Listen = "" }, "server.listen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
