// Package config loads application configuration from defaults and an
// optional YAML file using koanf.
package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const delim = "."

// Config holds all tunable settings for an editor session and its
// debug surface.
type Config struct {
	History HistoryConfig `koanf:"history"`
	Events  EventsConfig  `koanf:"events"`
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
}

// HistoryConfig bounds the undo and redo stacks.
type HistoryConfig struct {
	MaxEntries int `koanf:"max_entries"`
}

// EventsConfig tunes the event bus.
type EventsConfig struct {
	ListenerLimit      int  `koanf:"listener_limit"`
	HistorySize        int  `koanf:"history_size"`
	BatchIntervalMS    int  `koanf:"batch_interval_ms"`
	DebounceIntervalMS int  `koanf:"debounce_interval_ms"`
	DeadLetterCapacity int  `koanf:"dead_letter_capacity"`
	MaxRetries         int  `koanf:"max_retries"`
	Metrics            bool `koanf:"metrics"`
	Tracing            bool `koanf:"tracing"`
}

// ServerConfig configures the debug HTTP listener.
type ServerConfig struct {
	Listen string `koanf:"listen"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `koanf:"level"`
}

// BatchInterval returns the batch window as a duration.
func (e EventsConfig) BatchInterval() time.Duration {
	return time.Duration(e.BatchIntervalMS) * time.Millisecond
}

// DebounceInterval returns the debounce quiet period as a duration.
func (e EventsConfig) DebounceInterval() time.Duration {
	return time.Duration(e.DebounceIntervalMS) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{MaxEntries: 100},
		Events: EventsConfig{
			ListenerLimit:      50,
			HistorySize:        100,
			BatchIntervalMS:    16,
			DebounceIntervalMS: 100,
			DeadLetterCapacity: 100,
			MaxRetries:         3,
		},
		Server: ServerConfig{Listen: "127.0.0.1:7333"},
		Log:    LogConfig{Level: "info"},
	}
}

func defaultsMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"history.max_entries":         d.History.MaxEntries,
		"events.listener_limit":       d.Events.ListenerLimit,
		"events.history_size":         d.Events.HistorySize,
		"events.batch_interval_ms":    d.Events.BatchIntervalMS,
		"events.debounce_interval_ms": d.Events.DebounceIntervalMS,
		"events.dead_letter_capacity": d.Events.DeadLetterCapacity,
		"events.max_retries":          d.Events.MaxRetries,
		"events.metrics":              d.Events.Metrics,
		"events.tracing":              d.Events.Tracing,
		"server.listen":               d.Server.Listen,
		"log.level":                   d.Log.Level,
	}
}

// Load builds a Config from defaults layered with an optional YAML file.
// An empty path loads defaults only.
func Load(path string) (Config, error) {
	k := koanf.New(delim)

	if err := k.Load(confmap.Provider(defaultsMap(), delim), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all settings are within usable bounds.
func (c Config) Validate() error {
	if c.History.MaxEntries < 1 {
		return fmt.Errorf("history.max_entries must be at least 1, got %d", c.History.MaxEntries)
	}
	if c.Events.ListenerLimit < 1 {
		return fmt.Errorf("events.listener_limit must be at least 1, got %d", c.Events.ListenerLimit)
	}
	if c.Events.HistorySize < 0 {
		return fmt.Errorf("events.history_size must not be negative, got %d", c.Events.HistorySize)
	}
	if c.Events.BatchIntervalMS < 1 {
		return fmt.Errorf("events.batch_interval_ms must be at least 1, got %d", c.Events.BatchIntervalMS)
	}
	if c.Events.DebounceIntervalMS < 1 {
		return fmt.Errorf("events.debounce_interval_ms must be at least 1, got %d", c.Events.DebounceIntervalMS)
	}
	if c.Events.DeadLetterCapacity < 0 {
		return fmt.Errorf("events.dead_letter_capacity must not be negative, got %d", c.Events.DeadLetterCapacity)
	}
	if c.Events.MaxRetries < 0 {
		return fmt.Errorf("events.max_retries must not be negative, got %d", c.Events.MaxRetries)
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	return nil
}

// Watch re-loads the configuration whenever the file at path changes and
// invokes fn with the result. It returns a function that stops watching.
// Invalid intermediate states are reported through fn's error and do not
// stop the watch.
func Watch(path string, fn func(Config, error)) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f := file.Provider(path)
	err := f.Watch(func(_ interface{}, event error) {
		if event != nil {
			fn(Config{}, event)
			return
		}
		fn(Load(path))
	})
	if err != nil {
		return nil, fmt.Errorf("watch config file %s: %w", path, err)
	}
	return func() { _ = f.Unwatch() }, nil
}
