package event

import (
	"time"

	"github.com/rs/zerolog"
)

// BusOption configures a Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// maxListenersPerTopic caps registrations per topic; exceeding it is
	// treated as a programmer error.
	maxListenersPerTopic int

	// historySize bounds the event history ring.
	historySize int

	// batchInterval is the fixed batch window length.
	batchInterval time.Duration

	// debounceInterval is the quiet period for debounced topics.
	debounceInterval time.Duration

	// batched and debounced classify topics for coalesced delivery.
	batched   map[Topic]struct{}
	debounced map[Topic]struct{}

	// deadLetterCap bounds the dead-letter queue (FIFO eviction).
	deadLetterCap int

	// maxRetries caps RetryDeadLetters attempts per entry.
	maxRetries int

	// metricsEnabled controls per-topic timing collection.
	metricsEnabled bool

	// tracingEnabled controls the emit/handled/error trace ring.
	tracingEnabled bool

	// traceSize bounds the trace ring.
	traceSize int

	errorHandler ErrorHandler
	clock        Clock
	logger       zerolog.Logger
}

// defaultBusConfig returns sensible default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		maxListenersPerTopic: 50,
		historySize:          100,
		batchInterval:        16 * time.Millisecond,
		debounceInterval:     100 * time.Millisecond,
		batched:              make(map[Topic]struct{}),
		debounced:            make(map[Topic]struct{}),
		deadLetterCap:        100,
		maxRetries:           3,
		metricsEnabled:       false,
		tracingEnabled:       false,
		traceSize:            200,
		errorHandler:         nil,
		clock:                SystemClock(),
		logger:               zerolog.Nop(),
	}
}

// WithMaxListenersPerTopic sets the per-topic registration cap.
func WithMaxListenersPerTopic(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.maxListenersPerTopic = n
		}
	}
}

// WithHistorySize sets the event history ring size.
func WithHistorySize(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.historySize = n
		}
	}
}

// WithBatchInterval sets the batch window length.
func WithBatchInterval(d time.Duration) BusOption {
	return func(c *busConfig) {
		if d > 0 {
			c.batchInterval = d
		}
	}
}

// WithDebounceInterval sets the debounce quiet period.
func WithDebounceInterval(d time.Duration) BusOption {
	return func(c *busConfig) {
		if d > 0 {
			c.debounceInterval = d
		}
	}
}

// WithBatchedTopics marks topics for batched (coalesced-window) delivery.
func WithBatchedTopics(topics ...Topic) BusOption {
	return func(c *busConfig) {
		for _, t := range topics {
			c.batched[t] = struct{}{}
		}
	}
}

// WithDebouncedTopics marks topics for debounced (quiet-period) delivery.
func WithDebouncedTopics(topics ...Topic) BusOption {
	return func(c *busConfig) {
		for _, t := range topics {
			c.debounced[t] = struct{}{}
		}
	}
}

// WithDeadLetterCapacity sets the dead-letter queue bound.
func WithDeadLetterCapacity(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.deadLetterCap = n
		}
	}
}

// WithMaxRetries caps dead-letter retry attempts per entry.
func WithMaxRetries(n int) BusOption {
	return func(c *busConfig) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithMetrics enables or disables per-topic timing collection.
func WithMetrics(enabled bool) BusOption {
	return func(c *busConfig) {
		c.metricsEnabled = enabled
	}
}

// WithTracing enables or disables the trace ring.
func WithTracing(enabled bool) BusOption {
	return func(c *busConfig) {
		c.tracingEnabled = enabled
	}
}

// WithTraceSize sets the trace ring size.
func WithTraceSize(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.traceSize = n
		}
	}
}

// WithErrorHandler sets the listener failure callback.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

// WithClock sets the clock driving batch and debounce timers.
func WithClock(clock Clock) BusOption {
	return func(c *busConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the bus logger.
func WithLogger(logger zerolog.Logger) BusOption {
	return func(c *busConfig) {
		c.logger = logger
	}
}
