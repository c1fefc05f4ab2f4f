package event

import (
	"context"
	"time"
)

// Topic identifies an event stream, e.g. "module:move".
type Topic string

// Payload is implemented by every event payload.
type Payload interface {
	// EventTopic returns the topic this payload is published under.
	EventTopic() Topic
}

// Handler is the interface for event listeners.
type Handler interface {
	// Handle processes an event payload.
	Handle(ctx context.Context, p Payload) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, p Payload) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, p Payload) error {
	return f(ctx, p)
}

// ErrorHandler is called when a listener returns an error or panics.
// It runs on the emitting goroutine; keep it cheap.
type ErrorHandler func(topic Topic, p Payload, err error)

// Record is one entry in the bus's bounded event history.
type Record struct {
	Topic     Topic     `json:"topic"`
	Payload   Payload   `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// DeadLetter is a delivery failure archived for later retry.
type DeadLetter struct {
	Topic     Topic     `json:"topic"`
	Payload   Payload   `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`

	// RetryCount is how many times RetryDeadLetters has re-dispatched
	// this entry.
	RetryCount int `json:"retryCount"`
}

// TopicMetrics aggregates handler timings for one topic.
type TopicMetrics struct {
	CallCount   uint64        `json:"callCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AverageTime time.Duration `json:"averageTime"`
	MaxTime     time.Duration `json:"maxTime"`
}

// TraceKind marks what a trace entry records.
type TraceKind string

// Trace entry kinds.
const (
	TraceEmit    TraceKind = "emit"
	TraceHandled TraceKind = "handled"
	TraceError   TraceKind = "error"
)

// TraceEntry is one marker in the bus's bounded trace ring.
type TraceEntry struct {
	Kind       TraceKind `json:"kind"`
	Topic      Topic     `json:"topic"`
	ListenerID string    `json:"listenerId,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Stats contains aggregate bus counters.
type Stats struct {
	// Emitted is the total number of Emit calls accepted.
	Emitted uint64 `json:"emitted"`

	// Delivered is the total number of successful listener invocations.
	Delivered uint64 `json:"delivered"`

	// Coalesced is the number of emissions absorbed into a pending
	// batch or debounce window instead of being delivered directly.
	Coalesced uint64 `json:"coalesced"`

	// HandlerErrors is the number of listener invocations that returned
	// an error.
	HandlerErrors uint64 `json:"handlerErrors"`

	// HandlerPanics is the number of listener invocations that panicked.
	HandlerPanics uint64 `json:"handlerPanics"`

	// DeadLettersEvicted is the number of dead letters dropped because
	// the queue was at capacity.
	DeadLettersEvicted uint64 `json:"deadLettersEvicted"`

	// DeadLetterDepth is the current dead-letter queue length.
	DeadLetterDepth int `json:"deadLetterDepth"`

	// Listeners is the current number of registered listeners.
	Listeners int `json:"listeners"`

	// PendingTimers is the number of batch/debounce windows currently
	// waiting to fire.
	PendingTimers int `json:"pendingTimers"`
}
