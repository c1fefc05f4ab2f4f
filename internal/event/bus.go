package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Bus is a typed publish/subscribe dispatcher for the editor's event
// catalog. It delivers synchronously on the emitting goroutine, coalesces
// bursty topics through batch and debounce windows, isolates listener
// failures into a bounded dead-letter queue, and optionally collects
// per-topic timing metrics and a dispatch trace.
//
// One Bus lives for the duration of one editor session.
type Bus struct {
	cfg      busConfig
	log      zerolog.Logger
	registry *registry

	mu              sync.Mutex
	closed          bool
	history         []Record
	deadLetters     []DeadLetter
	metrics         map[Topic]*TopicMetrics
	trace           []TraceEntry
	emitCounts      map[Topic]uint64
	batchPending    map[Topic]*pending
	debouncePending map[Topic]*pending

	statEmitted       uint64
	statDelivered     uint64
	statCoalesced     uint64
	statHandlerErrors uint64
	statHandlerPanics uint64
	statDLEvicted     uint64
}

// pending is a coalesced delivery waiting on its timer. Each topic has at
// most one pending delivery.
type pending struct {
	payload Payload
	timer   Timer
}

// NewBus creates an event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	cfg := defaultBusConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Bus{
		cfg:             cfg,
		log:             cfg.logger,
		registry:        newRegistry(cfg.maxListenersPerTopic),
		metrics:         make(map[Topic]*TopicMetrics),
		emitCounts:      make(map[Topic]uint64),
		batchPending:    make(map[Topic]*pending),
		debouncePending: make(map[Topic]*pending),
	}
}

// EmitOption configures a single Emit call.
type EmitOption func(*emitConfig)

type emitConfig struct {
	immediate bool
}

// WithImmediate bypasses batch and debounce windows for this emission.
func WithImmediate() EmitOption {
	return func(c *emitConfig) {
		c.immediate = true
	}
}

// Emit publishes a payload under its topic. The emission is recorded to the
// event history, then delivered immediately, buffered into the topic's batch
// window, or rescheduled on the topic's debounce timer. Listener failures
// never propagate to the caller; Emit only errors on misuse or a closed bus.
func (b *Bus) Emit(ctx context.Context, p Payload, opts ...EmitOption) error {
	if p == nil {
		return ErrNilPayload
	}
	topic := p.EventTopic()
	if topic == "" {
		return ErrInvalidTopic
	}

	var cfg emitConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}

	b.statEmitted++
	b.emitCounts[topic]++
	b.recordLocked(topic, p)
	b.traceLocked(TraceEmit, topic, "", "")

	if !cfg.immediate {
		if _, ok := b.cfg.batched[topic]; ok {
			b.enqueueBatchLocked(topic, p)
			b.mu.Unlock()
			return nil
		}
		if _, ok := b.cfg.debounced[topic]; ok {
			b.enqueueDebounceLocked(topic, p)
			b.mu.Unlock()
			return nil
		}
	}
	b.mu.Unlock()

	b.dispatch(ctx, topic, p, true)
	return nil
}

// On registers a listener for a topic. Listeners run in descending priority
// order; equal priorities run in registration order. Registration beyond the
// per-topic cap fails with ErrListenerLimit.
func (b *Bus) On(topic Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	return b.subscribe(topic, handler, false, opts...)
}

// Once registers a listener that is removed after its first delivery.
func (b *Bus) Once(topic Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	return b.subscribe(topic, handler, true, opts...)
}

// OnFunc is a convenience wrapper around On for function handlers.
func (b *Bus) OnFunc(topic Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	return b.On(topic, fn, opts...)
}

func (b *Bus) subscribe(topic Topic, handler Handler, once bool, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if topic == "" {
		return nil, ErrInvalidTopic
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	b.mu.Unlock()

	sub := newSubscription(topic, handler, once, opts...)
	if err := b.registry.add(sub); err != nil {
		return nil, fmt.Errorf("subscribe %q: %w", topic, err)
	}
	return sub, nil
}

// Off removes a listener. Pending batch or debounce timers for the topic are
// not cancelled; the listener simply misses deliveries after removal.
func (b *Bus) Off(sub *Subscription) error {
	if sub == nil {
		return ErrUnknownSubscription
	}
	if !b.registry.remove(sub.id) {
		return ErrUnknownSubscription
	}
	return nil
}

// dispatch delivers a payload to the topic's listeners. Each listener is
// invoked in isolation: an error or panic is reported, optionally archived
// as a dead letter, and delivery continues with the remaining listeners.
// The joined listener errors are returned for retry bookkeeping.
func (b *Bus) dispatch(ctx context.Context, topic Topic, p Payload, archive bool) error {
	subs := b.registry.snapshot(topic)
	if len(subs) == 0 {
		return nil
	}

	var onceIDs []string
	var errs []error

	for _, sub := range subs {
		start := time.Now()
		err, panicked := b.invoke(ctx, sub, p)
		elapsed := time.Since(start)

		b.recordTiming(topic, elapsed)

		if err != nil {
			lerr := &ListenerError{ListenerID: sub.id, Topic: topic, Err: err}
			errs = append(errs, lerr)

			b.mu.Lock()
			if panicked {
				b.statHandlerPanics++
			} else {
				b.statHandlerErrors++
			}
			b.traceLocked(TraceError, topic, sub.id, err.Error())
			if archive {
				b.archiveLocked(topic, p, lerr)
			}
			b.mu.Unlock()

			b.log.Warn().
				Str("topic", string(topic)).
				Str("listener", sub.id).
				Err(err).
				Msg("listener failed")

			if b.cfg.errorHandler != nil {
				b.cfg.errorHandler(topic, p, lerr)
			}
		} else {
			b.mu.Lock()
			b.statDelivered++
			b.traceLocked(TraceHandled, topic, sub.id, "")
			b.mu.Unlock()
		}

		if sub.once {
			onceIDs = append(onceIDs, sub.id)
		}
	}

	// Once-listeners are removed after the pass, never mid-iteration.
	b.registry.removeAll(onceIDs)

	return errors.Join(errs...)
}

// invoke runs one handler with panic isolation.
func (b *Bus) invoke(ctx context.Context, sub *Subscription, p Payload) (err error, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
			panicked = true
		}
	}()
	return sub.handler.Handle(ctx, p), false
}

// enqueueBatchLocked buffers a payload into the topic's batch window. The
// window timer is fixed: later emissions replace the payload but do not
// extend the window.
func (b *Bus) enqueueBatchLocked(topic Topic, p Payload) {
	if pd, ok := b.batchPending[topic]; ok {
		pd.payload = p
		b.statCoalesced++
		return
	}

	pd := &pending{payload: p}
	pd.timer = b.cfg.clock.AfterFunc(b.cfg.batchInterval, func() {
		b.flushBatch(topic)
	})
	b.batchPending[topic] = pd
}

// enqueueDebounceLocked reschedules the topic's quiet-period timer. Delivery
// happens only once emissions stop long enough for the timer to fire.
func (b *Bus) enqueueDebounceLocked(topic Topic, p Payload) {
	if pd, ok := b.debouncePending[topic]; ok {
		pd.timer.Stop()
		pd.payload = p
		b.statCoalesced++
		pd.timer = b.cfg.clock.AfterFunc(b.cfg.debounceInterval, func() {
			b.flushDebounce(topic)
		})
		return
	}

	pd := &pending{payload: p}
	pd.timer = b.cfg.clock.AfterFunc(b.cfg.debounceInterval, func() {
		b.flushDebounce(topic)
	})
	b.debouncePending[topic] = pd
}

func (b *Bus) flushBatch(topic Topic) {
	b.mu.Lock()
	pd, ok := b.batchPending[topic]
	if !ok || b.closed {
		b.mu.Unlock()
		return
	}
	delete(b.batchPending, topic)
	p := pd.payload
	b.mu.Unlock()

	b.dispatch(context.Background(), topic, p, true)
}

func (b *Bus) flushDebounce(topic Topic) {
	b.mu.Lock()
	pd, ok := b.debouncePending[topic]
	if !ok || b.closed {
		b.mu.Unlock()
		return
	}
	delete(b.debouncePending, topic)
	p := pd.payload
	b.mu.Unlock()

	b.dispatch(context.Background(), topic, p, true)
}

// RetryDeadLetters re-dispatches every dead letter whose retry count is
// below the configured maximum, incrementing the count. Entries that fail
// again are re-queued; successes are dropped. Entries already at the
// maximum stay queued for manual inspection. It returns the number of
// entries delivered successfully.
func (b *Bus) RetryDeadLetters(ctx context.Context) int {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0
	}

	var retry, keep []DeadLetter
	for _, dl := range b.deadLetters {
		if dl.RetryCount < b.cfg.maxRetries {
			retry = append(retry, dl)
		} else {
			keep = append(keep, dl)
		}
	}
	b.deadLetters = keep
	b.mu.Unlock()

	succeeded := 0
	for _, dl := range retry {
		dl.RetryCount++
		if err := b.dispatch(ctx, dl.Topic, dl.Payload, false); err != nil {
			dl.Error = err.Error()
			b.mu.Lock()
			b.requeueLocked(dl)
			b.mu.Unlock()
		} else {
			succeeded++
		}
	}
	return succeeded
}

// archiveLocked appends a fresh dead letter, evicting the oldest entry when
// the queue is at capacity.
func (b *Bus) archiveLocked(topic Topic, p Payload, err error) {
	dl := DeadLetter{
		Topic:      topic,
		Payload:    p,
		Timestamp:  b.cfg.clock.Now(),
		Error:      err.Error(),
		RetryCount: 0,
	}
	b.requeueLocked(dl)
}

func (b *Bus) requeueLocked(dl DeadLetter) {
	if len(b.deadLetters) >= b.cfg.deadLetterCap {
		b.deadLetters = b.deadLetters[1:]
		b.statDLEvicted++
	}
	b.deadLetters = append(b.deadLetters, dl)
}

// recordLocked appends to the bounded event history ring.
func (b *Bus) recordLocked(topic Topic, p Payload) {
	b.history = append(b.history, Record{
		Topic:     topic,
		Payload:   p,
		Timestamp: b.cfg.clock.Now(),
	})
	if len(b.history) > b.cfg.historySize {
		b.history = b.history[len(b.history)-b.cfg.historySize:]
	}
}

// traceLocked appends to the bounded trace ring when tracing is on.
func (b *Bus) traceLocked(kind TraceKind, topic Topic, listenerID, errMsg string) {
	if !b.cfg.tracingEnabled {
		return
	}
	b.trace = append(b.trace, TraceEntry{
		Kind:       kind,
		Topic:      topic,
		ListenerID: listenerID,
		Error:      errMsg,
		Timestamp:  b.cfg.clock.Now(),
	})
	if len(b.trace) > b.cfg.traceSize {
		b.trace = b.trace[len(b.trace)-b.cfg.traceSize:]
	}
}

// recordTiming updates per-topic handler timings when metrics are on.
func (b *Bus) recordTiming(topic Topic, elapsed time.Duration) {
	if !b.cfg.metricsEnabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.metrics[topic]
	if m == nil {
		m = &TopicMetrics{}
		b.metrics[topic] = m
	}
	m.CallCount++
	m.TotalTime += elapsed
	if elapsed > m.MaxTime {
		m.MaxTime = elapsed
	}
}

// Close cancels pending batch and debounce timers and rejects further use.
// Coalesced payloads that have not been delivered are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, pd := range b.batchPending {
		pd.timer.Stop()
	}
	for _, pd := range b.debouncePending {
		pd.timer.Stop()
	}
	b.batchPending = make(map[Topic]*pending)
	b.debouncePending = make(map[Topic]*pending)
}

// History returns a copy of the event history, oldest first.
func (b *Bus) History() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]Record, len(b.history))
	copy(result, b.history)
	return result
}

// DeadLetters returns a copy of the dead-letter queue, oldest first.
func (b *Bus) DeadLetters() []DeadLetter {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]DeadLetter, len(b.deadLetters))
	copy(result, b.deadLetters)
	return result
}

// Metrics returns per-topic handler timings with averages computed.
func (b *Bus) Metrics() map[Topic]TopicMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make(map[Topic]TopicMetrics, len(b.metrics))
	for t, m := range b.metrics {
		out := *m
		if out.CallCount > 0 {
			out.AverageTime = out.TotalTime / time.Duration(out.CallCount)
		}
		result[t] = out
	}
	return result
}

// Trace returns a copy of the trace ring, oldest first.
func (b *Bus) Trace() []TraceEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]TraceEntry, len(b.trace))
	copy(result, b.trace)
	return result
}

// EmitCounts returns total emissions keyed by topic.
func (b *Bus) EmitCounts() map[Topic]uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make(map[Topic]uint64, len(b.emitCounts))
	for t, n := range b.emitCounts {
		result[t] = n
	}
	return result
}

// ListenerCount returns the number of listeners for a topic.
func (b *Bus) ListenerCount(topic Topic) int {
	return b.registry.count(topic)
}

// ListenerCounts returns listener counts keyed by topic.
func (b *Bus) ListenerCounts() map[Topic]int {
	return b.registry.topics()
}

// Stats returns current aggregate counters.
func (b *Bus) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Stats{
		Emitted:            b.statEmitted,
		Delivered:          b.statDelivered,
		Coalesced:          b.statCoalesced,
		HandlerErrors:      b.statHandlerErrors,
		HandlerPanics:      b.statHandlerPanics,
		DeadLettersEvicted: b.statDLEvicted,
		DeadLetterDepth:    len(b.deadLetters),
		Listeners:          b.registry.total(),
		PendingTimers:      len(b.batchPending) + len(b.debouncePending),
	}
}
