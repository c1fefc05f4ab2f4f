// Package event provides the map editor's event bus.
//
// The bus is the editor's nervous system: a typed publish/subscribe
// dispatcher connecting the command layer, the module store, and UI
// consumers (selection state, toolbars, status displays) without direct
// dependencies between them.
//
// # Topics and payloads
//
// Every event is a payload type implementing Payload, paired one-to-one
// with a Topic constant. The catalog is a closed set defined in the events
// subpackage; handlers type-assert against concrete payload types instead
// of probing loosely typed maps.
//
// # Delivery
//
// Emissions are delivered synchronously on the emitting goroutine, in
// descending listener priority (registration order breaks ties). Two
// classes of bursty topics get coalesced delivery instead:
//
//   - Batched topics (continuous pan/zoom) buffer into a fixed window,
//     default 16ms; only the newest payload in the window is delivered.
//   - Debounced topics reschedule a quiet-period timer, default 100ms;
//     delivery happens once emissions stop.
//
// Each topic has at most one pending timer. WithImmediate bypasses
// coalescing for a single emission.
//
// # Failure isolation
//
// A listener that errors or panics never blocks the emitter or its sibling
// listeners. The failure is reported to the configured ErrorHandler and
// archived in a bounded dead-letter queue; RetryDeadLetters re-dispatches
// archived failures up to a retry cap.
//
// # Instrumentation
//
// Opt-in per-topic handler timings (call count, total/average/max) and a
// bounded emit/handled/error trace ring support the debug introspection
// surface. Batch and debounce timers run on an injectable Clock so tests
// advance virtual time instead of sleeping.
package event
