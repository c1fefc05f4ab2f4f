// Package editor wires one interactive map-editing session: the in-memory
// module store (the repository the concrete commands mutate), the concrete
// reversible commands (move, resize, rotate, add, delete, bulk operations),
// a selection consumer, and the Session object tying one event bus and one
// command bus together.
//
// Buses are never global: each Session constructs its own pair, so multiple
// independent sessions can coexist and tests stay deterministic. The store
// emits the corresponding catalog event after every mutation; commands
// never emit directly.
package editor
