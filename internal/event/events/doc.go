// Package events defines the editor's event catalog: the closed set of
// topics and their payload types. It is the wire contract between the
// editor core and its consumers; payloads are immutable value types.
package events
