// Package debug exposes introspection over a running editor session: a
// point-in-time report of bus and history state, a listener-leak
// heuristic, and a before/after monitor for exercising suspect code
// paths.
package debug

import (
	"fmt"
	"sort"
	"time"

	"github.com/campmap/campmap/internal/command"
	"github.com/campmap/campmap/internal/editor"
	"github.com/campmap/campmap/internal/event"
)

// Report is a point-in-time snapshot of a session's internals.
type Report struct {
	SessionID   string                             `json:"session_id"`
	GeneratedAt time.Time                          `json:"generated_at"`
	Modules     int                                `json:"modules"`
	Bus         event.Stats                        `json:"bus"`
	Listeners   map[event.Topic]int                `json:"listeners"`
	EmitCounts  map[event.Topic]uint64             `json:"emit_counts"`
	History     HistoryReport                      `json:"history"`
	Metrics     map[event.Topic]event.TopicMetrics `json:"metrics,omitempty"`
}

// HistoryReport summarizes the undo and redo stacks.
type HistoryReport struct {
	UndoDepth int                `json:"undo_depth"`
	RedoDepth int                `json:"redo_depth"`
	Undo      []command.Metadata `json:"undo,omitempty"`
	Redo      []command.Metadata `json:"redo,omitempty"`
}

// Snapshot builds a Report from a live session.
func Snapshot(s *editor.Session) Report {
	return Report{
		SessionID:   s.ID,
		GeneratedAt: time.Now(),
		Modules:     s.Store.ModuleCount(),
		Bus:         s.Events.Stats(),
		Listeners:   s.Events.ListenerCounts(),
		EmitCounts:  s.Events.EmitCounts(),
		History: HistoryReport{
			UndoDepth: s.Commands.UndoDepth(),
			RedoDepth: s.Commands.RedoDepth(),
			Undo:      s.Commands.UndoEntries(),
			Redo:      s.Commands.RedoEntries(),
		},
		Metrics: s.Events.Metrics(),
	}
}

// Leak flags a topic whose listener count exceeds a threshold.
type Leak struct {
	Topic     event.Topic `json:"topic"`
	Listeners int         `json:"listeners"`
	Threshold int         `json:"threshold"`
}

func (l Leak) String() string {
	return fmt.Sprintf("%s: %d listeners (threshold %d)", l.Topic, l.Listeners, l.Threshold)
}

// FindLeaks reports every topic with more than threshold listeners.
// Components that subscribe once per construction and never unsubscribe
// accumulate listeners as they are recreated; a high count is the usual
// symptom. Results are sorted by listener count, highest first.
func FindLeaks(bus *event.Bus, threshold int) []Leak {
	if threshold < 1 {
		threshold = 10
	}
	var leaks []Leak
	for topic, n := range bus.ListenerCounts() {
		if n > threshold {
			leaks = append(leaks, Leak{Topic: topic, Listeners: n, Threshold: threshold})
		}
	}
	sort.Slice(leaks, func(i, j int) bool {
		if leaks[i].Listeners != leaks[j].Listeners {
			return leaks[i].Listeners > leaks[j].Listeners
		}
		return leaks[i].Topic < leaks[j].Topic
	})
	return leaks
}

// Monitor captures listener counts before and after a code path runs and
// reports topics whose count grew.
type Monitor struct {
	bus    *event.Bus
	before map[event.Topic]int
}

// NewMonitor captures the bus's current listener counts.
func NewMonitor(bus *event.Bus) *Monitor {
	return &Monitor{bus: bus, before: bus.ListenerCounts()}
}

// Growth is a per-topic listener count delta.
type Growth struct {
	Topic  event.Topic `json:"topic"`
	Before int         `json:"before"`
	After  int         `json:"after"`
}

// Diff compares current listener counts against the captured baseline and
// returns topics that gained listeners, sorted by largest gain.
func (m *Monitor) Diff() []Growth {
	after := m.bus.ListenerCounts()
	var grown []Growth
	for topic, n := range after {
		if prev := m.before[topic]; n > prev {
			grown = append(grown, Growth{Topic: topic, Before: prev, After: n})
		}
	}
	sort.Slice(grown, func(i, j int) bool {
		gi := grown[i].After - grown[i].Before
		gj := grown[j].After - grown[j].Before
		if gi != gj {
			return gi > gj
		}
		return grown[i].Topic < grown[j].Topic
	})
	return grown
}
