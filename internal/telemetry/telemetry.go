// Package telemetry exports Prometheus metrics over a session's event bus
// and command history.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/campmap/campmap/internal/editor"
)

// NewRegistry builds a Prometheus registry covering the session plus the
// standard Go runtime and process collectors.
func NewRegistry(session *editor.Session) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		NewSessionCollector(session),
	)
	return reg
}

// SessionCollector gathers session gauges and counters on scrape.
type SessionCollector struct {
	session *editor.Session

	emitted       *prometheus.Desc
	delivered     *prometheus.Desc
	coalesced     *prometheus.Desc
	handlerErrors *prometheus.Desc
	handlerPanics *prometheus.Desc
	dlqEvicted    *prometheus.Desc
	dlqDepth      *prometheus.Desc
	listeners     *prometheus.Desc
	pendingTimers *prometheus.Desc
	topicEmits    *prometheus.Desc
	undoDepth     *prometheus.Desc
	redoDepth     *prometheus.Desc
	modules       *prometheus.Desc
}

// NewSessionCollector builds a collector for one session.
func NewSessionCollector(session *editor.Session) *SessionCollector {
	labels := prometheus.Labels{"session": session.ID}
	return &SessionCollector{
		session: session,

		emitted: prometheus.NewDesc("campmap_events_emitted_total",
			"Events emitted on the session bus.", nil, labels),
		delivered: prometheus.NewDesc("campmap_events_delivered_total",
			"Handler invocations completed.", nil, labels),
		coalesced: prometheus.NewDesc("campmap_events_coalesced_total",
			"Events absorbed by batching or debouncing.", nil, labels),
		handlerErrors: prometheus.NewDesc("campmap_handler_errors_total",
			"Handler invocations that returned an error.", nil, labels),
		handlerPanics: prometheus.NewDesc("campmap_handler_panics_total",
			"Handler invocations that panicked.", nil, labels),
		dlqEvicted: prometheus.NewDesc("campmap_dead_letters_evicted_total",
			"Dead letters dropped to respect the queue capacity.", nil, labels),
		dlqDepth: prometheus.NewDesc("campmap_dead_letter_depth",
			"Dead letters currently queued.", nil, labels),
		listeners: prometheus.NewDesc("campmap_listeners",
			"Listeners currently subscribed across all topics.", nil, labels),
		pendingTimers: prometheus.NewDesc("campmap_pending_timers",
			"Batch and debounce windows currently open.", nil, labels),
		topicEmits: prometheus.NewDesc("campmap_topic_emits_total",
			"Events emitted per topic.", []string{"topic"}, labels),
		undoDepth: prometheus.NewDesc("campmap_undo_depth",
			"Commands on the undo stack.", nil, labels),
		redoDepth: prometheus.NewDesc("campmap_redo_depth",
			"Commands on the redo stack.", nil, labels),
		modules: prometheus.NewDesc("campmap_modules",
			"Modules on the session's map.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.emitted
	ch <- c.delivered
	ch <- c.coalesced
	ch <- c.handlerErrors
	ch <- c.handlerPanics
	ch <- c.dlqEvicted
	ch <- c.dlqDepth
	ch <- c.listeners
	ch <- c.pendingTimers
	ch <- c.topicEmits
	ch <- c.undoDepth
	ch <- c.redoDepth
	ch <- c.modules
}

// Collect implements prometheus.Collector.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.session.Events.Stats()

	ch <- prometheus.MustNewConstMetric(c.emitted, prometheus.CounterValue, float64(stats.Emitted))
	ch <- prometheus.MustNewConstMetric(c.delivered, prometheus.CounterValue, float64(stats.Delivered))
	ch <- prometheus.MustNewConstMetric(c.coalesced, prometheus.CounterValue, float64(stats.Coalesced))
	ch <- prometheus.MustNewConstMetric(c.handlerErrors, prometheus.CounterValue, float64(stats.HandlerErrors))
	ch <- prometheus.MustNewConstMetric(c.handlerPanics, prometheus.CounterValue, float64(stats.HandlerPanics))
	ch <- prometheus.MustNewConstMetric(c.dlqEvicted, prometheus.CounterValue, float64(stats.DeadLettersEvicted))
	ch <- prometheus.MustNewConstMetric(c.dlqDepth, prometheus.GaugeValue, float64(stats.DeadLetterDepth))
	ch <- prometheus.MustNewConstMetric(c.listeners, prometheus.GaugeValue, float64(stats.Listeners))
	ch <- prometheus.MustNewConstMetric(c.pendingTimers, prometheus.GaugeValue, float64(stats.PendingTimers))

	for topic, n := range c.session.Events.EmitCounts() {
		ch <- prometheus.MustNewConstMetric(c.topicEmits, prometheus.CounterValue, float64(n), string(topic))
	}

	ch <- prometheus.MustNewConstMetric(c.undoDepth, prometheus.GaugeValue, float64(c.session.Commands.UndoDepth()))
	ch <- prometheus.MustNewConstMetric(c.redoDepth, prometheus.GaugeValue, float64(c.session.Commands.RedoDepth()))
	ch <- prometheus.MustNewConstMetric(c.modules, prometheus.GaugeValue, float64(c.session.Store.ModuleCount()))
}
