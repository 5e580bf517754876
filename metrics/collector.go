// Package metrics exposes prometheus instruments for compiler, governor and
// session activity. Every Collector owns its registry; all methods tolerate a
// nil receiver so instrumentation stays optional.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the runtime
type Collector struct {
	registry *prometheus.Registry

	Compilations    *prometheus.CounterVec
	CompileDuration prometheus.Histogram
	NodeExecutions  *prometheus.CounterVec

	SlotDecisions *prometheus.CounterVec
	ActiveSlots   prometheus.Gauge
	StaleSlots    prometheus.Counter

	SessionsCreated prometheus.Counter
	SessionsExpired prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	ret := &Collector{
		registry: registry,
		Compilations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilations_total",
			Help:      "Total number of graph compilations",
		}, []string{"status"}),
		CompileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Graph compilation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		NodeExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_executions_total",
			Help:      "Total number of node executions",
		}, []string{"kind", "status"}),
		SlotDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_decisions_total",
			Help:      "Execution slot acquisition outcomes",
		}, []string{"decision"}),
		ActiveSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_slots",
			Help:      "Number of held execution slots",
		}),
		StaleSlots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_slots_total",
			Help:      "Total number of reclaimed stale slots",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of created sessions",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Total number of expired sessions removed",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions seen by the last reaper pass",
		}),
	}
	registry.MustRegister(
		ret.Compilations, ret.CompileDuration, ret.NodeExecutions,
		ret.SlotDecisions, ret.ActiveSlots, ret.StaleSlots,
		ret.SessionsCreated, ret.SessionsExpired, ret.ActiveSessions,
	)
	return ret
}

// Registry returns the collector registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveCompile records compilation status and duration
func (c *Collector) ObserveCompile(started time.Time, err error) {
	if c == nil {
		return
	}
	c.Compilations.WithLabelValues(status(err)).Inc()
	c.CompileDuration.Observe(time.Since(started).Seconds())
}

// ObserveNode records node execution outcome
func (c *Collector) ObserveNode(kind string, err error) {
	if c == nil {
		return
	}
	c.NodeExecutions.WithLabelValues(kind, status(err)).Inc()
}

// ObserveSlot records acquisition decision and current active slots
func (c *Collector) ObserveSlot(decision string, active int) {
	if c == nil {
		return
	}
	c.SlotDecisions.WithLabelValues(decision).Inc()
	c.ActiveSlots.Set(float64(active))
}

// SetActiveSlots sets active slot gauge
func (c *Collector) SetActiveSlots(active int) {
	if c == nil {
		return
	}
	c.ActiveSlots.Set(float64(active))
}

// ObserveStale records reclaimed slots
func (c *Collector) ObserveStale(count int) {
	if c == nil || count == 0 {
		return
	}
	c.StaleSlots.Add(float64(count))
}

// ObserveSessionCreated increments created and active sessions
func (c *Collector) ObserveSessionCreated() {
	if c == nil {
		return
	}
	c.SessionsCreated.Inc()
	c.ActiveSessions.Inc()
}

// ObserveSessionRemoved decrements active sessions
func (c *Collector) ObserveSessionRemoved() {
	if c == nil {
		return
	}
	c.ActiveSessions.Dec()
}

// ObserveSessionsExpired records expired sessions
func (c *Collector) ObserveSessionsExpired(count int) {
	if c == nil || count == 0 {
		return
	}
	c.SessionsExpired.Add(float64(count))
}

// SetActiveSessions sets active session gauge
func (c *Collector) SetActiveSessions(count int) {
	if c == nil {
		return
	}
	c.ActiveSessions.Set(float64(count))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
