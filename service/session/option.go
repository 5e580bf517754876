package session

import (
	"time"

	"github.com/viant/weaver/metrics"
	"github.com/viant/weaver/model/session"
	"github.com/viant/weaver/service/dao"
	"go.uber.org/zap"
)

// Option represents manager option
type Option func(m *Manager)

// WithStore sets session store
func WithStore(store dao.Service[string, session.Session]) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics sets metrics collector
func WithMetrics(collector *metrics.Collector) Option {
	return func(m *Manager) {
		m.metrics = collector
	}
}

// WithClock sets time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator sets session id generator
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}
