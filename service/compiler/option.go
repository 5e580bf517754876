package compiler

import (
	"github.com/viant/weaver/metrics"
	"go.uber.org/zap"
)

// Option represents compiler option
type Option func(s *Service)

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets metrics collector
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = collector
	}
}
