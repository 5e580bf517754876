package weaver

import (
	"github.com/viant/weaver/extension"
	"github.com/viant/weaver/metrics"
	"github.com/viant/weaver/model/node"
	msession "github.com/viant/weaver/model/session"
	"github.com/viant/weaver/policy"
	"github.com/viant/weaver/service/dao"
	"github.com/viant/weaver/service/meta"
	"github.com/viant/weaver/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Option represents weaver service option
type Option func(s *Service)

// WithConfig sets runtime configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger, otherwise one is built from Config.Logging
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = collector
	}
}

// WithRegistry sets the node class registry
func WithRegistry(registry *extension.Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithNodes registers node classes
func WithNodes(classes ...*node.Class) Option {
	return func(s *Service) {
		s.classes = append(s.classes, classes...)
	}
}

// WithSessionStore sets the session store, overriding Config.Store
func WithSessionStore(store dao.Service[string, msession.Session]) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithPolicy sets the node policy, overriding Config.Policy; use it to supply an Ask callback.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithMetaService sets the graph loader
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.meta = service
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter,
// the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
