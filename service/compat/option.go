package compat

// Option represents compat service option
type Option func(s *Service)

// WithTable overrides the compatibility table
func WithTable(table Table) Option {
	return func(s *Service) {
		s.table = table
	}
}

// WithFallbacks overrides type name fallbacks
func WithFallbacks(fallbacks ...*Fallback) Option {
	return func(s *Service) {
		s.fallbacks = fallbacks
	}
}

// WithWarningThreshold sets confidence below which valid connections produce warnings
func WithWarningThreshold(threshold float64) Option {
	return func(s *Service) {
		s.warningThreshold = threshold
	}
}

// WithSuggestThreshold sets minimum (exclusive) suggestion confidence
func WithSuggestThreshold(threshold float64) Option {
	return func(s *Service) {
		s.suggestThreshold = threshold
	}
}
