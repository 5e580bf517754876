package governor

import "time"

// Config represents governor settings
type Config struct {
	StaleAfter      time.Duration `json:"staleAfter,omitempty" yaml:"staleAfter,omitempty"`
	PollInterval    time.Duration `json:"pollInterval,omitempty" yaml:"pollInterval,omitempty"`
	CleanupInterval time.Duration `json:"cleanupInterval,omitempty" yaml:"cleanupInterval,omitempty"`
}

// DefaultConfig returns the default governor configuration
func DefaultConfig() Config {
	return Config{
		StaleAfter:      30 * time.Minute,
		PollInterval:    time.Second,
		CleanupInterval: 5 * time.Minute,
	}
}

func (c *Config) init() {
	defaults := DefaultConfig()
	if c.StaleAfter <= 0 {
		c.StaleAfter = defaults.StaleAfter
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = defaults.CleanupInterval
	}
}
