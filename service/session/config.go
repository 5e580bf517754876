package session

import (
	"fmt"
	"time"
)

// Expiry policies
const (
	// ExpiryAbsolute measures TTL from session creation.
	ExpiryAbsolute = "absolute"
	// ExpirySliding measures TTL from the last access.
	ExpirySliding = "sliding"
)

// Config represents session manager settings
type Config struct {
	TTL          time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	ReapInterval time.Duration `json:"reapInterval,omitempty" yaml:"reapInterval,omitempty"`
	Expiry       string        `json:"expiry,omitempty" yaml:"expiry,omitempty" validate:"omitempty,oneof=absolute sliding"`
	HistoryTurns int           `json:"historyTurns,omitempty" yaml:"historyTurns,omitempty"`
}

// DefaultConfig returns the default session configuration
func DefaultConfig() Config {
	return Config{
		TTL:          time.Hour,
		ReapInterval: 5 * time.Minute,
		Expiry:       ExpiryAbsolute,
		HistoryTurns: 10,
	}
}

func (c *Config) init() error {
	defaults := DefaultConfig()
	if c.TTL <= 0 {
		c.TTL = defaults.TTL
	}
	if c.ReapInterval <= 0 {
		c.ReapInterval = defaults.ReapInterval
	}
	if c.HistoryTurns <= 0 {
		c.HistoryTurns = defaults.HistoryTurns
	}
	switch c.Expiry {
	case "":
		c.Expiry = defaults.Expiry
	case ExpiryAbsolute, ExpirySliding:
	default:
		return fmt.Errorf("unsupported session expiry policy: %v", c.Expiry)
	}
	return nil
}
