package weaver

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/viant/weaver/logging"
	"github.com/viant/weaver/policy"
	"github.com/viant/weaver/service/governor"
	"github.com/viant/weaver/service/meta"
	"github.com/viant/weaver/service/session"
)

// Session store kinds
const (
	StoreMemory = "memory"
	StoreFS     = "fs"
	StoreRedis  = "redis"
)

// Config is a serialisable representation of the runtime configuration. The
// zero value of every nested section inherits its package defaults.
type Config struct {
	Logging  logging.Config  `json:"logging" yaml:"logging"`
	Governor governor.Config `json:"governor" yaml:"governor"`
	Session  session.Config  `json:"session" yaml:"session"`
	Store    StoreConfig     `json:"store" yaml:"store"`
	Policy   policy.Config   `json:"policy" yaml:"policy"`
	Tracing  TracingConfig   `json:"tracing" yaml:"tracing"`
	Metrics  MetricsConfig   `json:"metrics" yaml:"metrics"`
}

// StoreConfig selects session persistence. URL is a base directory for fs
// and a redis URL for redis.
type StoreConfig struct {
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=memory fs redis"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// TracingConfig enables the stdout span exporter
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Service    string `json:"service,omitempty" yaml:"service,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// MetricsConfig names the prometheus namespace
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// DefaultConfig returns configuration with package defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging:  logging.Config{Level: "info", Encoding: "console"},
		Governor: governor.DefaultConfig(),
		Session:  session.DefaultConfig(),
		Store:    StoreConfig{Kind: StoreMemory},
		Policy:   policy.Config{Mode: policy.ModeAuto},
		Tracing:  TracingConfig{Service: "weaver"},
		Metrics:  MetricsConfig{Namespace: "weaver"},
	}
}

var validate = validator.New()

// Validate returns error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Store.Kind {
	case StoreFS, StoreRedis:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for %v store", c.Store.Kind)
		}
	}
	return nil
}

// LoadConfig loads optional .env files, then decodes the YAML or JSON document
// at URL over the defaults and validates the result.
func LoadConfig(ctx context.Context, URL string, envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}
	ret := DefaultConfig()
	if err := meta.New(nil, "").Load(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
