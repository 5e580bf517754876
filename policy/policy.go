package policy

import (
	"context"
	"strings"
)

// Execution modes recognised by the compiler.
const (
	ModeAsk  = "ask"  // ask before instantiating every node
	ModeAuto = "auto" // instantiate automatically (default)
	ModeDeny = "deny" // block every node
)

// AskFunc is invoked when Mode==ask. Returning true approves the node.
type AskFunc func(ctx context.Context, nodeType, nodeID string, p *Policy) bool

// Policy represents node gating settings for a compilation.
//
// A nil *Policy means "allow everything".
type Policy struct {
	Mode      string   // ask / auto / deny (default = auto)
	AllowList []string // node types, empty => all
	BlockList []string // node types
	Ask       AskFunc  // used only when Mode==ask
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty" validate:"omitempty,oneof=ask auto deny"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// FromConfig converts a stored Config to a runtime Policy (without AskFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList with case-insensitive node type comparison.
func (p *Policy) IsAllowed(nodeType string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(nodeType)
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// Permits combines mode and lists for a node.
func (p *Policy) Permits(ctx context.Context, nodeType, nodeID string) bool {
	if p == nil {
		return true
	}
	if !p.IsAllowed(nodeType) {
		return false
	}
	switch p.Mode {
	case ModeDeny:
		return false
	case ModeAsk:
		if p.Ask == nil {
			return false
		}
		return p.Ask(ctx, nodeType, nodeID, p)
	}
	return true
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts policy or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
