package node

import (
	"context"
	"fmt"
)

// Kind identifies how the compiler dispatches a node.
type Kind int

const (
	// KindGeneric receives every resolved input.
	KindGeneric Kind = iota
	// KindProvider creates a capability from its inputs.
	KindProvider
	// KindProcessor combines upstream capabilities with plain values.
	KindProcessor
	// KindTerminator finalises the first connected upstream capability.
	KindTerminator
)

func (k Kind) String() string {
	switch k {
	case KindProvider:
		return "provider"
	case KindProcessor:
		return "processor"
	case KindTerminator:
		return "terminator"
	default:
		return "generic"
	}
}

type (
	// ProvideFunc builds a capability from resolved inputs.
	ProvideFunc func(ctx context.Context, inputs Values) (interface{}, error)
	// ProcessFunc combines connected capabilities with configured values.
	ProcessFunc func(ctx context.Context, capabilities Values, values Values) (interface{}, error)
	// TerminateFunc finalises the upstream capability.
	TerminateFunc func(ctx context.Context, upstream interface{}, values Values) (interface{}, error)
	// ExecuteFunc runs a generic node.
	ExecuteFunc func(ctx context.Context, inputs Values) (interface{}, error)
)

// Class describes a registered node type. Use NewProvider, NewProcessor,
// NewTerminator or NewGeneric; each sets exactly the handler of its kind.
type Class struct {
	name      string
	kind      Kind
	metadata  *Metadata
	provide   ProvideFunc
	process   ProcessFunc
	terminate TerminateFunc
	execute   ExecuteFunc
}

// Name returns the node type name
func (c *Class) Name() string { return c.name }

// Kind returns node kind
func (c *Class) Kind() Kind { return c.kind }

// Metadata returns class handles metadata
func (c *Class) Metadata() *Metadata { return c.metadata }

// Provide runs provider handler
func (c *Class) Provide(ctx context.Context, inputs Values) (interface{}, error) {
	if c.kind != KindProvider {
		return nil, c.kindMismatch(KindProvider)
	}
	return c.provide(ctx, inputs)
}

// Process runs processor handler
func (c *Class) Process(ctx context.Context, capabilities Values, values Values) (interface{}, error) {
	if c.kind != KindProcessor {
		return nil, c.kindMismatch(KindProcessor)
	}
	return c.process(ctx, capabilities, values)
}

// Terminate runs terminator handler
func (c *Class) Terminate(ctx context.Context, upstream interface{}, values Values) (interface{}, error) {
	if c.kind != KindTerminator {
		return nil, c.kindMismatch(KindTerminator)
	}
	return c.terminate(ctx, upstream, values)
}

// Execute runs generic handler
func (c *Class) Execute(ctx context.Context, inputs Values) (interface{}, error) {
	if c.kind != KindGeneric {
		return nil, c.kindMismatch(KindGeneric)
	}
	return c.execute(ctx, inputs)
}

func (c *Class) kindMismatch(expected Kind) error {
	return fmt.Errorf("node type %v is %v, not %v", c.name, c.kind, expected)
}

func newClass(name string, kind Kind, metadata *Metadata) *Class {
	if metadata == nil {
		metadata = &Metadata{}
	}
	return &Class{name: name, kind: kind, metadata: metadata}
}

// NewProvider creates a provider class
func NewProvider(name string, metadata *Metadata, fn ProvideFunc) *Class {
	ret := newClass(name, KindProvider, metadata)
	ret.provide = fn
	return ret
}

// NewProcessor creates a processor class
func NewProcessor(name string, metadata *Metadata, fn ProcessFunc) *Class {
	ret := newClass(name, KindProcessor, metadata)
	ret.process = fn
	return ret
}

// NewTerminator creates a terminator class
func NewTerminator(name string, metadata *Metadata, fn TerminateFunc) *Class {
	ret := newClass(name, KindTerminator, metadata)
	ret.terminate = fn
	return ret
}

// NewGeneric creates a generic class
func NewGeneric(name string, metadata *Metadata, fn ExecuteFunc) *Class {
	ret := newClass(name, KindGeneric, metadata)
	ret.execute = fn
	return ret
}
