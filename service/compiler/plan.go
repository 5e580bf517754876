package compiler

import (
	"context"

	"github.com/viant/weaver/model/node"
	"github.com/viant/weaver/runtime/execution"
)

// Plan represents a compiled graph.
type Plan struct {
	// Output is the single executable unit exposed by the graph.
	Output node.Executable
	// Order lists node ids in instantiation order.
	Order []string
	// Sinks lists sink node ids in instantiation order.
	Sinks []string
	// Dropped lists non-executable sinks excluded from a multi-sink fan-out.
	Dropped   []string
	Instances map[string]*Instance
	State     *execution.FlowState
}

// Invoke runs plan output with the flow state in context.
func (p *Plan) Invoke(ctx context.Context, input interface{}) (interface{}, error) {
	if execution.StateFrom(ctx) == nil && p.State != nil {
		ctx = execution.WithState(ctx, p.State)
	}
	return p.Output.Invoke(ctx, input)
}

// Result represents compile and run outcome.
type Result struct {
	Output interface{}
	Plan   *Plan
	State  *execution.FlowState
}

func passThrough(value interface{}) node.Executable {
	return node.ExecutableFunc(func(ctx context.Context, input interface{}) (interface{}, error) {
		return value, nil
	})
}
