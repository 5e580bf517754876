package compiler

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/viant/weaver/model/node"
)

// fanoutInput wraps the invocation input so that nil inputs still flow
// through the typed chain.
type fanoutInput struct {
	value interface{}
}

type sinkExecutable struct {
	id         string
	executable node.Executable
}

// newFanout runs every sink in parallel; the result map is keyed by sink id.
func newFanout(ctx context.Context, sinks []*sinkExecutable) (node.Executable, error) {
	parallel := compose.NewParallel()
	for _, sink := range sinks {
		executable := sink.executable
		parallel.AddLambda(sink.id, compose.InvokableLambda(func(ctx context.Context, in *fanoutInput) (interface{}, error) {
			return executable.Invoke(ctx, in.value)
		}))
	}
	chain := compose.NewChain[*fanoutInput, map[string]any]()
	chain.AppendParallel(parallel)
	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sink fan-out: %w", err)
	}
	return node.ExecutableFunc(func(ctx context.Context, input interface{}) (interface{}, error) {
		output, err := runnable.Invoke(ctx, &fanoutInput{value: input})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}(output), nil
	}), nil
}

// singleSink exposes one executable sink under its id.
func singleSink(sink *sinkExecutable) node.Executable {
	return node.ExecutableFunc(func(ctx context.Context, input interface{}) (interface{}, error) {
		output, err := sink.executable.Invoke(ctx, input)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{sink.id: output}, nil
	})
}
