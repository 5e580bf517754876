package compiler

import (
	"context"
	"time"

	"github.com/viant/weaver/extension"
	"github.com/viant/weaver/logging"
	"github.com/viant/weaver/metrics"
	"github.com/viant/weaver/model/graph"
	"github.com/viant/weaver/model/node"
	"github.com/viant/weaver/policy"
	"github.com/viant/weaver/progress"
	"github.com/viant/weaver/runtime/execution"
	"github.com/viant/weaver/tracing"
	"go.uber.org/zap"
)

// Service compiles workflow graphs into a single executable unit.
type Service struct {
	registry *extension.Registry
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// CompileAndRun compiles the graph and invokes its output with the supplied input.
func (s *Service) CompileAndRun(ctx context.Context, aGraph *graph.Graph, input interface{}, state *execution.FlowState) (*Result, error) {
	if state == nil {
		state = execution.NewFlowState(graphID(aGraph), "", "")
	}
	plan, err := s.Compile(ctx, aGraph, state)
	if err != nil {
		return nil, err
	}
	output, err := plan.Invoke(execution.WithState(ctx, state), input)
	if err != nil {
		state.AddError(err.Error())
		return nil, err
	}
	return &Result{Output: output, Plan: plan, State: state}, nil
}

// Compile instantiates graph nodes in dependency order and selects the graph output.
// Ordering, node type, policy and required input errors are reported before
// any node executes.
func (s *Service) Compile(ctx context.Context, aGraph *graph.Graph, state *execution.FlowState) (plan *Plan, err error) {
	started := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracing.SpanCompile, map[string]string{tracing.AttrGraphID: graphID(aGraph)})
	defer func() {
		tracing.EndSpan(span, err)
		s.metrics.ObserveCompile(started, err)
	}()

	c, err := newCompilation(aGraph)
	if err != nil {
		return nil, err
	}
	order, err := c.sort()
	if err != nil {
		return nil, err
	}
	if err = s.preflight(ctx, c, order); err != nil {
		return nil, err
	}
	if state == nil {
		state = execution.NewFlowState(graphID(aGraph), "", "")
	}
	ctx = execution.WithState(ctx, state)
	if _, ok := progress.FromContext(ctx); !ok {
		ctx, _ = progress.WithNewTracker(ctx, graphID(aGraph), nil)
	}
	progress.UpdateCtx(ctx, progress.Delta{Total: len(order)})

	for _, aNode := range order {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if err = s.instantiate(ctx, c, aNode, state); err != nil {
			return nil, err
		}
	}
	return s.plan(ctx, c, state)
}

func (s *Service) preflight(ctx context.Context, c *compilation, order []*graph.Node) error {
	aPolicy := policy.FromContext(ctx)
	for _, aNode := range order {
		class, ok := s.registry.Lookup(aNode.Type)
		if !ok {
			return &UnknownNodeTypeError{NodeID: aNode.ID, Type: aNode.Type}
		}
		if !aPolicy.Permits(ctx, aNode.Type, aNode.ID) {
			return &PolicyDeniedError{NodeID: aNode.ID, Type: aNode.Type}
		}
		connected := false
		for _, spec := range class.Metadata().InputSpecs() {
			if c.connection(aNode.ID, spec.Name) != nil {
				connected = true
				continue
			}
			if _, ok := aNode.Value(spec.Name); ok || spec.HasDefault() || !spec.Required {
				continue
			}
			return &MissingRequiredInputError{NodeID: aNode.ID, Input: spec.Name}
		}
		if class.Kind() == node.KindTerminator && !connected {
			return &MissingUpstreamError{NodeID: aNode.ID}
		}
	}
	return nil
}

func (s *Service) instantiate(ctx context.Context, c *compilation, aNode *graph.Node, state *execution.FlowState) (err error) {
	class, _ := s.registry.Lookup(aNode.Type)
	instance := &Instance{ID: aNode.ID, Type: aNode.Type, Class: class, Node: aNode}
	ctx, span := tracing.StartSpan(ctx, tracing.SpanNode, tracing.NodeAttributes(aNode.ID, aNode.Type, class.Kind().String()))
	progress.UpdateCtx(ctx, progress.Delta{Running: 1})
	defer func() {
		tracing.EndSpan(span, err)
		s.metrics.ObserveNode(class.Kind().String(), err)
		if err != nil {
			progress.UpdateCtx(ctx, progress.Delta{Running: -1, Failed: 1})
			state.AddError(err.Error())
			return
		}
		progress.UpdateCtx(ctx, progress.Delta{Running: -1, Completed: 1})
	}()

	capabilities, values, connected, err := s.resolveInputs(c, instance)
	if err != nil {
		return err
	}
	instance.Inputs = merge(capabilities, values)

	var result interface{}
	switch class.Kind() {
	case node.KindProvider:
		result, err = class.Provide(ctx, instance.Inputs)
	case node.KindProcessor:
		result, err = class.Process(ctx, capabilities, values)
	case node.KindTerminator:
		if len(connected) == 0 {
			return &MissingUpstreamError{NodeID: aNode.ID}
		}
		upstream := capabilities[connected[0]]
		rest := node.Values{}
		for k, v := range instance.Inputs {
			if k != connected[0] {
				rest[k] = v
			}
		}
		result, err = class.Terminate(ctx, upstream, rest)
	default:
		result, err = class.Execute(ctx, instance.Inputs)
	}
	if err != nil {
		return &NodeExecutionError{NodeID: aNode.ID, Type: aNode.Type, Err: err}
	}
	primary := instance.record(result)
	c.instances[aNode.ID] = instance
	c.order = append(c.order, instance)
	state.SetOutput(aNode.ID, primary)
	state.MarkExecuted(aNode.ID)
	s.logger.Debug("node executed",
		zap.String("node", aNode.ID),
		zap.String("type", aNode.Type),
		zap.String("kind", class.Kind().String()))
	return nil
}

// resolveInputs resolves declared inputs from connections, node data and defaults.
// connected lists connected input names in declaration order.
func (s *Service) resolveInputs(c *compilation, instance *Instance) (capabilities, values node.Values, connected []string, err error) {
	capabilities, values = node.Values{}, node.Values{}
	specs := instance.Class.Metadata().InputSpecs()
	declared := make(map[string]bool, len(specs))
	for _, spec := range specs {
		declared[spec.Name] = true
		if edge := c.connection(instance.ID, spec.Name); edge != nil {
			if source, ok := c.instances[edge.Source]; ok {
				if value, ok := source.Output(edge.SourceHandle); ok {
					capabilities[spec.Name] = value
					connected = append(connected, spec.Name)
					continue
				}
			}
		}
		if value, ok := instance.Node.Value(spec.Name); ok {
			values[spec.Name] = value
			continue
		}
		if spec.HasDefault() {
			values[spec.Name] = spec.Default
			continue
		}
		if spec.Required {
			return nil, nil, nil, &MissingRequiredInputError{NodeID: instance.ID, Input: spec.Name}
		}
	}
	for k, v := range instance.Node.Data {
		if !declared[k] {
			values[k] = v
		}
	}
	return capabilities, values, connected, nil
}

func (s *Service) plan(ctx context.Context, c *compilation, state *execution.FlowState) (*Plan, error) {
	ret := &Plan{Instances: c.instances, State: state}
	for _, instance := range c.order {
		ret.Order = append(ret.Order, instance.ID)
	}
	sinks := c.sinks()
	for _, sink := range sinks {
		ret.Sinks = append(ret.Sinks, sink.ID)
	}
	switch len(sinks) {
	case 0:
		last := c.order[len(c.order)-1]
		ret.Output = asExecutable(last.Value)
		return ret, nil
	case 1:
		ret.Output = asExecutable(sinks[0].Value)
		return ret, nil
	}

	var executables []*sinkExecutable
	raw := map[string]interface{}{}
	for _, sink := range sinks {
		raw[sink.ID] = sink.Value
		executable, ok := node.AsExecutable(sink.Value)
		if !ok {
			ret.Dropped = append(ret.Dropped, sink.ID)
			tracing.SpanFrom(ctx).AddEvent("sink.dropped", map[string]string{tracing.AttrNodeID: sink.ID})
			s.logger.Warn("dropping non-executable sink from fan-out",
				zap.String("node", sink.ID),
				zap.String("type", sink.Type))
			continue
		}
		executables = append(executables, &sinkExecutable{id: sink.ID, executable: executable})
	}
	switch len(executables) {
	case 0:
		ret.Output = passThrough(raw)
	case 1:
		ret.Output = singleSink(executables[0])
	default:
		output, err := newFanout(ctx, executables)
		if err != nil {
			return nil, err
		}
		ret.Output = output
	}
	return ret, nil
}

func asExecutable(value interface{}) node.Executable {
	if executable, ok := node.AsExecutable(value); ok {
		return executable
	}
	return passThrough(value)
}

func merge(capabilities, values node.Values) node.Values {
	ret := make(node.Values, len(capabilities)+len(values))
	for k, v := range values {
		ret[k] = v
	}
	for k, v := range capabilities {
		ret[k] = v
	}
	return ret
}

func graphID(aGraph *graph.Graph) string {
	if aGraph == nil {
		return ""
	}
	if aGraph.ID != "" {
		return aGraph.ID
	}
	return aGraph.Name
}

// New creates a compiler service
func New(registry *extension.Registry, options ...Option) *Service {
	if registry == nil {
		registry = extension.NewRegistry()
	}
	ret := &Service{registry: registry}
	for _, option := range options {
		option(ret)
	}
	ret.logger = logging.OrNop(ret.logger)
	return ret
}
