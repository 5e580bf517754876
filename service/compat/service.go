package compat

import (
	"fmt"
	"sort"

	"github.com/viant/weaver/extension"
	"github.com/viant/weaver/model/graph"
	"github.com/viant/weaver/model/node"
)

// Service evaluates type compatibility of node connections.
type Service struct {
	registry         *extension.Registry
	table            Table
	fallbacks        []*Fallback
	warningThreshold float64
	suggestThreshold float64
}

// CanConnect returns whether source handle output can feed target handle input.
func (s *Service) CanConnect(source, target *graph.Node, sourceHandle, targetHandle string) *Result {
	if sourceHandle == "" {
		sourceHandle = graph.DefaultSourceHandle
	}
	if targetHandle == "" {
		targetHandle = graph.DefaultTargetHandle
	}
	from := s.OutputType(source, sourceHandle)
	to := s.InputType(target, targetHandle)
	return s.Compare(from, to)
}

// Compare scores a capability pair.
func (s *Service) Compare(from, to node.Capability) *Result {
	if from == to {
		return &Result{Allowed: true, Confidence: exactScore, Reason: "Exact type match"}
	}
	if from == node.Any || to == node.Any {
		return &Result{Allowed: true, Confidence: anyScore, Reason: fmt.Sprintf("Compatible types: %v → %v", from, to)}
	}
	if score := s.table.Score(from, to); score > 0 {
		return &Result{Allowed: true, Confidence: score, Reason: fmt.Sprintf("Compatible types: %v → %v", from, to)}
	}
	if score := s.table.Score(to, from); score > 0 {
		return &Result{Allowed: true, Confidence: score * reverseRatio, Reason: fmt.Sprintf("Reverse compatibility: %v → %v", from, to)}
	}
	if !from.IsKnown() || !to.IsKnown() {
		if score := s.table.Generic(); score > 0 {
			return &Result{Allowed: true, Confidence: score, Reason: fmt.Sprintf("Generic compatibility: %v → %v", from, to)}
		}
	}
	return &Result{Allowed: false, Confidence: 0, Reason: fmt.Sprintf("Incompatible types: %v → %v", from, to)}
}

// OutputType resolves node output capability for the handle.
func (s *Service) OutputType(aNode *graph.Node, handle string) node.Capability {
	if aNode == nil {
		return node.Any
	}
	if metadata := s.registry.Metadata(aNode.Type); metadata != nil && len(metadata.Outputs) > 0 {
		if spec := metadata.Output(handle); spec != nil {
			return spec.Type
		}
		if handle == graph.DefaultSourceHandle {
			return metadata.Outputs[0].Type
		}
		return node.Any
	}
	if capability, ok := matchFallback(s.fallbacks, aNode.Type); ok {
		return capability
	}
	return node.Any
}

// InputType resolves node input capability for the handle.
func (s *Service) InputType(aNode *graph.Node, handle string) node.Capability {
	if aNode == nil {
		return node.Any
	}
	if _, ok := s.registry.Lookup(aNode.Type); ok {
		metadata := s.registry.Metadata(aNode.Type)
		if len(metadata.Inputs) == 0 {
			return node.Any
		}
		if spec := metadata.Input(handle); spec != nil {
			return spec.Type
		}
		if handle == graph.DefaultTargetHandle {
			return metadata.Inputs[0].Type
		}
		return node.Any
	}
	if capability, ok := matchFallback(s.fallbacks, aNode.Type); ok {
		return capability
	}
	return node.Any
}

// SuggestConnections proposes unconnected handle pairs scoring above the threshold,
// ordered by descending confidence.
func (s *Service) SuggestConnections(nodes []*graph.Node, existing []*graph.Connection) []*Suggestion {
	connected := make(map[string]bool, len(existing))
	for _, edge := range existing {
		if edge == nil {
			continue
		}
		candidate := *edge
		candidate.Init()
		connected[candidate.Key()] = true
	}
	var result []*Suggestion
	for _, source := range nodes {
		for _, target := range nodes {
			if source == nil || target == nil || source.ID == target.ID {
				continue
			}
			for _, outputHandle := range s.outputHandles(source) {
				for _, input := range s.inputSpecs(target) {
					key := (&graph.Connection{Source: source.ID, SourceHandle: outputHandle, Target: target.ID, TargetHandle: input.Name}).Key()
					if connected[key] {
						continue
					}
					verdict := s.CanConnect(source, target, outputHandle, input.Name)
					if verdict.Confidence <= s.suggestThreshold {
						continue
					}
					result = append(result, &Suggestion{
						Source:       source.ID,
						SourceHandle: outputHandle,
						Target:       target.ID,
						TargetHandle: input.Name,
						Confidence:   verdict.Confidence,
						Reason:       verdict.Reason,
					})
				}
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Confidence > result[j].Confidence
	})
	return result
}

// ValidateWorkflow checks every connection and required input of the graph.
func (s *Service) ValidateWorkflow(aGraph *graph.Graph) *Report {
	report := &Report{Errors: []string{}, Warnings: []string{}}
	if aGraph == nil {
		report.Errors = append(report.Errors, "workflow graph was nil")
		return report
	}
	report.Stats.TotalNodes = len(aGraph.Nodes)
	report.Stats.TotalConnections = len(aGraph.Edges)

	incoming := map[string]map[string]bool{}
	for i, edge := range aGraph.Edges {
		if edge == nil {
			report.Errors = append(report.Errors, fmt.Sprintf("connection[%d] was nil", i))
			report.Stats.InvalidConnections++
			continue
		}
		sourceHandle, targetHandle := handles(edge)
		source, target := aGraph.Node(edge.Source), aGraph.Node(edge.Target)
		if source == nil || target == nil {
			missing := edge.Source
			if source != nil {
				missing = edge.Target
			}
			report.Errors = append(report.Errors, fmt.Sprintf("Connection %v references unknown node: %v", connectionName(edge, i), missing))
			report.Stats.InvalidConnections++
			continue
		}
		verdict := s.CanConnect(source, target, sourceHandle, targetHandle)
		if !verdict.Allowed {
			report.Errors = append(report.Errors, fmt.Sprintf("Invalid connection %v.%v → %v.%v: %v", source.ID, sourceHandle, target.ID, targetHandle, verdict.Reason))
			report.Stats.InvalidConnections++
			continue
		}
		report.Stats.ValidConnections++
		report.Connections = append(report.Connections, edge)
		if verdict.Confidence < s.warningThreshold {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Low confidence connection %v.%v → %v.%v (%.2f): %v", source.ID, sourceHandle, target.ID, targetHandle, verdict.Confidence, verdict.Reason))
		}
		if incoming[target.ID] == nil {
			incoming[target.ID] = map[string]bool{}
		}
		incoming[target.ID][targetHandle] = true
	}

	for _, aNode := range aGraph.Nodes {
		if aNode == nil {
			continue
		}
		metadata := s.registry.Metadata(aNode.Type)
		if metadata == nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Node %v has unregistered type: %v", aNode.ID, aNode.Type))
			continue
		}
		for _, input := range metadata.Inputs {
			if !input.Required || incoming[aNode.ID][input.Name] || input.HasDefault() {
				continue
			}
			if _, ok := aNode.Value(input.Name); ok {
				continue
			}
			report.Warnings = append(report.Warnings, fmt.Sprintf("Node %v missing required input: %v", aNode.ID, input.Name))
		}
	}
	report.Valid = len(report.Errors) == 0
	if report.Valid {
		report.Suggestions = s.SuggestConnections(aGraph.Nodes, aGraph.Edges)
	}
	return report
}

func (s *Service) outputHandles(aNode *graph.Node) []string {
	metadata := s.registry.Metadata(aNode.Type)
	if metadata == nil || len(metadata.Outputs) == 0 {
		return []string{graph.DefaultSourceHandle}
	}
	ret := make([]string, 0, len(metadata.Outputs))
	for _, output := range metadata.Outputs {
		ret = append(ret, output.Name)
	}
	return ret
}

func (s *Service) inputSpecs(aNode *graph.Node) []*node.InputSpec {
	return s.registry.Metadata(aNode.Type).InputSpecs()
}

func handles(edge *graph.Connection) (string, string) {
	sourceHandle, targetHandle := edge.SourceHandle, edge.TargetHandle
	if sourceHandle == "" {
		sourceHandle = graph.DefaultSourceHandle
	}
	if targetHandle == "" {
		targetHandle = graph.DefaultTargetHandle
	}
	return sourceHandle, targetHandle
}

func connectionName(edge *graph.Connection, index int) string {
	if edge.ID != "" {
		return edge.ID
	}
	return fmt.Sprintf("#%d (%v → %v)", index, edge.Source, edge.Target)
}

// New creates a compatibility service
func New(registry *extension.Registry, options ...Option) *Service {
	if registry == nil {
		registry = extension.NewRegistry()
	}
	ret := &Service{
		registry:         registry,
		table:            DefaultTable(),
		fallbacks:        DefaultFallbacks(),
		warningThreshold: 0.7,
		suggestThreshold: 0.5,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
