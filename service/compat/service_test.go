package compat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/weaver/extension"
	"github.com/viant/weaver/model/graph"
	"github.com/viant/weaver/model/node"
)

func noop(ctx context.Context, inputs node.Values) (interface{}, error) { return nil, nil }

func testRegistry() *extension.Registry {
	return extension.NewRegistry(
		node.NewProvider("ModelNode", &node.Metadata{
			Outputs: []*node.OutputSpec{node.Out("llm", node.LLM)},
		}, noop),
		node.NewProvider("PromptNode", &node.Metadata{
			Inputs:  []*node.InputSpec{node.In("template", node.Text, true)},
			Outputs: []*node.OutputSpec{node.Out("prompt", node.Prompt)},
		}, noop),
		node.NewProcessor("ChainNode", &node.Metadata{
			Inputs: []*node.InputSpec{
				node.In("llm", node.LLM, true),
				node.In("prompt", node.Prompt, false),
				node.In("memory", node.Memory, false),
			},
			Outputs: []*node.OutputSpec{node.Out("chain", node.Chain)},
		}, func(ctx context.Context, capabilities node.Values, values node.Values) (interface{}, error) { return nil, nil }),
		node.NewGeneric("Start", nil, noop),
	)
}

func TestService_CanConnect(t *testing.T) {
	srv := New(testRegistry())
	testCases := []struct {
		description  string
		source       *graph.Node
		target       *graph.Node
		sourceHandle string
		targetHandle string
		expected     *Result
	}{
		{
			description:  "exact match",
			source:       &graph.Node{ID: "m", Type: "ModelNode"},
			target:       &graph.Node{ID: "c", Type: "ChainNode"},
			sourceHandle: "llm", targetHandle: "llm",
			expected: &Result{Allowed: true, Confidence: 1.0, Reason: "Exact type match"},
		},
		{
			description:  "forward table",
			source:       &graph.Node{ID: "p", Type: "PromptNode"},
			target:       &graph.Node{ID: "c", Type: "ChainNode"},
			sourceHandle: "prompt", targetHandle: "llm",
			expected: &Result{Allowed: true, Confidence: 0.9, Reason: "Compatible types: prompt → llm"},
		},
		{
			description:  "reverse table",
			source:       &graph.Node{ID: "c", Type: "ChainNode"},
			target:       &graph.Node{ID: "c2", Type: "ChainNode"},
			sourceHandle: "chain", targetHandle: "memory",
			expected: &Result{Allowed: true, Confidence: 0.9 * 0.8, Reason: "Reverse compatibility: chain → memory"},
		},
		{
			description:  "fallback incompatible",
			source:       &graph.Node{ID: "t", Type: "CalculatorTool"},
			target:       &graph.Node{ID: "m", Type: "BufferMemory"},
			sourceHandle: "output", targetHandle: "input",
			expected: &Result{Allowed: false, Confidence: 0, Reason: "Incompatible types: tool → memory"},
		},
		{
			description:  "target without declared inputs accepts any",
			source:       &graph.Node{ID: "m", Type: "ModelNode"},
			target:       &graph.Node{ID: "s", Type: "Start"},
			sourceHandle: "llm", targetHandle: "input",
			expected: &Result{Allowed: true, Confidence: 0.5, Reason: "Compatible types: llm → any"},
		},
		{
			description:  "default source handle uses first output",
			source:       &graph.Node{ID: "m", Type: "ModelNode"},
			target:       &graph.Node{ID: "c", Type: "ChainNode"},
			targetHandle: "llm",
			expected:     &Result{Allowed: true, Confidence: 1.0, Reason: "Exact type match"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual := srv.CanConnect(tc.source, tc.target, tc.sourceHandle, tc.targetHandle)
			assert.Equal(t, tc.expected.Allowed, actual.Allowed)
			assert.InDelta(t, tc.expected.Confidence, actual.Confidence, 0.0001)
			assert.Equal(t, tc.expected.Reason, actual.Reason)
		})
	}
}

func TestService_Compare(t *testing.T) {
	srv := New(nil)
	testCases := []struct {
		from, to node.Capability
		allowed  bool
		score    float64
	}{
		{from: node.Tool, to: node.Memory, allowed: false, score: 0},
		{from: node.Any, to: node.Chain, allowed: true, score: 0.5},
		{from: "json", to: node.LLM, allowed: true, score: 0.3},
		{from: node.Document, to: node.VectorStore, allowed: true, score: 1.0},
	}
	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			actual := srv.Compare(tc.from, tc.to)
			assert.Equal(t, tc.allowed, actual.Allowed)
			assert.InDelta(t, tc.score, actual.Confidence, 0.0001)
			assert.Equal(t, actual.Confidence > 0, actual.Allowed)
		})
	}
}

func TestService_Compare_GenericScore(t *testing.T) {
	testCases := []struct {
		description string
		table       Table
		allowed     bool
		score       float64
	}{
		{description: "configured generic entry", table: Table{node.Any: {node.Any: 0.4}}, allowed: true, score: 0.4},
		{description: "absent generic entry uses default", table: Table{node.LLM: {node.Chain: 1.0}}, allowed: true, score: 0.3},
		{description: "zero generic entry disables fallback", table: Table{node.Any: {node.Any: 0}}, allowed: false, score: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			srv := New(nil, WithTable(tc.table))
			actual := srv.Compare("json", node.LLM)
			assert.Equal(t, tc.allowed, actual.Allowed)
			assert.InDelta(t, tc.score, actual.Confidence, 0.0001)
		})
	}
}

func TestService_SuggestConnections(t *testing.T) {
	srv := New(testRegistry())
	nodes := []*graph.Node{
		{ID: "prompt", Type: "PromptNode"},
		{ID: "model", Type: "ModelNode"},
		{ID: "chain", Type: "ChainNode"},
	}
	existing := []*graph.Connection{{Source: "model", SourceHandle: "llm", Target: "chain", TargetHandle: "llm"}}
	suggestions := srv.SuggestConnections(nodes, existing)
	require.NotEmpty(t, suggestions)
	for i, suggestion := range suggestions {
		assert.Greater(t, suggestion.Confidence, 0.5)
		assert.NotEqual(t, suggestion.Source, suggestion.Target)
		assert.False(t, suggestion.Source == "model" && suggestion.TargetHandle == "llm" && suggestion.Target == "chain")
		if i > 0 {
			assert.GreaterOrEqual(t, suggestions[i-1].Confidence, suggestion.Confidence)
		}
	}
	assert.Equal(t, "prompt", suggestions[0].Source)
	assert.Equal(t, "chain", suggestions[0].Target)
	assert.Equal(t, "prompt", suggestions[0].TargetHandle)
}

func TestService_ValidateWorkflow(t *testing.T) {
	srv := New(testRegistry())
	testCases := []struct {
		description string
		graph       *graph.Graph
		valid       bool
		errors      int
		warnings    int
		stats       Stats
	}{
		{
			description: "valid chain",
			graph: &graph.Graph{
				Nodes: []*graph.Node{
					{ID: "prompt", Type: "PromptNode", Data: map[string]interface{}{"template": "hi"}},
					{ID: "model", Type: "ModelNode"},
					{ID: "chain", Type: "ChainNode"},
				},
				Edges: []*graph.Connection{
					{Source: "model", SourceHandle: "llm", Target: "chain", TargetHandle: "llm"},
					{Source: "prompt", SourceHandle: "prompt", Target: "chain", TargetHandle: "prompt"},
				},
			},
			valid: true,
			stats: Stats{TotalNodes: 3, TotalConnections: 2, ValidConnections: 2},
		},
		{
			description: "missing required input and unknown endpoint",
			graph: &graph.Graph{
				Nodes: []*graph.Node{
					{ID: "chain", Type: "ChainNode"},
				},
				Edges: []*graph.Connection{{Source: "ghost", Target: "chain", TargetHandle: "llm"}},
			},
			errors:   1,
			warnings: 1,
			stats:    Stats{TotalNodes: 1, TotalConnections: 1, InvalidConnections: 1},
		},
		{
			description: "incompatible connection and low confidence warning",
			graph: &graph.Graph{
				Nodes: []*graph.Node{
					{ID: "tool", Type: "CalculatorTool"},
					{ID: "memory", Type: "BufferMemory"},
					{ID: "model", Type: "ModelNode"},
					{ID: "start", Type: "Start"},
				},
				Edges: []*graph.Connection{
					{Source: "tool", Target: "memory"},
					{Source: "model", Target: "start"},
				},
			},
			errors:   1,
			warnings: 3,
			stats:    Stats{TotalNodes: 4, TotalConnections: 2, ValidConnections: 1, InvalidConnections: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			report := srv.ValidateWorkflow(tc.graph)
			assert.Equal(t, tc.valid, report.Valid, report.Errors)
			assert.Len(t, report.Errors, tc.errors, report.Errors)
			assert.Len(t, report.Warnings, tc.warnings, report.Warnings)
			assert.Equal(t, tc.stats, report.Stats)
			assert.Len(t, report.Connections, tc.stats.ValidConnections)
			if !tc.valid {
				assert.Empty(t, report.Suggestions, "suggestions require an error free graph")
			}
		})
	}
}
