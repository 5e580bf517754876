package compat

import (
	"strings"

	"github.com/viant/weaver/model/node"
)

const (
	exactScore   = 1.0
	anyScore     = 0.5
	reverseRatio = 0.8
	genericScore = 0.3
)

// Table maps source capability to target capability scores.
type Table map[node.Capability]map[node.Capability]float64

// Score returns forward score
func (t Table) Score(source, target node.Capability) float64 {
	if targets, ok := t[source]; ok {
		return targets[target]
	}
	return 0
}

// Generic returns the (any, any) score applied when either side is unregistered.
func (t Table) Generic() float64 {
	if targets, ok := t[node.Any]; ok {
		if score, ok := targets[node.Any]; ok {
			return score
		}
	}
	return genericScore
}

// DefaultTable returns the predefined compatibility scores.
func DefaultTable() Table {
	return Table{
		node.LLM:         {node.Chain: 1.0, node.Agent: 1.0, node.Text: 0.6},
		node.Prompt:      {node.Chain: 1.0, node.LLM: 0.9, node.Agent: 0.8},
		node.Memory:      {node.Chain: 0.9, node.Agent: 0.9},
		node.Tool:        {node.Tools: 1.0, node.Agent: 0.9},
		node.Tools:       {node.Agent: 1.0},
		node.Chain:       {node.Agent: 0.8, node.Text: 0.9},
		node.Agent:       {node.Text: 1.0},
		node.Text:        {node.Prompt: 0.9, node.LLM: 0.7, node.Document: 0.6},
		node.Document:    {node.VectorStore: 1.0, node.Text: 0.7},
		node.VectorStore: {node.Retriever: 1.0},
		node.Retriever:   {node.Chain: 0.9, node.Agent: 0.8, node.Tool: 0.7},
		node.Any:         {node.Any: genericScore},
	}
}

// Fallback infers a capability from a node type name fragment.
type Fallback struct {
	Fragments  []string
	Capability node.Capability
}

// DefaultFallbacks returns ordered type name fragments; the first match wins.
func DefaultFallbacks() []*Fallback {
	return []*Fallback{
		{Fragments: []string{"Chat", "LLM", "Model"}, Capability: node.LLM},
		{Fragments: []string{"Prompt"}, Capability: node.Prompt},
		{Fragments: []string{"Memory"}, Capability: node.Memory},
		{Fragments: []string{"Tools"}, Capability: node.Tools},
		{Fragments: []string{"Tool"}, Capability: node.Tool},
		{Fragments: []string{"Agent"}, Capability: node.Agent},
		{Fragments: []string{"Chain"}, Capability: node.Chain},
		{Fragments: []string{"Retriever"}, Capability: node.Retriever},
		{Fragments: []string{"Vector"}, Capability: node.VectorStore},
		{Fragments: []string{"Document", "Loader"}, Capability: node.Document},
		{Fragments: []string{"Text", "Output"}, Capability: node.Text},
	}
}

func matchFallback(fallbacks []*Fallback, typeName string) (node.Capability, bool) {
	for _, fallback := range fallbacks {
		for _, fragment := range fallback.Fragments {
			if strings.Contains(typeName, fragment) {
				return fallback.Capability, true
			}
		}
	}
	return "", false
}
