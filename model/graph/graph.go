package graph

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultSourceHandle is used when a connection omits its source handle.
	DefaultSourceHandle = "output"
	// DefaultTargetHandle is used when a connection omits its target handle.
	DefaultTargetHandle = "input"
)

// Position is an optional editor canvas coordinate.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node describes a single user-placed node.
type Node struct {
	ID       string                 `json:"id" yaml:"id" validate:"required"`
	Type     string                 `json:"type" yaml:"type" validate:"required"`
	Data     map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Position *Position              `json:"position,omitempty" yaml:"position,omitempty"`
}

// Value returns node configuration value.
func (n *Node) Value(name string) (interface{}, bool) {
	if n == nil || n.Data == nil {
		return nil, false
	}
	v, ok := n.Data[name]
	return v, ok
}

// Connection describes a directed edge between two node handles.
type Connection struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	Source       string `json:"source" yaml:"source" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	Target       string `json:"target" yaml:"target" validate:"required"`
	TargetHandle string `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`
}

// Init applies default handles
func (c *Connection) Init() {
	if c.SourceHandle == "" {
		c.SourceHandle = DefaultSourceHandle
	}
	if c.TargetHandle == "" {
		c.TargetHandle = DefaultTargetHandle
	}
}

// Key returns a connection identity used for duplicate detection.
func (c *Connection) Key() string {
	return c.Source + "." + c.SourceHandle + "->" + c.Target + "." + c.TargetHandle
}

// Graph represents a workflow graph.
type Graph struct {
	ID    string        `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string        `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []*Node       `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []*Connection `json:"edges" yaml:"edges" validate:"dive"`
}

// Init initialises connection defaults
func (g *Graph) Init() {
	if g == nil {
		return
	}
	for _, edge := range g.Edges {
		if edge != nil {
			edge.Init()
		}
	}
}

// Node returns node by id
func (g *Graph) Node(id string) *Node {
	for _, candidate := range g.Nodes {
		if candidate != nil && candidate.ID == id {
			return candidate
		}
	}
	return nil
}

// Incoming returns connections targeting the node, in declaration order.
func (g *Graph) Incoming(nodeID string) []*Connection {
	var result []*Connection
	for _, edge := range g.Edges {
		if edge != nil && edge.Target == nodeID {
			result = append(result, edge)
		}
	}
	return result
}

var validate = validator.New()

// Validate checks graph structure: required fields and unique node ids.
// Type compatibility is checked separately by the compat service.
func (g *Graph) Validate() error {
	if g == nil {
		return fmt.Errorf("graph was nil")
	}
	for i, node := range g.Nodes {
		if node == nil {
			return fmt.Errorf("node[%d] was nil", i)
		}
	}
	for i, edge := range g.Edges {
		if edge == nil {
			return fmt.Errorf("edge[%d] was nil", i)
		}
	}
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("invalid graph %v: %w", g.Name, err)
	}
	seen := make(map[string]bool, len(g.Nodes))
	for _, node := range g.Nodes {
		if seen[node.ID] {
			return fmt.Errorf("duplicate node id: %v", node.ID)
		}
		seen[node.ID] = true
	}
	return nil
}
