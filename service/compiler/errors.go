package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph is returned for structurally invalid graphs.
	ErrInvalidGraph = errors.New("compiler: invalid graph")
	// ErrEmptyGraph is returned when the graph has no nodes.
	ErrEmptyGraph = errors.New("compiler: empty graph")
)

// CircularDependencyError reports nodes left over by the topological sort.
type CircularDependencyError struct {
	Nodes []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected among nodes: %v", strings.Join(e.Nodes, ", "))
}

// UnknownNodeTypeError reports a node whose type is not registered.
type UnknownNodeTypeError struct {
	NodeID string
	Type   string
}

func (e *UnknownNodeTypeError) Error() string {
	return fmt.Sprintf("unknown node type %v for node %v", e.Type, e.NodeID)
}

// MissingRequiredInputError reports a required input with no connection, value or default.
type MissingRequiredInputError struct {
	NodeID string
	Input  string
}

func (e *MissingRequiredInputError) Error() string {
	return fmt.Sprintf("node %v missing required input: %v", e.NodeID, e.Input)
}

// MissingUpstreamError reports a terminator without a connected capability.
type MissingUpstreamError struct {
	NodeID string
}

func (e *MissingUpstreamError) Error() string {
	return fmt.Sprintf("terminator node %v has no connected upstream capability", e.NodeID)
}

// PolicyDeniedError reports a node type rejected by the execution policy.
type PolicyDeniedError struct {
	NodeID string
	Type   string
}

func (e *PolicyDeniedError) Error() string {
	return fmt.Sprintf("node %v of type %v denied by policy", e.NodeID, e.Type)
}

// NodeExecutionError wraps a failure raised by a node implementation.
type NodeExecutionError struct {
	NodeID string
	Type   string
	Err    error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %v (%v) failed: %v", e.NodeID, e.Type, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}
