package compat

import "github.com/viant/weaver/model/graph"

// Result represents a connection compatibility verdict.
type Result struct {
	Allowed    bool    `json:"allowed"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Suggestion represents a proposed connection.
type Suggestion struct {
	Source       string  `json:"source"`
	SourceHandle string  `json:"sourceHandle"`
	Target       string  `json:"target"`
	TargetHandle string  `json:"targetHandle"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

// Stats summarises a validated graph.
type Stats struct {
	TotalNodes         int `json:"total_nodes"`
	TotalConnections   int `json:"total_connections"`
	ValidConnections   int `json:"valid_connections"`
	InvalidConnections int `json:"invalid_connections"`
}

// Report represents workflow validation outcome.
// Suggestions are only computed for graphs without errors.
type Report struct {
	Valid       bool                `json:"valid"`
	Errors      []string            `json:"errors"`
	Warnings    []string            `json:"warnings"`
	Connections []*graph.Connection `json:"valid_connections"`
	Suggestions []*Suggestion       `json:"suggestions,omitempty"`
	Stats       Stats               `json:"stats"`
}

