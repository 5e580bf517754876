package compiler

import (
	"fmt"

	"github.com/viant/weaver/model/graph"
)

// compilation holds per call state: nodes, connections and adjacency.
type compilation struct {
	graph      *graph.Graph
	nodes      map[string]*graph.Node
	edges      []*graph.Connection
	dependents map[string][]string
	incoming   map[string][]*graph.Connection
	sources    map[string]bool
	instances  map[string]*Instance
	order      []*Instance
}

func newCompilation(aGraph *graph.Graph) (*compilation, error) {
	if err := aGraph.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}
	if len(aGraph.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	ret := &compilation{
		graph:      aGraph,
		nodes:      make(map[string]*graph.Node, len(aGraph.Nodes)),
		dependents: map[string][]string{},
		incoming:   map[string][]*graph.Connection{},
		sources:    map[string]bool{},
		instances:  map[string]*Instance{},
	}
	for _, aNode := range aGraph.Nodes {
		ret.nodes[aNode.ID] = aNode
	}
	for _, edge := range aGraph.Edges {
		connection := *edge
		connection.Init()
		for _, endpoint := range []string{connection.Source, connection.Target} {
			if _, ok := ret.nodes[endpoint]; !ok {
				return nil, fmt.Errorf("%w: connection %v references unknown node %v", ErrInvalidGraph, connection.Key(), endpoint)
			}
		}
		ret.edges = append(ret.edges, &connection)
		ret.dependents[connection.Source] = append(ret.dependents[connection.Source], connection.Target)
		ret.incoming[connection.Target] = append(ret.incoming[connection.Target], &connection)
		ret.sources[connection.Source] = true
	}
	return ret, nil
}

// sort returns nodes in dependency order using Kahn's algorithm; independent
// nodes keep their declaration order.
func (c *compilation) sort() ([]*graph.Node, error) {
	inDegree := make(map[string]int, len(c.nodes))
	for _, edge := range c.edges {
		inDegree[edge.Target]++
	}
	var queue []string
	for _, aNode := range c.graph.Nodes {
		if inDegree[aNode.ID] == 0 {
			queue = append(queue, aNode.ID)
		}
	}
	result := make([]*graph.Node, 0, len(c.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, c.nodes[id])
		for _, dependent := range c.dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}
	if len(result) != len(c.nodes) {
		var remaining []string
		for _, aNode := range c.graph.Nodes {
			if inDegree[aNode.ID] > 0 {
				remaining = append(remaining, aNode.ID)
			}
		}
		return nil, &CircularDependencyError{Nodes: remaining}
	}
	return result, nil
}

// connection returns the first connection feeding the node handle.
func (c *compilation) connection(nodeID, handle string) *graph.Connection {
	for _, edge := range c.incoming[nodeID] {
		if edge.TargetHandle == handle {
			return edge
		}
	}
	return nil
}

// sinks returns instantiated nodes never used as a connection source.
func (c *compilation) sinks() []*Instance {
	var ret []*Instance
	for _, instance := range c.order {
		if !c.sources[instance.ID] {
			ret = append(ret, instance)
		}
	}
	return ret
}
