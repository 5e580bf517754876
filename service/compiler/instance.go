package compiler

import (
	"github.com/viant/weaver/model/graph"
	"github.com/viant/weaver/model/node"
)

// Instance represents an instantiated graph node.
type Instance struct {
	ID      string
	Type    string
	Class   *node.Class
	Node    *graph.Node
	Inputs  node.Values
	Outputs map[string]interface{}
	Value   interface{}
}

// Output returns handle output, falling back to the generic "output" entry.
func (i *Instance) Output(handle string) (interface{}, bool) {
	if value, ok := i.Outputs[handle]; ok {
		return value, true
	}
	value, ok := i.Outputs[graph.DefaultSourceHandle]
	return value, ok
}

// record stores node result under its output handles and returns the primary value.
func (i *Instance) record(result interface{}) interface{} {
	i.Outputs = map[string]interface{}{}
	declared := i.Class.Metadata().Outputs
	if outputs, ok := result.(node.Outputs); ok {
		for k, v := range outputs {
			i.Outputs[k] = v
		}
		primary, found := outputs[graph.DefaultSourceHandle]
		if !found {
			for _, spec := range declared {
				if value, ok := outputs[spec.Name]; ok {
					primary, found = value, true
					break
				}
			}
		}
		if !found {
			primary = map[string]interface{}(outputs)
		}
		if _, ok := i.Outputs[graph.DefaultSourceHandle]; !ok {
			i.Outputs[graph.DefaultSourceHandle] = primary
		}
		i.Value = primary
		return primary
	}
	i.Outputs[graph.DefaultSourceHandle] = result
	for _, spec := range declared {
		i.Outputs[spec.Name] = result
	}
	i.Value = result
	return result
}
