package meta

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/viant/weaver/model/graph"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// hclGraphFile represents the top-level structure of an HCL graph document:
//
//	name = "qa"
//	node "prompt" {
//	  type = "PromptTemplate"
//	  data = { template = "Answer: {question}" }
//	}
//	edge {
//	  source = "prompt"
//	  target = "llm"
//	  target_handle = "prompt"
//	}
type hclGraphFile struct {
	ID    string     `hcl:"id,optional"`
	Name  string     `hcl:"name,optional"`
	Nodes []*hclNode `hcl:"node,block"`
	Edges []*hclEdge `hcl:"edge,block"`
}

type hclNode struct {
	ID       string         `hcl:"id,label"`
	Type     string         `hcl:"type"`
	Data     hcl.Expression `hcl:"data,optional"`
	Position *hclPosition   `hcl:"position,block"`
}

type hclPosition struct {
	X float64 `hcl:"x"`
	Y float64 `hcl:"y"`
}

type hclEdge struct {
	ID           string `hcl:"id,optional"`
	Source       string `hcl:"source"`
	SourceHandle string `hcl:"source_handle,optional"`
	Target       string `hcl:"target"`
	TargetHandle string `hcl:"target_handle,optional"`
}

func decodeHCLGraph(data []byte, source string) (*graph.Graph, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, source)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", source, diags)
	}
	var parsed hclGraphFile
	if diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL %s: %w", source, diags)
	}
	ret := &graph.Graph{ID: parsed.ID, Name: parsed.Name}
	for _, parsedNode := range parsed.Nodes {
		values, err := decodeHCLData(parsedNode.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid data of node %v: %w", parsedNode.ID, err)
		}
		aNode := &graph.Node{ID: parsedNode.ID, Type: parsedNode.Type, Data: values}
		if parsedNode.Position != nil {
			aNode.Position = &graph.Position{X: parsedNode.Position.X, Y: parsedNode.Position.Y}
		}
		ret.Nodes = append(ret.Nodes, aNode)
	}
	for _, edge := range parsed.Edges {
		ret.Edges = append(ret.Edges, &graph.Connection{
			ID:           edge.ID,
			Source:       edge.Source,
			SourceHandle: edge.SourceHandle,
			Target:       edge.Target,
			TargetHandle: edge.TargetHandle,
		})
	}
	return ret, nil
}

// decodeHCLData evaluates a static object expression into a plain map.
func decodeHCLData(expr hcl.Expression) (map[string]interface{}, error) {
	if expr == nil {
		return nil, nil
	}
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if value.IsNull() {
		return nil, nil
	}
	if aType := value.Type(); !aType.IsObjectType() && !aType.IsMapType() {
		return nil, fmt.Errorf("expected object, but had %v", aType.FriendlyName())
	}
	encoded, err := ctyjson.Marshal(value, value.Type())
	if err != nil {
		return nil, err
	}
	var ret map[string]interface{}
	if err = sonic.Unmarshal(encoded, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}
