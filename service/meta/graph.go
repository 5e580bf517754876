package meta

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/weaver/model/graph"
)

// LoadGraph loads and validates a graph document (YAML, JSON or HCL).
// A location without extension is resolved as YAML.
func (s *Service) LoadGraph(ctx context.Context, location string) (*graph.Graph, error) {
	if path.Ext(location) == "" {
		location += ".yaml"
	}
	data, err := s.Download(ctx, location)
	if err != nil {
		return nil, err
	}
	ret, err := DecodeGraph(Format(location), data, location)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph from %v: %w", location, err)
	}
	if ret.Name == "" {
		ret.Name = graphName(location)
	}
	return ret, nil
}

// DecodeGraph decodes a graph document; source names the document in HCL diagnostics.
func DecodeGraph(format string, data []byte, source string) (*graph.Graph, error) {
	var ret *graph.Graph
	var err error
	if format == FormatHCL {
		ret, err = decodeHCLGraph(data, source)
	} else {
		ret = &graph.Graph{}
		err = Decode(format, data, ret)
	}
	if err != nil {
		return nil, err
	}
	ret.Init()
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

func graphName(location string) string {
	name := path.Base(location)
	return strings.TrimSuffix(name, path.Ext(name))
}
