package extension

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/weaver/model/node"
)

func TestRegistry(t *testing.T) {
	start := node.NewGeneric("Start", nil, func(ctx context.Context, inputs node.Values) (interface{}, error) { return nil, nil })
	prompt := node.NewProvider("PromptNode", &node.Metadata{Outputs: []*node.OutputSpec{node.Out("prompt", node.Prompt)}}, func(ctx context.Context, inputs node.Values) (interface{}, error) { return "p", nil })
	registry := NewRegistry(start, nil)
	registry.Register(prompt)

	class, ok := registry.Lookup("PromptNode")
	assert.True(t, ok)
	assert.Equal(t, node.KindProvider, class.Kind())
	assert.NotNil(t, registry.Metadata("PromptNode"))
	assert.Nil(t, registry.Metadata("Missing"))
	assert.Equal(t, []string{"PromptNode", "Start"}, registry.Names())
}
