package node

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClass_Dispatch(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider("ModelNode", &Metadata{Outputs: []*OutputSpec{Out("llm", LLM)}}, func(ctx context.Context, inputs Values) (interface{}, error) {
		return "model", nil
	})
	assert.Equal(t, KindProvider, provider.Kind())
	assert.Equal(t, "ModelNode", provider.Name())

	out, err := provider.Provide(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "model", out)

	_, err = provider.Execute(ctx, nil)
	assert.EqualError(t, err, "node type ModelNode is provider, not generic")

	terminator := NewTerminator("End", nil, func(ctx context.Context, upstream interface{}, values Values) (interface{}, error) {
		return upstream, nil
	})
	out, err = terminator.Terminate(ctx, 42, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.NotNil(t, terminator.Metadata())
	assert.Equal(t, []*InputSpec{genericInput}, terminator.Metadata().InputSpecs())
}

func TestAsExecutable(t *testing.T) {
	fn := func(ctx context.Context, input interface{}) (interface{}, error) { return input, nil }
	executable, ok := AsExecutable(fn)
	require.True(t, ok)
	out, err := executable.Invoke(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", out)

	_, ok = AsExecutable("text")
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	type promptConfig struct {
		Template string
		Limit    int
	}
	var cfg promptConfig
	err := Decode(Values{"Template": "hello {input}", "Limit": 3, "extra": true}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, promptConfig{Template: "hello {input}", Limit: 3}, cfg)
}

func TestCapability_IsKnown(t *testing.T) {
	assert.True(t, LLM.IsKnown())
	assert.True(t, Any.IsKnown())
	assert.False(t, Capability("custom").IsKnown())
}
