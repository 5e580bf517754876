package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "span_test.txt")
	require.NoError(t, Init("weaver", "0.0.1", fname))

	ctx, span := StartSpan(context.Background(), "compile", map[string]string{"graph": "demo"})
	_, child := StartSpan(ctx, "node", nil)
	EndSpan(child, errors.New("node failed"))
	EndSpan(span, nil)

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	EndSpan(nil, nil)
}

func TestSpanFrom(t *testing.T) {
	ctx, span := StartSpan(context.Background(), SpanNode, NodeAttributes("n1", "Echo", "provider"))
	current := SpanFrom(ctx)
	require.NotNil(t, current)
	current.AddEvent("sink.dropped", map[string]string{AttrNodeID: "n1"})
	EndSpan(span, nil)
	SpanFrom(context.Background()).AddEvent("ignored", nil)
	var empty *Span
	empty.AddEvent("ignored", nil)
}
