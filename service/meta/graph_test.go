package meta

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/weaver/model/graph"
)

//go:embed testdata/*
var testFS embed.FS

func expectedGraph(name string) *graph.Graph {
	return &graph.Graph{
		ID:   "qa",
		Name: name,
		Nodes: []*graph.Node{
			{ID: "question", Type: "TextInput", Data: map[string]interface{}{"text": "What is weaver?"}},
			{ID: "prompt", Type: "PromptTemplate", Data: map[string]interface{}{"template": "Answer: {question}"}},
			{ID: "llm", Type: "ChatModel", Data: map[string]interface{}{"model": "gpt-test", "temperature": 0.2}, Position: &graph.Position{X: 10, Y: 20}},
		},
		Edges: []*graph.Connection{
			{Source: "question", SourceHandle: "output", Target: "prompt", TargetHandle: "question"},
			{Source: "prompt", SourceHandle: "output", Target: "llm", TargetHandle: "prompt"},
		},
	}
}

func TestService_LoadGraph(t *testing.T) {
	t.Setenv("WEAVER_TEST_MODEL", "gpt-test")
	ctx := context.Background()
	service := New(afs.New(), "embed:///testdata", &testFS)

	testCases := []struct {
		description string
		URL         string
		expect      *graph.Graph
		expectErr   bool
	}{
		{description: "yaml", URL: "qa.yaml", expect: expectedGraph("qa")},
		{description: "yaml without extension", URL: "qa", expect: expectedGraph("qa")},
		{description: "json", URL: "qa.json", expect: expectedGraph("qa-json")},
		{description: "hcl", URL: "qa.hcl", expect: expectedGraph("qa")},
		{description: "duplicate node", URL: "duplicate.yaml", expectErr: true},
		{description: "hcl data not an object", URL: "bad.hcl", expectErr: true},
		{description: "missing document", URL: "missing.yaml", expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := service.LoadGraph(ctx, tc.URL)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, tc.expect, actual)
		})
	}
}

func TestService_Load(t *testing.T) {
	t.Setenv("WEAVER_TEST_NAME", "weaver")
	service := New(nil, "embed:///testdata", &testFS)
	var settings struct {
		Name  string `yaml:"name"`
		Limit int    `yaml:"limit"`
	}
	require.NoError(t, service.Load(context.Background(), "settings.yaml", &settings))
	assert.Equal(t, "weaver", settings.Name)
	assert.Equal(t, 3, settings.Limit)
}

func TestService_URL(t *testing.T) {
	service := New(nil, "file:///etc/weaver")
	assert.Equal(t, "file:///etc/weaver/graph.yaml", service.URL("graph.yaml"))
	assert.Equal(t, "/tmp/graph.yaml", service.URL("/tmp/graph.yaml"))
	assert.Equal(t, "mem://localhost/graph.yaml", service.URL("mem://localhost/graph.yaml"))
	assert.Equal(t, "graph.yaml", New(nil, "").URL("graph.yaml"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, Format("a.JSON"))
	assert.Equal(t, FormatHCL, Format("a.hcl"))
	assert.Equal(t, FormatYAML, Format("a.yml"))
	assert.Equal(t, FormatYAML, Format("a"))
	assert.Error(t, Decode(FormatHCL, []byte("x"), &struct{}{}))
}
