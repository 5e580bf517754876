package tracing

// Span names
const (
	SpanExecute = "weaver.execute"
	SpanCompile = "weaver.compile"
	SpanNode    = "weaver.node"
)

// Attribute keys
const (
	AttrWorkflowID  = "workflow.id"
	AttrExecutionID = "execution.id"
	AttrGraphID     = "graph.id"
	AttrNodeID      = "node.id"
	AttrNodeType    = "node.type"
	AttrNodeKind    = "node.kind"
)

// NodeAttributes returns span attributes describing a graph node.
func NodeAttributes(id, nodeType, kind string) map[string]string {
	return map[string]string{AttrNodeID: id, AttrNodeType: nodeType, AttrNodeKind: kind}
}
