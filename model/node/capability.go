package node

// Capability tags the value type flowing through a node handle.
type Capability string

const (
	LLM         Capability = "llm"
	Prompt      Capability = "prompt"
	Memory      Capability = "memory"
	Tool        Capability = "tool"
	Tools       Capability = "tools"
	Agent       Capability = "agent"
	Chain       Capability = "chain"
	Text        Capability = "text"
	Document    Capability = "document"
	VectorStore Capability = "vector_store"
	Retriever   Capability = "retriever"
	Any         Capability = "any"
)

var capabilities = map[Capability]bool{
	LLM: true, Prompt: true, Memory: true, Tool: true, Tools: true, Agent: true,
	Chain: true, Text: true, Document: true, VectorStore: true, Retriever: true, Any: true,
}

// IsKnown returns true for the predefined capability tags.
func (c Capability) IsKnown() bool {
	return capabilities[c]
}
