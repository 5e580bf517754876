package execution

import (
	"sync"
	"time"

	"github.com/viant/weaver/internal/clock"
)

// FlowState holds per-execution state shared by nodes of a compiled graph.
type FlowState struct {
	ChatHistory   []string               `json:"chatHistory,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	NodeOutputs   map[string]interface{} `json:"nodeOutputs,omitempty"`
	ExecutedNodes []string               `json:"executedNodes,omitempty"`
	Errors        []string               `json:"errors,omitempty"`
	SessionID     string                 `json:"sessionId,omitempty"`
	UserID        string                 `json:"userId,omitempty"`
	WorkflowID    string                 `json:"workflowId,omitempty"`
	StartedAt     time.Time              `json:"startedAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	mux           sync.RWMutex
}

// SetOutput records node output
func (s *FlowState) SetOutput(nodeID string, value interface{}) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.NodeOutputs[nodeID] = value
	s.touch()
}

// Output returns node output
func (s *FlowState) Output(nodeID string) (interface{}, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret, ok := s.NodeOutputs[nodeID]
	return ret, ok
}

// MarkExecuted appends node id to the executed trace
func (s *FlowState) MarkExecuted(nodeID string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.ExecutedNodes = append(s.ExecutedNodes, nodeID)
	s.touch()
}

// Executed returns a copy of the executed trace
func (s *FlowState) Executed() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return append([]string(nil), s.ExecutedNodes...)
}

// AddError records an execution error message
func (s *FlowState) AddError(message string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.Errors = append(s.Errors, message)
	s.touch()
}

// SetVariable sets a flow variable
func (s *FlowState) SetVariable(name string, value interface{}) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.Variables[name] = value
	s.touch()
}

// Variable returns a flow variable
func (s *FlowState) Variable(name string) (interface{}, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret, ok := s.Variables[name]
	return ret, ok
}

// AppendHistory appends chat history lines
func (s *FlowState) AppendHistory(lines ...string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.ChatHistory = append(s.ChatHistory, lines...)
	s.touch()
}

// Merge applies other state on top of this one, last writer wins per key.
func (s *FlowState) Merge(other *FlowState) {
	if other == nil || other == s {
		return
	}
	snapshot := other.Snapshot()
	s.mux.Lock()
	defer s.mux.Unlock()
	for k, v := range snapshot.Variables {
		s.Variables[k] = v
	}
	for k, v := range snapshot.NodeOutputs {
		s.NodeOutputs[k] = v
	}
	s.ChatHistory = append(s.ChatHistory, snapshot.ChatHistory...)
	s.ExecutedNodes = append(s.ExecutedNodes, snapshot.ExecutedNodes...)
	s.Errors = append(s.Errors, snapshot.Errors...)
	if snapshot.SessionID != "" {
		s.SessionID = snapshot.SessionID
	}
	if snapshot.UserID != "" {
		s.UserID = snapshot.UserID
	}
	if snapshot.WorkflowID != "" {
		s.WorkflowID = snapshot.WorkflowID
	}
	s.touch()
}

// Snapshot returns a copy safe for read-only inspection; maps and slices are copied,
// values are shared.
func (s *FlowState) Snapshot() *FlowState {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := &FlowState{
		ChatHistory:   append([]string(nil), s.ChatHistory...),
		Variables:     make(map[string]interface{}, len(s.Variables)),
		NodeOutputs:   make(map[string]interface{}, len(s.NodeOutputs)),
		ExecutedNodes: append([]string(nil), s.ExecutedNodes...),
		Errors:        append([]string(nil), s.Errors...),
		SessionID:     s.SessionID,
		UserID:        s.UserID,
		WorkflowID:    s.WorkflowID,
		StartedAt:     s.StartedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for k, v := range s.Variables {
		ret.Variables[k] = v
	}
	for k, v := range s.NodeOutputs {
		ret.NodeOutputs[k] = v
	}
	return ret
}

func (s *FlowState) touch() {
	s.UpdatedAt = clock.Now()
}

// NewFlowState creates a flow state
func NewFlowState(workflowID, userID, sessionID string) *FlowState {
	now := clock.Now()
	return &FlowState{
		Variables:   make(map[string]interface{}),
		NodeOutputs: make(map[string]interface{}),
		WorkflowID:  workflowID,
		UserID:      userID,
		SessionID:   sessionID,
		StartedAt:   now,
		UpdatedAt:   now,
	}
}
