package session

import "time"

// Message represents a single conversation turn.
type Message struct {
	Human     string    `json:"human"`
	AI        string    `json:"ai"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents conversation state of a user within a workflow.
type Session struct {
	ID             string                 `json:"id"`
	WorkflowID     string                 `json:"workflowId"`
	UserID         string                 `json:"userId"`
	CreatedAt      time.Time              `json:"createdAt"`
	LastAccessedAt time.Time              `json:"lastAccessedAt"`
	Messages       []*Message             `json:"messages"`
	Context        map[string]interface{} `json:"context"`
	Memory         map[string]interface{} `json:"memory"`
}

// Clone returns a copy with its own messages, context and memory containers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	ret := *s
	ret.Messages = make([]*Message, len(s.Messages))
	for i, msg := range s.Messages {
		clone := *msg
		ret.Messages[i] = &clone
	}
	ret.Context = cloneMap(s.Context)
	ret.Memory = cloneMap(s.Memory)
	return &ret
}

// LastMessages returns up to n most recent messages.
func (s *Session) LastMessages(n int) []*Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	ret := make(map[string]interface{}, len(m))
	for k, v := range m {
		ret[k] = v
	}
	return ret
}

// New creates a session
func New(id, workflowID, userID string, now time.Time) *Session {
	return &Session{
		ID:             id,
		WorkflowID:     workflowID,
		UserID:         userID,
		CreatedAt:      now,
		LastAccessedAt: now,
		Messages:       []*Message{},
		Context:        map[string]interface{}{},
		Memory:         map[string]interface{}{},
	}
}
