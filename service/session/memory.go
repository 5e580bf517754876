package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/viant/weaver/model/session"
	"github.com/viant/weaver/runtime/execution"
)

const (
	defaultInputKey  = "input"
	defaultOutputKey = "output"
	defaultMemoryKey = "history"
	// MessagesKey holds chat messages in loaded memory variables.
	MessagesKey = "messages"
)

// Memory adapts a session to the conversation memory contract used by chain
// and agent nodes: save a turn, load variables, clear.
type Memory struct {
	manager   *Manager
	sessionID string
	InputKey  string
	OutputKey string
	MemoryKey string
	Turns     int
}

// SaveContext appends the human input and AI output as a turn. A missing or
// expired session is ignored.
func (m *Memory) SaveContext(ctx context.Context, inputs, outputs map[string]interface{}) error {
	human := pick(inputs, m.InputKey)
	ai := pick(outputs, m.OutputKey)
	if human == "" || ai == "" {
		return nil
	}
	_, err := m.manager.UpdateSession(ctx, m.sessionID, &Update{Human: human, AI: ai})
	return err
}

// LoadMemoryVariables returns formatted history of the most recent turns,
// the same turns as chat messages and the stored memory entries.
func (m *Memory) LoadMemoryVariables(ctx context.Context, _ map[string]interface{}) (map[string]interface{}, error) {
	sessionContext, err := m.manager.GetSessionContext(ctx, m.sessionID)
	if err != nil {
		return nil, err
	}
	turns := (&session.Session{Messages: sessionContext.Messages}).LastMessages(m.Turns)
	ret := make(map[string]interface{}, len(sessionContext.Memory)+2)
	for k, v := range sessionContext.Memory {
		ret[k] = v
	}
	ret[m.MemoryKey] = FormatHistory(turns)
	ret[MessagesKey] = Messages(turns)
	return ret, nil
}

// Clear removes conversation messages and memory of the session.
func (m *Memory) Clear(ctx context.Context) error {
	_, err := m.manager.ClearSession(ctx, m.sessionID)
	return err
}

// SessionID returns adapted session id
func (m *Memory) SessionID() string {
	return m.sessionID
}

// FormatHistory renders turns as "Human: ...\nAI: ..." lines.
func FormatHistory(turns []*session.Message) string {
	lines := make([]string, 0, 2*len(turns))
	for _, turn := range turns {
		lines = append(lines, "Human: "+turn.Human, "AI: "+turn.AI)
	}
	return strings.Join(lines, "\n")
}

// Messages converts turns to chat messages.
func Messages(turns []*session.Message) []*schema.Message {
	ret := make([]*schema.Message, 0, 2*len(turns))
	for _, turn := range turns {
		ret = append(ret, schema.UserMessage(turn.Human), schema.AssistantMessage(turn.AI, nil))
	}
	return ret
}

// pick returns value under key, or the only value of a single entry map.
func pick(values map[string]interface{}, key string) string {
	if value, ok := values[key]; ok && value != nil {
		return fmt.Sprint(value)
	}
	if len(values) == 1 {
		for _, value := range values {
			if value != nil {
				return fmt.Sprint(value)
			}
		}
	}
	return ""
}

// NewMemory creates a memory adapter for the session
func (m *Manager) NewMemory(sessionID string) *Memory {
	return &Memory{
		manager:   m,
		sessionID: sessionID,
		InputKey:  defaultInputKey,
		OutputKey: defaultOutputKey,
		MemoryKey: defaultMemoryKey,
		Turns:     m.config.HistoryTurns,
	}
}

var memoryKey = execution.KeyOf[*Memory]()

// WithMemory returns context carrying the session memory adapter.
func WithMemory(ctx context.Context, memory *Memory) context.Context {
	return context.WithValue(ctx, memoryKey, memory)
}

// MemoryFrom returns the session memory adapter from context or nil.
func MemoryFrom(ctx context.Context) *Memory {
	return execution.ContextValue[*Memory](ctx)
}
