package session

import "github.com/viant/weaver/model/session"

// Update represents session changes; a turn is appended only when both
// Human and AI are set, Context and Memory are merged key by key.
type Update struct {
	Human   string
	AI      string
	Context map[string]interface{}
	Memory  map[string]interface{}
}

// Context represents session data handed to a graph execution.
type Context struct {
	SessionID string                 `json:"sessionId,omitempty"`
	UserID    string                 `json:"userId,omitempty"`
	Messages  []*session.Message     `json:"messages"`
	Context   map[string]interface{} `json:"context"`
	Memory    map[string]interface{} `json:"memory"`
}

func emptyContext() *Context {
	return &Context{
		Messages: []*session.Message{},
		Context:  map[string]interface{}{},
		Memory:   map[string]interface{}{},
	}
}
