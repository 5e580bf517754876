package node

import "context"

// Executable represents a runnable unit produced by a node or by the compiler.
type Executable interface {
	Invoke(ctx context.Context, input interface{}) (interface{}, error)
}

// ExecutableFunc adapts a function to Executable.
type ExecutableFunc func(ctx context.Context, input interface{}) (interface{}, error)

// Invoke calls f(ctx, input)
func (f ExecutableFunc) Invoke(ctx context.Context, input interface{}) (interface{}, error) {
	return f(ctx, input)
}

// AsExecutable returns value as Executable when it implements one.
func AsExecutable(value interface{}) (Executable, bool) {
	switch actual := value.(type) {
	case Executable:
		return actual, true
	case func(ctx context.Context, input interface{}) (interface{}, error):
		return ExecutableFunc(actual), true
	}
	return nil, false
}

// Values represents resolved node inputs keyed by input name.
type Values map[string]interface{}

// Outputs can be returned by a node to populate several output handles at once.
type Outputs map[string]interface{}
