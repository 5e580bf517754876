package execution

import (
	"context"
	"reflect"
)

var StateKey = KeyOf[*FlowState]()

// WithState returns context carrying the flow state
func WithState(ctx context.Context, state *FlowState) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, StateKey, state)
}

// StateFrom returns flow state from context or nil
func StateFrom(ctx context.Context) *FlowState {
	if ctx == nil {
		return nil
	}
	return ContextValue[*FlowState](ctx)
}

// ContextValue returns the value of the provided type from the context
func ContextValue[T any](ctx context.Context) T {
	key := KeyOf[T]()
	if value := ctx.Value(key); value != nil {
		return value.(T)
	}
	var t T
	return t
}

// KeyOf returns the reflect.Type of the provided type
func KeyOf[T any]() reflect.Type {
	var a T
	return reflect.TypeOf(a)
}
