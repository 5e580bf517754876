// Package execution defines FlowState, the mutable state of a single graph
// execution, and the context helpers used to hand it to node implementations.
package execution
