// Package extension provides the run-time node class registry. Classes are
// registered by name and looked up by the compiler and the compat engine when
// a graph references a node type.
//
// The registry is an explicit value owned by the weaver Service; there is no
// package level instance.
package extension
