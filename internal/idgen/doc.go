// Package idgen produces opaque identifiers for sessions and executions.
// Callers must not rely on the identifier format.
package idgen
