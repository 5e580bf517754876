// Package progress keeps aggregated node counters (total, completed, failed,
// running) for a single graph compilation. The tracker lives in the context
// so the compiler can update it without a global registry.
package progress
