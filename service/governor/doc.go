// Package governor limits each (workflow, user) pair to a single running
// execution. Slots older than the stale threshold are reclaimed on the next
// acquisition attempt or by the periodic cleanup loop.
package governor
