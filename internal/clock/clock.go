// Package clock provides the time source shared by flow state and progress tracking.
package clock

import "time"

var source = time.Now

// Now returns the current time of the active source.
func Now() time.Time { return source() }

// Set replaces the time source and returns a function restoring the previous one.
func Set(now func() time.Time) (restore func()) {
	previous := source
	source = now
	return func() { source = previous }
}
