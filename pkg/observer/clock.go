package observer

import "time"

// Clock abstracts the monotonic "now" reading the Observer depends on.
// The estimator only ever compares elapsed-duration differences; it
// never interprets the reading as calendar time. Decoupling the clock
// behind this seam keeps timing deterministic in tests.
type Clock interface {
	// Now returns the current time. Readings must be monotonic.
	Now() time.Time
}

// systemClock reads the runtime clock. time.Now carries a monotonic
// component on all supported platforms, so Sub between two readings is
// immune to wall-clock adjustments.
type systemClock struct{}

// Now returns the current time from the runtime clock.
func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the default Clock backed by time.Now.
//
// Returns:
//   - Clock: The system monotonic clock.
func SystemClock() Clock { return systemClock{} }
