// Package testutil provides shared testing utilities used across the project.
package testutil

import "time"

// ManualClock is a deterministic clock for timing tests. It only moves
// when the test advances it, making checkpoint arithmetic exact.
// It is not safe for concurrent use, matching the single-threaded
// contract of the code under test.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a clock starting at an arbitrary fixed instant.
//
// Returns:
//   - *ManualClock: A new manual clock.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(1_700_000_000, 0)}
}

// Now returns the clock's current reading.
//
// Returns:
//   - time.Time: The current simulated time.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d. Negative values are allowed so
// tests can simulate a misbehaving clock source.
//
// Parameters:
//   - d: The amount to advance the clock by.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
