// Package clock supplies the current instant to easytime. Everything that
// needs "now" takes a Clock so tests can pin time with a VirtualClock.
package clock

import "time"

// Clock is the source of the current instant.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
	// Since returns the duration elapsed since t.
	Since(t time.Time) time.Duration
	// After returns a channel that receives the current time after duration d.
	After(d time.Duration) <-chan time.Time
}

// RealClock reads the wall clock and reports it in a fixed location.
type RealClock struct {
	loc *time.Location
}

// NewRealClock returns a wall clock in the process's local zone.
func NewRealClock() *RealClock {
	return &RealClock{loc: time.Local}
}

// NewUTCClock returns a wall clock reporting UTC instants.
func NewUTCClock() *RealClock {
	return &RealClock{loc: time.UTC}
}

// NewRealClockIn returns a wall clock reporting instants in loc.
// A nil loc means the local zone.
func NewRealClockIn(loc *time.Location) *RealClock {
	if loc == nil {
		loc = time.Local
	}
	return &RealClock{loc: loc}
}

// Location returns the zone Now reports in.
func (c *RealClock) Location() *time.Location {
	return c.loc
}

func (c *RealClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
