// Package clock exposes the Clock collaborator used by easytime.
package clock

import (
	"time"

	internalclock "github.com/SmitUplenchwar2687/easytime/internal/clock"
)

// Clock supplies the current instant.
type Clock = internalclock.Clock

// RealClock reads the wall clock in a fixed location.
type RealClock = internalclock.RealClock

// VirtualClock is a controllable clock for deterministic offsets.
type VirtualClock = internalclock.VirtualClock

// NewRealClock creates a wall clock in the local zone.
func NewRealClock() *RealClock {
	return internalclock.NewRealClock()
}

// NewUTCClock creates a wall clock reporting UTC.
func NewUTCClock() *RealClock {
	return internalclock.NewUTCClock()
}

// NewRealClockIn creates a wall clock reporting instants in loc.
func NewRealClockIn(loc *time.Location) *RealClock {
	return internalclock.NewRealClockIn(loc)
}

// NewVirtualClock creates a virtual clock starting at the given time.
func NewVirtualClock(start time.Time) *VirtualClock {
	return internalclock.NewVirtualClock(start)
}
