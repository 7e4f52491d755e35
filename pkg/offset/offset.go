// Package offset computes instants offset from a reference instant by a
// number of seconds, minutes, hours, days, months, years, decades, centuries
// or millennia. Calendar units clamp the day of month to the target month.
package offset

import (
	"time"

	internaloffset "github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/pkg/clock"
)

// Unit identifies the granularity of an offset.
type Unit = internaloffset.Unit

// Direction selects future or past.
type Direction = internaloffset.Direction

// Request describes a single offset computation.
type Request = internaloffset.Request

const (
	Second     = internaloffset.Second
	Minute     = internaloffset.Minute
	Hour       = internaloffset.Hour
	Day        = internaloffset.Day
	Month      = internaloffset.Month
	Year       = internaloffset.Year
	Decade     = internaloffset.Decade
	Century    = internaloffset.Century
	Millennium = internaloffset.Millennium

	Future = internaloffset.Future
	Past   = internaloffset.Past

	MinYear = internaloffset.MinYear
	MaxYear = internaloffset.MaxYear
)

var (
	ErrOverflow         = internaloffset.ErrOverflow
	ErrUnitKind         = internaloffset.ErrUnitKind
	ErrUnknownUnit      = internaloffset.ErrUnknownUnit
	ErrUnknownDirection = internaloffset.ErrUnknownDirection
)

// Offset moves ref by magnitude units in direction dir.
func Offset(ref time.Time, magnitude int64, unit Unit, dir Direction) (time.Time, error) {
	return internaloffset.Offset(ref, magnitude, unit, dir)
}

// Apply computes the instant described by r.
func Apply(r Request) (time.Time, error) {
	return internaloffset.Apply(r)
}

// OffsetArbitrary adds or subtracts a fixed duration.
func OffsetArbitrary(ref time.Time, d time.Duration, dir Direction) (time.Time, error) {
	return internaloffset.OffsetArbitrary(ref, d, dir)
}

// FromNow returns the instant magnitude units after clk.Now().
func FromNow(clk clock.Clock, magnitude int64, unit Unit) (time.Time, error) {
	return internaloffset.FromNow(clk, magnitude, unit)
}

// Ago returns the instant magnitude units before clk.Now().
func Ago(clk clock.Clock, magnitude int64, unit Unit) (time.Time, error) {
	return internaloffset.Ago(clk, magnitude, unit)
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return internaloffset.IsLeapYear(year)
}

// ParseUnit parses a unit name such as "days" or "millennia".
func ParseUnit(s string) (Unit, error) {
	return internaloffset.ParseUnit(s)
}

// ParseDirection parses "future", "from_now", "past" or "ago".
func ParseDirection(s string) (Direction, error) {
	return internaloffset.ParseDirection(s)
}

// ParseDuration parses a Go or ISO-8601 duration.
func ParseDuration(s string) (time.Duration, error) {
	return internaloffset.ParseDuration(s)
}
