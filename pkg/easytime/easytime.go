// Package easytime wraps the standard time package with readable offset
// helpers such as DaysFromNow and MonthsAgo.
//
// An EasyTime pairs a magnitude with a base instant and is parameterised by
// the Zone it computes in:
//
//	future, err := easytime.New[easytime.Local](5).DaysFromNow()
//	past, err := easytime.New[easytime.UTC](3).MonthsAgo()
//	next, err := easytime.InFuture[easytime.Local](7, offset.Day, time.Time{})
//
// Month and longer offsets clamp to the end of shorter months, so one month
// after Jan 31 is the last day of February. Every offset returns
// offset.ErrOverflow rather than a wrapped instant when the result falls
// outside the supported years.
package easytime

import (
	"time"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
	"github.com/SmitUplenchwar2687/easytime/internal/offset"
)

// EasyTime is a magnitude and a base instant in zone Z.
type EasyTime[Z Zone] struct {
	// Value is the number of units each offset method moves by.
	Value int64
	// Time is the base instant offsets are computed from.
	Time time.Time
}

// New returns an EasyTime based at the current instant in Z.
func New[Z Zone](value int64) EasyTime[Z] {
	return NewWithClock[Z](clock.NewRealClockIn(location[Z]()), value)
}

// NewWithClock returns an EasyTime based at clk.Now().
func NewWithClock[Z Zone](clk clock.Clock, value int64) EasyTime[Z] {
	return NewWithTime[Z](value, clk.Now())
}

// NewWithTime returns an EasyTime based at t, converted into Z.
func NewWithTime[Z Zone](value int64, t time.Time) EasyTime[Z] {
	return EasyTime[Z]{Value: value, Time: t.In(location[Z]())}
}

// FromTime returns an EasyTime with a zero Value, for formatting t.
func FromTime[Z Zone](t time.Time) EasyTime[Z] {
	return NewWithTime[Z](0, t)
}

// InFuture returns the instant value units after base. A zero base means now.
func InFuture[Z Zone](value int64, unit offset.Unit, base time.Time) (time.Time, error) {
	return inDirection[Z](value, unit, base, offset.Future)
}

// InPast returns the instant value units before base. A zero base means now.
func InPast[Z Zone](value int64, unit offset.Unit, base time.Time) (time.Time, error) {
	return inDirection[Z](value, unit, base, offset.Past)
}

func inDirection[Z Zone](value int64, unit offset.Unit, base time.Time, dir offset.Direction) (time.Time, error) {
	var e EasyTime[Z]
	if base.IsZero() {
		e = New[Z](value)
	} else {
		e = NewWithTime[Z](value, base)
	}
	return offset.Offset(e.Time, e.Value, unit, dir)
}

// FromNow returns the instant Value units after Time.
func (e EasyTime[Z]) FromNow(unit offset.Unit) (time.Time, error) {
	return offset.Offset(e.Time, e.Value, unit, offset.Future)
}

// Ago returns the instant Value units before Time.
func (e EasyTime[Z]) Ago(unit offset.Unit) (time.Time, error) {
	return offset.Offset(e.Time, e.Value, unit, offset.Past)
}

// Shift moves Time by an arbitrary fixed duration, ignoring Value.
func (e EasyTime[Z]) Shift(d time.Duration, dir offset.Direction) (time.Time, error) {
	return offset.OffsetArbitrary(e.Time, d, dir)
}

func (e EasyTime[Z]) SecondsFromNow() (time.Time, error) { return e.FromNow(offset.Second) }
func (e EasyTime[Z]) SecondsAgo() (time.Time, error)     { return e.Ago(offset.Second) }
func (e EasyTime[Z]) MinutesFromNow() (time.Time, error) { return e.FromNow(offset.Minute) }
func (e EasyTime[Z]) MinutesAgo() (time.Time, error)     { return e.Ago(offset.Minute) }
func (e EasyTime[Z]) HoursFromNow() (time.Time, error)   { return e.FromNow(offset.Hour) }
func (e EasyTime[Z]) HoursAgo() (time.Time, error)       { return e.Ago(offset.Hour) }

// DaysFromNow adds Value*24h of elapsed time.
func (e EasyTime[Z]) DaysFromNow() (time.Time, error) { return e.FromNow(offset.Day) }
func (e EasyTime[Z]) DaysAgo() (time.Time, error)     { return e.Ago(offset.Day) }

// MonthsFromNow moves the calendar month, clamping the day when the target
// month is shorter.
func (e EasyTime[Z]) MonthsFromNow() (time.Time, error) { return e.FromNow(offset.Month) }
func (e EasyTime[Z]) MonthsAgo() (time.Time, error)     { return e.Ago(offset.Month) }

// YearsFromNow moves the calendar year. Feb 29 lands on Feb 28 in common
// years.
func (e EasyTime[Z]) YearsFromNow() (time.Time, error)       { return e.FromNow(offset.Year) }
func (e EasyTime[Z]) YearsAgo() (time.Time, error)           { return e.Ago(offset.Year) }
func (e EasyTime[Z]) DecadesFromNow() (time.Time, error)     { return e.FromNow(offset.Decade) }
func (e EasyTime[Z]) DecadesAgo() (time.Time, error)         { return e.Ago(offset.Decade) }
func (e EasyTime[Z]) CenturiesFromNow() (time.Time, error)   { return e.FromNow(offset.Century) }
func (e EasyTime[Z]) CenturiesAgo() (time.Time, error)       { return e.Ago(offset.Century) }
func (e EasyTime[Z]) MillenniumsFromNow() (time.Time, error) { return e.FromNow(offset.Millennium) }
func (e EasyTime[Z]) MillenniumsAgo() (time.Time, error)     { return e.Ago(offset.Millennium) }

// IsLeapYear reports whether the year of Time is a leap year.
func (e EasyTime[Z]) IsLeapYear() bool {
	return offset.IsLeapYear(e.Time.Year())
}
