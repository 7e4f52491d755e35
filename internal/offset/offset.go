// Package offset computes instants that lie a number of time units before or
// after a reference instant.
//
// Fixed units (seconds through days) move the instant by elapsed time.
// Calendar units (months through millennia) move the calendar date and keep
// the wall-clock time of day and the location of the reference. When the
// reference day does not exist in the target month the result is clamped to
// the last day of that month, so Jan 31 plus one month is Feb 28 (or Feb 29
// in a leap year) rather than a day in March.
//
// Every function is pure apart from FromNow and Ago, which read a Clock once.
package offset

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
)

// The range of years an offset may produce. Results outside of it fail with
// ErrOverflow instead of wrapping.
const (
	MinYear = -262144
	MaxYear = 262143
)

var (
	ErrOverflow         = errors.New("offset result is outside the representable range")
	ErrUnitKind         = errors.New("unit is not valid for this operation")
	ErrUnknownUnit      = errors.New("unknown time unit")
	ErrUnknownDirection = errors.New("unknown direction")
)

// Unix seconds bracketing the supported years with a day of slack on either
// side for zone offsets. The year check on the result is authoritative.
var (
	minUnix = time.Date(MinYear, time.January, 1, 0, 0, 0, 0, time.UTC).Unix() - 86400
	maxUnix = time.Date(MaxYear+1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix() + 86400
)

const maxDurationSeconds = int64(math.MaxInt64 / int64(time.Second))

// Request describes a single offset computation.
type Request struct {
	Reference time.Time `json:"reference"`
	Magnitude int64     `json:"magnitude"`
	Unit      Unit      `json:"unit"`
	Direction Direction `json:"direction"`
}

// Apply computes the instant described by r.
func Apply(r Request) (time.Time, error) {
	return Offset(r.Reference, r.Magnitude, r.Unit, r.Direction)
}

// Offset moves ref by magnitude units in direction dir, dispatching to
// OffsetFixed or OffsetCalendar according to the unit.
func Offset(ref time.Time, magnitude int64, unit Unit, dir Direction) (time.Time, error) {
	switch {
	case unit.Fixed():
		return OffsetFixed(ref, magnitude, unit, dir)
	case unit.Calendar():
		return OffsetCalendar(ref, magnitude, unit, dir)
	default:
		return time.Time{}, fmt.Errorf("%w %q", ErrUnknownUnit, string(unit))
	}
}

// FromNow returns the instant magnitude units after clk.Now().
func FromNow(clk clock.Clock, magnitude int64, unit Unit) (time.Time, error) {
	return Offset(clk.Now(), magnitude, unit, Future)
}

// Ago returns the instant magnitude units before clk.Now().
func Ago(clk clock.Clock, magnitude int64, unit Unit) (time.Time, error) {
	return Offset(clk.Now(), magnitude, unit, Past)
}

// OffsetFixed adds magnitude*unit.Seconds() of elapsed time to ref, or
// subtracts it for Past. A Day is always 86400 seconds, even across a
// daylight saving transition.
func OffsetFixed(ref time.Time, magnitude int64, unit Unit, dir Direction) (time.Time, error) {
	if !unit.Fixed() {
		return time.Time{}, fmt.Errorf("%w: %s is a calendar unit", ErrUnitKind, unit)
	}
	n, err := signed(magnitude, dir)
	if err != nil {
		return time.Time{}, err
	}
	if n == 0 {
		return ref, nil
	}
	secs, ok := mul64(n, unit.Seconds())
	if !ok {
		return time.Time{}, overflowf("%d %s", magnitude, unit)
	}
	var out time.Time
	if secs >= -maxDurationSeconds && secs <= maxDurationSeconds {
		out = ref.Add(time.Duration(secs) * time.Second)
	} else {
		target, ok := add64(ref.Unix(), secs)
		if !ok || target < minUnix || target > maxUnix {
			return time.Time{}, overflowf("%d %s from %s", magnitude, unit, ref.Format(time.RFC3339))
		}
		out = time.Unix(target, int64(ref.Nanosecond())).In(ref.Location())
	}
	if err := checkYear(int64(out.Year())); err != nil {
		return time.Time{}, err
	}
	return out, nil
}

// OffsetCalendar moves the calendar month of ref by magnitude*unit.Months()
// months, clamping the day of month to the length of the target month. The
// time of day and location of ref are preserved.
func OffsetCalendar(ref time.Time, magnitude int64, unit Unit, dir Direction) (time.Time, error) {
	if !unit.Calendar() {
		return time.Time{}, fmt.Errorf("%w: %s is a fixed-length unit", ErrUnitKind, unit)
	}
	n, err := signed(magnitude, dir)
	if err != nil {
		return time.Time{}, err
	}
	if n == 0 {
		return ref, nil
	}
	delta, ok := mul64(n, unit.Months())
	if !ok {
		return time.Time{}, overflowf("%d %s", magnitude, unit)
	}
	year, month, day := ref.Date()
	total, ok := add64(int64(year)*12+int64(month-1), delta)
	if !ok {
		return time.Time{}, overflowf("%d %s from %s", magnitude, unit, ref.Format(time.RFC3339))
	}
	targetYear := floorDiv(total, 12)
	if err := checkYear(targetYear); err != nil {
		return time.Time{}, err
	}
	targetMonth := time.Month(total-targetYear*12) + 1
	if last := DaysInMonth(int(targetYear), targetMonth); day > last {
		day = last
	}
	hour, minute, sec := ref.Clock()
	return time.Date(int(targetYear), targetMonth, day, hour, minute, sec, ref.Nanosecond(), ref.Location()), nil
}

// OffsetArbitrary adds d to ref, or subtracts it for Past. No calendar
// logic is involved.
func OffsetArbitrary(ref time.Time, d time.Duration, dir Direction) (time.Time, error) {
	n, err := signed(int64(d), dir)
	if err != nil {
		return time.Time{}, err
	}
	if n == 0 {
		return ref, nil
	}
	out := ref.Add(time.Duration(n))
	// time.Time.Add wraps silently at its own limits.
	if (n > 0 && !out.After(ref)) || (n < 0 && !out.Before(ref)) {
		return time.Time{}, overflowf("%s from %s", time.Duration(n), ref.Format(time.RFC3339))
	}
	if err := checkYear(int64(out.Year())); err != nil {
		return time.Time{}, err
	}
	return out, nil
}

func signed(magnitude int64, dir Direction) (int64, error) {
	switch dir {
	case Future:
		return magnitude, nil
	case Past:
		if magnitude == math.MinInt64 {
			return 0, overflowf("cannot negate %d", magnitude)
		}
		return -magnitude, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownDirection, string(dir))
	}
}

func checkYear(year int64) error {
	if year < MinYear || year > MaxYear {
		return overflowf("year %d not in [%d, %d]", year, MinYear, MaxYear)
	}
	return nil
}

func overflowf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOverflow, fmt.Sprintf(format, args...))
}

func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return c, true
}

func add64(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
