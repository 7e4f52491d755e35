package offset

import (
	"fmt"
	"strings"
)

// Unit identifies the granularity of an offset.
type Unit string

const (
	Second     Unit = "seconds"
	Minute     Unit = "minutes"
	Hour       Unit = "hours"
	Day        Unit = "days"
	Month      Unit = "months"
	Year       Unit = "years"
	Decade     Unit = "decades"
	Century    Unit = "centuries"
	Millennium Unit = "millennia"
)

// Units lists every unit from the shortest to the longest.
var Units = []Unit{Second, Minute, Hour, Day, Month, Year, Decade, Century, Millennium}

var unitSeconds = map[Unit]int64{
	Second: 1,
	Minute: 60,
	Hour:   3600,
	Day:    86400,
}

var unitMonths = map[Unit]int64{
	Month:      1,
	Year:       12,
	Decade:     120,
	Century:    1200,
	Millennium: 12000,
}

var unitAliases = map[string]Unit{
	"s": Second, "sec": Second, "secs": Second, "second": Second, "seconds": Second,
	"m": Minute, "min": Minute, "mins": Minute, "minute": Minute, "minutes": Minute,
	"h": Hour, "hr": Hour, "hrs": Hour, "hour": Hour, "hours": Hour,
	"d": Day, "day": Day, "days": Day,
	"mo": Month, "month": Month, "months": Month,
	"y": Year, "yr": Year, "yrs": Year, "year": Year, "years": Year,
	"decade": Decade, "decades": Decade,
	"century": Century, "centuries": Century,
	"millennium": Millennium, "millennia": Millennium, "millenniums": Millennium,
}

// ParseUnit accepts singular, plural and short forms, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	if u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownUnit, s)
}

// Valid reports whether u is one of the defined units.
func (u Unit) Valid() bool {
	return u.Fixed() || u.Calendar()
}

// Fixed reports whether u has a constant length in elapsed seconds.
func (u Unit) Fixed() bool {
	_, ok := unitSeconds[u]
	return ok
}

// Calendar reports whether u's length depends on its position in the calendar.
func (u Unit) Calendar() bool {
	_, ok := unitMonths[u]
	return ok
}

// Seconds returns the length of a fixed unit, or 0 for calendar units.
func (u Unit) Seconds() int64 {
	return unitSeconds[u]
}

// Months returns the length of a calendar unit in months, or 0 for fixed units.
func (u Unit) Months() int64 {
	return unitMonths[u]
}

func (u Unit) String() string {
	return string(u)
}

func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownUnit, string(u))
	}
	return []byte(u), nil
}

func (u *Unit) UnmarshalText(b []byte) error {
	parsed, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Direction selects whether an offset moves forward or backward in time.
type Direction string

const (
	Future Direction = "future"
	Past   Direction = "past"
)

// ParseDirection accepts "future", "from_now", "past" and "ago".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "future", "from_now", "from-now", "later", "+":
		return Future, nil
	case "past", "ago", "before", "-":
		return Past, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownDirection, s)
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	if d == Past {
		return Future
	}
	return Past
}

func (d Direction) String() string {
	return string(d)
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
