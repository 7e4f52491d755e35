package offset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/datetime"
)

// IsLeapYear reports whether year is a Gregorian leap year: divisible by 4
// and either not divisible by 100 or divisible by 400.
func IsLeapYear(year int) bool {
	return datetime.IsLeap(year)
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	return int(datetime.DaysInMonth(year, datetime.Month(month)))
}

// ParseDuration parses either a Go duration ("36h15m") or an ISO-8601
// duration ("P15DT10H", "-PT90M"). ISO-8601 years and months are treated as
// fixed lengths of 365 days and a twelfth of that. ISO-8601 durations longer
// than time.Duration can hold fail with ErrOverflow.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "P") || strings.HasPrefix(s, "-P") {
		d, err := datetime.ParseISO8601Period(s)
		if err != nil {
			return 0, err
		}
		// The parser converts each component from float64 without a range
		// check, so an oversized total wraps instead of failing.
		if math.Abs(isoNanoseconds(s)) >= math.MaxInt64 {
			return 0, overflowf("duration %q exceeds %s", s, time.Duration(math.MaxInt64))
		}
		return d, nil
	}
	return time.ParseDuration(s)
}

// isoNanoseconds sums the components of an ISO-8601 duration that
// datetime.ParseISO8601Duration has already accepted, in float64 so the total
// cannot wrap.
func isoNanoseconds(s string) float64 {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "P")
	const day = float64(24 * time.Hour)
	var total float64
	inTime := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == 'T' {
			inTime = true
			start = i + 1
			continue
		}
		if (c >= '0' && c <= '9') || c == '.' {
			continue
		}
		n, _ := strconv.ParseFloat(s[start:i], 64)
		start = i + 1
		switch {
		case c == 'Y':
			total += n * 365 * day
		case c == 'M' && !inTime:
			total += n * 365 * day / 12
		case c == 'W':
			total += n * 7 * day
		case c == 'D':
			total += n * day
		case c == 'H':
			total += n * float64(time.Hour)
		case c == 'M':
			total += n * float64(time.Minute)
		case c == 'S':
			total += n * float64(time.Second)
		}
	}
	return total
}
