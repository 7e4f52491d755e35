package easytime

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// strftime layouts used by the fixed formatters.
const (
	DefaultFormat = "%Y-%m-%d %H:%M:%S"
	DateFormat    = "%Y-%m-%d"
	TimeFormat    = "%H:%M:%S"
)

// String renders Time as "YYYY-MM-DD HH:MM:SS".
func (e EasyTime[Z]) String() string {
	return strftime.Format(DefaultFormat, e.Time)
}

// Format renders Time with a strftime layout such as "%d/%m/%Y".
func (e EasyTime[Z]) Format(layout string) string {
	return strftime.Format(layout, e.Time)
}

// StringWithTimezone renders the default format followed by the zone suffix.
func (e EasyTime[Z]) StringWithTimezone() string {
	return e.FormatWithTimezone(DefaultFormat)
}

// FormatWithTimezone renders layout followed by the zone suffix.
func (e EasyTime[Z]) FormatWithTimezone(layout string) string {
	var z Z
	return strftime.Format(layout, e.Time) + " " + z.Suffix(e.Time)
}

// Timestamp returns Time as seconds since the Unix epoch.
func (e EasyTime[Z]) Timestamp() int64 {
	return e.Time.Unix()
}

// Date renders "YYYY-MM-DD".
func (e EasyTime[Z]) Date() string {
	return strftime.Format(DateFormat, e.Time)
}

// TimeOfDay renders "HH:MM:SS".
func (e EasyTime[Z]) TimeOfDay() string {
	return strftime.Format(TimeFormat, e.Time)
}

// DateTime renders "YYYY-MM-DD HH:MM:SS".
func (e EasyTime[Z]) DateTime() string {
	return e.String()
}

// Render formats t in zone z with layout, appending the zone suffix when
// withZone is set. It is the runtime counterpart of FromTime(t).Format for
// callers that pick the zone from configuration.
func Render(t time.Time, z Zone, layout string, withZone bool) string {
	if layout == "" {
		layout = DefaultFormat
	}
	t = t.In(z.Location())
	out := strftime.Format(layout, t)
	if withZone {
		out += " " + z.Suffix(t)
	}
	return out
}
