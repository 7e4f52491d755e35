package easytime

import "time"

// Zone selects the location an EasyTime computes in. Local and UTC are the
// two provided variants. Implementations must be usable as zero values.
type Zone interface {
	// Location is the zone instants are converted into before any arithmetic.
	Location() *time.Location
	// Suffix renders the zone for the "with timezone" formatters.
	Suffix(t time.Time) string
}

// Local computes in the process's local zone.
type Local struct{}

func (Local) Location() *time.Location { return time.Local }

// Suffix returns the numeric offset of t, e.g. "+09:00".
func (Local) Suffix(t time.Time) string { return t.Format("-07:00") }

// UTC computes in Coordinated Universal Time.
type UTC struct{}

func (UTC) Location() *time.Location { return time.UTC }

func (UTC) Suffix(time.Time) string { return "UTC" }

func location[Z Zone]() *time.Location {
	var z Z
	return z.Location()
}

// ZoneFor returns the Zone named by name: "local" or "utc".
func ZoneFor(name string) (Zone, bool) {
	switch name {
	case "", "local":
		return Local{}, true
	case "utc", "UTC":
		return UTC{}, true
	}
	return nil, false
}
