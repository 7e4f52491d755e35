package replay

import (
	"slices"
	"time"

	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
)

// Filter selects which records are replayed.
type Filter struct {
	Kinds      []recorder.Kind    // empty = all
	Units      []offset.Unit      // empty = all; shift records have no unit
	Directions []offset.Direction // empty = all
	Zones      []string           // empty = all
	After      time.Time          // only records after this time (zero = no limit)
	Before     time.Time          // only records before this time (zero = no limit)
}

// Match returns true if the record passes the filter.
func (f *Filter) Match(r recorder.OffsetRecord) bool {
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, r.Kind) {
		return false
	}
	if len(f.Units) > 0 && !slices.Contains(f.Units, r.Unit) {
		return false
	}
	if len(f.Directions) > 0 && !slices.Contains(f.Directions, r.Direction) {
		return false
	}
	if len(f.Zones) > 0 && !slices.Contains(f.Zones, r.Zone) {
		return false
	}
	if !f.After.IsZero() && !r.Timestamp.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !r.Timestamp.Before(f.Before) {
		return false
	}
	return true
}
