package replay

import (
	internalreplay "github.com/SmitUplenchwar2687/easytime/internal/replay"
	"github.com/SmitUplenchwar2687/easytime/pkg/clock"
)

// Filter selects which records are replayed.
type Filter = internalreplay.Filter

// Replayer recomputes recorded offsets on a virtual clock.
type Replayer = internalreplay.Replayer

// Result captures the outcome of replaying a single record.
type Result = internalreplay.Result

// Summary aggregates replay statistics.
type Summary = internalreplay.Summary

// UnitSummary holds per-unit replay stats.
type UnitSummary = internalreplay.UnitSummary

// New creates a new replayer driving vc.
func New(vc *clock.VirtualClock, filter *Filter) *Replayer {
	var f Filter
	if filter != nil {
		f = *filter
	}
	return internalreplay.New(vc, f)
}
