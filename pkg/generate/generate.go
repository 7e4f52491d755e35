package generate

import (
	internalgenerate "github.com/SmitUplenchwar2687/easytime/internal/generate"
	"github.com/SmitUplenchwar2687/easytime/pkg/recorder"
)

const (
	// PatternSteady spreads requests evenly over the duration.
	PatternSteady = internalgenerate.PatternSteady
	// PatternBurst clusters requests into short bursts.
	PatternBurst = internalgenerate.PatternBurst
	// PatternMonthEnd serves every request on the last day of a month.
	PatternMonthEnd = internalgenerate.PatternMonthEnd
)

// Options controls how a workload is generated.
type Options = internalgenerate.Options

// DefaultOptions returns defaults aligned with the easytime CLI.
func DefaultOptions() Options {
	return internalgenerate.DefaultOptions()
}

// Records generates synthetic offset records, each already evaluated.
// A nil opts uses DefaultOptions.
func Records(opts *Options) ([]recorder.OffsetRecord, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	return internalgenerate.Records(o)
}
