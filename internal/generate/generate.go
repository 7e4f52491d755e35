// Package generate builds synthetic offset workloads for exercising replay.
package generate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
)

const (
	// PatternSteady spreads requests evenly over the duration.
	PatternSteady = "steady"
	// PatternBurst clusters requests into short bursts with quiet gaps.
	PatternBurst = "burst"
	// PatternMonthEnd serves every request on the last day of a month,
	// one month apart, so calendar offsets hit day clamping.
	PatternMonthEnd = "month-end"
)

// DefaultUnits is the unit pool used when Options.Units is empty.
var DefaultUnits = []offset.Unit{
	offset.Second, offset.Minute, offset.Hour, offset.Day,
	offset.Month, offset.Year, offset.Decade, offset.Century, offset.Millennium,
}

// DefaultShifts is the duration pool used for shift records.
var DefaultShifts = []string{"45m", "90m", "36h15m", "PT15M", "P1DT12H", "P15DT10H"}

// Options controls how a workload is generated.
type Options struct {
	Count        int
	Duration     time.Duration // span of request timestamps, unused by month-end
	Pattern      string
	Start        time.Time
	Seed         int64
	Zone         string
	Units        []offset.Unit
	MaxMagnitude int64
	ShiftRatio   float64 // fraction of records that are duration shifts
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		Count:        100,
		Duration:     24 * time.Hour,
		Pattern:      PatternSteady,
		Zone:         "utc",
		MaxMagnitude: 12,
		ShiftRatio:   0.1,
	}
}

// Records generates opts.Count offset records, each evaluated and completed
// with its result or error. IDs are left empty.
func Records(opts Options) ([]recorder.OffsetRecord, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", opts.Count)
	}
	if opts.Duration <= 0 && opts.Pattern != PatternMonthEnd {
		return nil, fmt.Errorf("duration must be positive, got %s", opts.Duration)
	}
	if opts.MaxMagnitude <= 0 {
		return nil, fmt.Errorf("max magnitude must be positive, got %d", opts.MaxMagnitude)
	}
	if opts.ShiftRatio < 0 || opts.ShiftRatio > 1 {
		return nil, fmt.Errorf("shift ratio must be between 0 and 1, got %v", opts.ShiftRatio)
	}
	for _, u := range opts.Units {
		if !u.Valid() {
			return nil, fmt.Errorf("%w %q", offset.ErrUnknownUnit, u)
		}
	}

	if opts.Pattern == "" {
		opts.Pattern = PatternSteady
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().Truncate(time.Second)
	}
	if opts.Zone == "" {
		opts.Zone = "utc"
	}
	if len(opts.Units) == 0 {
		opts.Units = DefaultUnits
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	var stamps []time.Time
	switch opts.Pattern {
	case PatternBurst:
		stamps = burst(rng, opts.Start, opts.Count, opts.Duration)
	case PatternMonthEnd:
		stamps = monthEnd(opts.Start.In(recorder.Location(opts.Zone)), opts.Count)
	default: // steady and unknown patterns
		stamps = steady(opts.Start, opts.Count, opts.Duration)
	}

	records := make([]recorder.OffsetRecord, len(stamps))
	for i, ts := range stamps {
		rec := recorder.OffsetRecord{
			Timestamp: ts,
			Zone:      opts.Zone,
			Direction: offset.Future,
		}
		if rng.Intn(2) == 0 {
			rec.Direction = offset.Past
		}
		if rng.Float64() < opts.ShiftRatio {
			rec.Kind = recorder.KindShift
			rec.Duration = DefaultShifts[rng.Intn(len(DefaultShifts))]
		} else {
			rec.Kind = recorder.KindOffset
			rec.Unit = opts.Units[rng.Intn(len(opts.Units))]
			rec.Magnitude = 1 + rng.Int63n(opts.MaxMagnitude)
		}
		rec.Complete(rec.Evaluate())
		records[i] = rec
	}
	return records, nil
}

func steady(start time.Time, count int, dur time.Duration) []time.Time {
	interval := dur / time.Duration(count)
	stamps := make([]time.Time, count)
	for i := range stamps {
		stamps[i] = start.Add(time.Duration(i) * interval)
	}
	return stamps
}

func burst(rng *rand.Rand, start time.Time, count int, dur time.Duration) []time.Time {
	stamps := make([]time.Time, 0, count)
	numBursts := 4
	burstSize := count / numBursts
	burstGap := dur / time.Duration(numBursts)

	for b := 0; b < numBursts; b++ {
		burstStart := start.Add(time.Duration(b) * burstGap)
		for i := 0; i < burstSize; i++ {
			stamps = append(stamps, burstStart.Add(time.Duration(rng.Intn(1000))*time.Millisecond))
		}
	}
	for len(stamps) < count {
		stamps = append(stamps, start.Add(time.Duration(rng.Int63n(int64(dur)))))
	}
	return stamps
}

// monthEnd returns the last day of count consecutive months starting with
// start's month, each at start's time of day.
func monthEnd(start time.Time, count int) []time.Time {
	stamps := make([]time.Time, count)
	y, m, _ := start.Date()
	h, mi, s := start.Clock()
	for i := range stamps {
		// Day 0 of the following month is the last day of this one.
		stamps[i] = time.Date(y, m+time.Month(i)+1, 0, h, mi, s, 0, start.Location())
	}
	return stamps
}
