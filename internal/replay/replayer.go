// Package replay re-runs recorded offsets against a virtual clock and
// reports any whose result has changed.
package replay

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
)

// Replayer recomputes recorded offsets with the clock set to each record's
// timestamp.
type Replayer struct {
	records []recorder.OffsetRecord
	clock   *clock.VirtualClock
	filter  Filter
}

// Result captures the outcome of replaying a single record.
type Result struct {
	Record   recorder.OffsetRecord `json:"record"`
	Got      *time.Time            `json:"got,omitempty"`
	GotError string                `json:"got_error,omitempty"`
	Match    bool                  `json:"match"`
	Time     time.Time             `json:"time"` // virtual time of the replay
}

// Summary aggregates replay statistics.
type Summary struct {
	TotalRecords int                    `json:"total_records"`
	Filtered     int                    `json:"filtered"`
	Replayed     int                    `json:"replayed"`
	Matched      int                    `json:"matched"`
	Mismatched   int                    `json:"mismatched"`
	Duration     time.Duration          `json:"duration"` // virtual time span
	PerUnit      map[string]UnitSummary `json:"per_unit"`
	mismatches   errors.M
}

// UnitSummary has per-unit stats. Shift records are counted under "shift".
type UnitSummary struct {
	Matched    int `json:"matched"`
	Mismatched int `json:"mismatched"`
}

// Err returns every mismatch as a single error, or nil if all matched.
func (s *Summary) Err() error {
	return s.mismatches.Err()
}

// New creates a replayer driving vc.
func New(vc *clock.VirtualClock, filter Filter) *Replayer {
	return &Replayer{clock: vc, filter: filter}
}

// Load reads records from a JSON reader.
func (r *Replayer) Load(reader io.Reader) error {
	records, err := recorder.LoadJSON(reader)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	r.records = records
	return nil
}

// LoadRecords sets the records directly.
func (r *Replayer) LoadRecords(records []recorder.OffsetRecord) {
	r.records = make([]recorder.OffsetRecord, len(records))
	copy(r.records, records)
}

// Run replays the loaded records in timestamp order. cb, if non-nil, is
// called for each replayed record.
func (r *Replayer) Run(ctx context.Context, cb func(Result)) (*Summary, error) {
	if len(r.records) == 0 {
		return nil, fmt.Errorf("no records loaded")
	}

	sorted := make([]recorder.OffsetRecord, len(r.records))
	copy(sorted, r.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var filtered []recorder.OffsetRecord
	for _, rec := range sorted {
		if r.filter.Match(rec) {
			filtered = append(filtered, rec)
		}
	}

	summary := &Summary{
		TotalRecords: len(sorted),
		Filtered:     len(filtered),
		PerUnit:      make(map[string]UnitSummary),
	}
	if len(filtered) == 0 {
		return summary, nil
	}

	logger := ctxlog.Logger(ctx)
	for _, rec := range filtered {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		r.clock.Reset(rec.Timestamp)
		res := r.replayOne(rec)

		summary.Replayed++
		key := string(rec.Unit)
		if rec.Kind == recorder.KindShift {
			key = string(recorder.KindShift)
		}
		us := summary.PerUnit[key]
		if res.Match {
			summary.Matched++
			us.Matched++
		} else {
			summary.Mismatched++
			us.Mismatched++
			summary.mismatches.Append(mismatchError(res))
			logger.Warn("replay mismatch", "id", rec.ID, "kind", rec.Kind, "unit", rec.Unit,
				"want", rec.Result, "want_error", rec.Error, "got", res.Got, "got_error", res.GotError)
		}
		summary.PerUnit[key] = us

		if cb != nil {
			cb(res)
		}
	}

	summary.Duration = filtered[len(filtered)-1].Timestamp.Sub(filtered[0].Timestamp)
	logger.Info("replay finished", "replayed", summary.Replayed, "matched", summary.Matched, "mismatched", summary.Mismatched)
	return summary, nil
}

func (r *Replayer) replayOne(rec recorder.OffsetRecord) Result {
	again := rec
	again.Timestamp = r.clock.Now()
	got, err := again.Evaluate()

	res := Result{Record: rec, Time: r.clock.Now()}
	if err != nil {
		res.GotError = err.Error()
		res.Match = rec.Error != ""
		return res
	}
	res.Got = &got
	res.Match = rec.Error == "" && rec.Result != nil && got.Equal(*rec.Result)
	return res
}

func mismatchError(res Result) error {
	rec := res.Record
	want := rec.Error
	if want == "" && rec.Result != nil {
		want = rec.Result.Format(time.RFC3339Nano)
	}
	got := res.GotError
	if res.Got != nil {
		got = res.Got.Format(time.RFC3339Nano)
	}
	return fmt.Errorf("record %s: recorded %q, replayed %q", rec.ID, want, got)
}
