package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
	"github.com/SmitUplenchwar2687/easytime/internal/replay"
)

func newReplayCmd(g *globals) *cobra.Command {
	var (
		units      []string
		kinds      []string
		directions []string
		zones      []string
		after      string
		before     string
		outputJSON bool
		fs         = afero.NewOsFs()
	)

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Recompute recorded offsets and report any that changed",
		Long: `Replays a file written by "easytime server --record" or
"easytime generate requests". Each record is recomputed with the clock set to
the moment it was originally served, and the result is compared with the one
recorded. The command fails if any record no longer matches.`,
		Example: `  easytime replay offsets.json
  easytime replay offsets.json --units months,years --direction past
  easytime replay offsets.json --after 2024-01-01T00:00:00Z --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(units, kinds, directions, zones, after, before)
			if err != nil {
				return err
			}
			records, err := recorder.LoadFile(fs, args[0])
			if err != nil {
				return err
			}

			vc := clock.NewVirtualClock(g.clock.Now())
			r := replay.New(vc, filter)
			r.LoadRecords(records)

			out := cmd.OutOrStdout()
			var results []replay.Result
			summary, err := r.Run(cmd.Context(), func(res replay.Result) {
				if outputJSON {
					results = append(results, res)
					return
				}
				status := "OK  "
				if !res.Match {
					status = "DIFF"
				}
				fmt.Fprintf(out, "  [%s] %s %s\n", status, res.Record.Timestamp.Format(time.RFC3339), describe(res.Record))
			})
			if err != nil {
				return err
			}

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{"results": results, "summary": summary}); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "--- Replay Summary ---")
				fmt.Fprintf(out, "  Total records:  %d\n", summary.TotalRecords)
				fmt.Fprintf(out, "  Filtered:       %d\n", summary.Filtered)
				fmt.Fprintf(out, "  Matched:        %d\n", summary.Matched)
				fmt.Fprintf(out, "  Mismatched:     %d\n", summary.Mismatched)
				fmt.Fprintf(out, "  Time span:      %s\n", summary.Duration)
			}
			if err := summary.Err(); err != nil {
				return fmt.Errorf("%d of %d records changed: %w", summary.Mismatched, summary.Replayed, err)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&units, "units", nil, "only replay these units (comma-separated)")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "only replay these kinds (offset, shift)")
	cmd.Flags().StringSliceVar(&directions, "direction", nil, "only replay these directions (future, past)")
	cmd.Flags().StringSliceVar(&zones, "zones", nil, "only replay these zones (local, utc)")
	cmd.Flags().StringVar(&after, "after", "", "only replay records served after this RFC 3339 instant")
	cmd.Flags().StringVar(&before, "before", "", "only replay records served before this RFC 3339 instant")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output results as JSON")
	return cmd
}

func buildFilter(units, kinds, directions, zones []string, after, before string) (replay.Filter, error) {
	var f replay.Filter
	for _, u := range units {
		unit, err := offset.ParseUnit(u)
		if err != nil {
			return f, err
		}
		f.Units = append(f.Units, unit)
	}
	for _, k := range kinds {
		switch kind := recorder.Kind(k); kind {
		case recorder.KindOffset, recorder.KindShift:
			f.Kinds = append(f.Kinds, kind)
		default:
			return f, fmt.Errorf("unknown kind %q, must be offset or shift", k)
		}
	}
	for _, d := range directions {
		dir, err := offset.ParseDirection(d)
		if err != nil {
			return f, err
		}
		f.Directions = append(f.Directions, dir)
	}
	f.Zones = zones
	var err error
	if after != "" {
		if f.After, err = time.Parse(time.RFC3339, after); err != nil {
			return f, fmt.Errorf("invalid --after: %w", err)
		}
	}
	if before != "" {
		if f.Before, err = time.Parse(time.RFC3339, before); err != nil {
			return f, fmt.Errorf("invalid --before: %w", err)
		}
	}
	return f, nil
}

func describe(r recorder.OffsetRecord) string {
	dir := "from"
	if r.Direction == offset.Past {
		dir = "before"
	}
	what := r.Duration
	if r.Kind != recorder.KindShift {
		what = fmt.Sprintf("%d %s", r.Magnitude, r.Unit)
	}
	return fmt.Sprintf("%s %s %s (%s)", what, dir, r.Reference().Format(time.RFC3339), r.Zone)
}
