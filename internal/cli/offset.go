package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
	"github.com/SmitUplenchwar2687/easytime/internal/storage"
	"github.com/SmitUplenchwar2687/easytime/pkg/easytime"
)

// offsetOptions are the flags shared by offset and shift.
type offsetOptions struct {
	ago       bool
	from      string
	utc       bool
	format    string
	timezone  bool
	timestamp bool
	json      bool
	storage   storageOptions
}

func (o *offsetOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.ago, "ago", false, "move backwards in time")
	cmd.Flags().StringVar(&o.from, "from", "", "reference instant: RFC 3339, YYYY-MM-DD or anchor:<name> (default now)")
	cmd.Flags().BoolVar(&o.utc, "utc", false, "compute in UTC instead of the configured zone")
	cmd.Flags().StringVar(&o.format, "format", "", "strftime layout for the result")
	cmd.Flags().BoolVar(&o.timezone, "timezone", false, "append the zone to the result")
	cmd.Flags().BoolVar(&o.timestamp, "timestamp", false, "print the result as Unix seconds")
	cmd.Flags().BoolVar(&o.json, "json", false, "print the full record as JSON")
	o.storage.addFlags(cmd)
}

func (o *offsetOptions) direction() offset.Direction {
	if o.ago {
		return offset.Past
	}
	return offset.Future
}

func newOffsetCmd(g *globals) *cobra.Command {
	var opts offsetOptions

	cmd := &cobra.Command{
		Use:   "offset <value> <unit>",
		Short: "Compute an instant a number of units from now or from a reference",
		Long: `Computes the instant <value> <unit> after (or with --ago, before) the
reference instant.

Units: seconds, minutes, hours, days, months, years, decades, centuries,
millennia. Seconds to days are exact elapsed time; months and longer move
the calendar and clamp the day to the end of shorter months.

A negative value moves the other way. Put flags first and separate the value
with "--" so it is not read as a flag: easytime offset --utc -- -3 days.`,
		Example: `  easytime offset 3 days
  easytime offset 1 month --from 2024-01-31
  easytime offset 2 centuries --ago --utc --format "%d %B %Y"
  easytime offset 90 days --from anchor:release --json
  easytime offset --from 2024-03-01 -- -3 days`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mag, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: must be an integer", args[0])
			}
			unit, err := offset.ParseUnit(args[1])
			if err != nil {
				return err
			}
			rec := recorder.OffsetRecord{
				Kind:      recorder.KindOffset,
				Magnitude: mag,
				Unit:      unit,
			}
			return runOffset(cmd, g, &opts, rec)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func newShiftCmd(g *globals) *cobra.Command {
	var opts offsetOptions

	cmd := &cobra.Command{
		Use:   "shift <duration>",
		Short: "Move an instant by an arbitrary duration",
		Long: `Adds (or with --ago, subtracts) an exact duration. The duration is a Go
duration such as 370h or 1h30m, or an ISO 8601 duration such as P15DT10H.
Negative durations follow "--", as in easytime shift --utc -- -PT90M.`,
		Example: `  easytime shift 90m
  easytime shift P15DT10H --ago --from 2024-03-01T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := offset.ParseDuration(args[0]); err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[0], err)
			}
			rec := recorder.OffsetRecord{
				Kind:     recorder.KindShift,
				Duration: args[0],
			}
			return runOffset(cmd, g, &opts, rec)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runOffset(cmd *cobra.Command, g *globals, opts *offsetOptions, rec recorder.OffsetRecord) error {
	zoneName := g.zoneName(opts.utc)
	zone, _ := easytime.ZoneFor(zoneName)

	rec.Timestamp = g.clock.Now()
	rec.Zone = zoneName
	rec.Direction = opts.direction()

	from, err := resolveFrom(cmd, g, &opts.storage, opts.from, zone)
	if err != nil {
		return err
	}
	if from != nil {
		rec.From = from
	}

	result, err := rec.Evaluate()
	rec.Complete(result, err)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case opts.timestamp:
		fmt.Fprintln(out, result.Unix())
	default:
		fmt.Fprintln(out, easytime.Render(result, zone, g.formatOr(opts.format), opts.timezone))
	}
	return nil
}

// resolveFrom parses --from, opening the anchor store only when needed.
func resolveFrom(cmd *cobra.Command, g *globals, so *storageOptions, from string, zone easytime.Zone) (*time.Time, error) {
	var store storage.Storage
	if strings.HasPrefix(from, storage.AnchorPrefix) {
		s, err := so.open(cmd, g)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		store = s
	}
	at, ok, err := storage.Resolve(cmd.Context(), store, from, zone.Location())
	if err != nil || !ok {
		return nil, err
	}
	return &at, nil
}
