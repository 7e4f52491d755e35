package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
	"github.com/SmitUplenchwar2687/easytime/internal/config"
	"github.com/SmitUplenchwar2687/easytime/pkg/easytime"
)

type nowOptions struct {
	utc       bool
	format    string
	timezone  bool
	timestamp bool
	date      bool
	time      bool
}

func newNowCmd(g *globals) *cobra.Command {
	var opts nowOptions

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the current time",
		Example: `  easytime now
  easytime now --utc --timezone
  easytime now --format "%A %d %B %Y"
  easytime now --timestamp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var line string
			if g.zoneName(opts.utc) == config.ZoneUTC {
				line = renderNow[easytime.UTC](g.clock, g.formatOr(opts.format), opts)
			} else {
				line = renderNow[easytime.Local](g.clock, g.formatOr(opts.format), opts)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.utc, "utc", false, "print UTC instead of the configured zone")
	cmd.Flags().StringVar(&opts.format, "format", "", "strftime layout")
	cmd.Flags().BoolVar(&opts.timezone, "timezone", false, "append the zone")
	cmd.Flags().BoolVar(&opts.timestamp, "timestamp", false, "print Unix seconds")
	cmd.Flags().BoolVar(&opts.date, "date", false, "print only the date")
	cmd.Flags().BoolVar(&opts.time, "time", false, "print only the time of day")
	cmd.MarkFlagsMutuallyExclusive("timestamp", "date", "time")
	return cmd
}

func renderNow[Z easytime.Zone](clk clock.Clock, layout string, opts nowOptions) string {
	et := easytime.NewWithClock[Z](clk, 0)
	switch {
	case opts.timestamp:
		return strconv.FormatInt(et.Timestamp(), 10)
	case opts.date:
		return et.Date()
	case opts.time:
		return et.TimeOfDay()
	case opts.timezone:
		return et.FormatWithTimezone(layout)
	default:
		return et.Format(layout)
	}
}
