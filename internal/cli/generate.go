package cli

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/easytime/internal/config"
	"github.com/SmitUplenchwar2687/easytime/internal/generate"
	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
)

func newGenerateCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample request files and config",
		Long: `Generates sample data for testing and experimentation.

Use "generate requests" to create a recorded offset file for replay.
Use "generate config" to create an example config file.`,
	}
	cmd.AddCommand(newGenerateRequestsCmd(g), newGenerateConfigCmd())
	return cmd
}

func newGenerateRequestsCmd(g *globals) *cobra.Command {
	var (
		output string
		units  []string
		utc    bool
		opts   = generate.DefaultOptions()
		fs     = afero.NewOsFs()
	)

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Generate a sample offset request file",
		Long: `Creates a file of computed offsets in the format written by
"easytime server --record", ready for "easytime replay".

Patterns:
  steady     Evenly distributed requests
  burst      Concentrated bursts with quiet periods
  month-end  One request on the last day of each month`,
		Example: `  easytime generate requests --output offsets.json --count 100
  easytime generate requests --pattern month-end --units months,years --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, u := range units {
				unit, err := offset.ParseUnit(u)
				if err != nil {
					return err
				}
				opts.Units = append(opts.Units, unit)
			}
			opts.Zone = g.zoneName(utc)
			if opts.Start.IsZero() {
				opts.Start = g.clock.Now().Truncate(time.Second)
			}
			if opts.Seed == 0 {
				opts.Seed = time.Now().UnixNano()
			}

			records, err := generate.Records(opts)
			if err != nil {
				return err
			}
			rec := recorder.New(nil)
			for _, r := range records {
				if _, err := rec.Record(r); err != nil {
					return err
				}
			}
			if err := rec.ExportFile(fs, output); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d offset records to %s\n", rec.Len(), output)
			fmt.Fprintf(out, "  Pattern:  %s\n", opts.Pattern)
			fmt.Fprintf(out, "  Zone:     %s\n", opts.Zone)
			fmt.Fprintf(out, "  Seed:     %d\n", opts.Seed)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "offsets.json", "output file path")
	cmd.Flags().IntVar(&opts.Count, "count", opts.Count, "number of records to generate")
	cmd.Flags().DurationVar(&opts.Duration, "duration", opts.Duration, "time span for generated requests")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", opts.Pattern, "request pattern (steady, burst, month-end)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (default random)")
	cmd.Flags().Int64Var(&opts.MaxMagnitude, "max-magnitude", opts.MaxMagnitude, "largest offset value")
	cmd.Flags().Float64Var(&opts.ShiftRatio, "shift-ratio", opts.ShiftRatio, "fraction of requests that are duration shifts")
	cmd.Flags().StringSliceVar(&units, "units", nil, "units to draw from (default all)")
	cmd.Flags().BoolVar(&utc, "utc", false, "generate in UTC instead of the configured zone")
	return cmd
}

func newGenerateConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate an example config file",
		Long:  "Writes the default configuration as YAML for .yaml/.yml paths and JSON otherwise.",
		Example: `  easytime generate config --output easytime.json
  easytime generate config --output easytime.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteExample(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "easytime.json", "output file path")
	return cmd
}
