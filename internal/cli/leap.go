package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/easytime/internal/offset"
)

func newLeapCmd(_ *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "leap <year>...",
		Short:   "Report whether years are leap years",
		Example: `  easytime leap 1900 2000 2024`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			years := make([]int, len(args))
			for i, a := range args {
				y, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid year %q", a)
				}
				years[i] = y
			}
			out := cmd.OutOrStdout()
			for _, y := range years {
				if offset.IsLeapYear(y) {
					fmt.Fprintf(out, "%d: leap year (February has %d days)\n", y, offset.DaysInMonth(y, time.February))
				} else {
					fmt.Fprintf(out, "%d: common year\n", y)
				}
			}
			return nil
		},
	}
}
