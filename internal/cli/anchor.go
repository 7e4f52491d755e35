package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/storage"
	"github.com/SmitUplenchwar2687/easytime/pkg/easytime"
)

func newAnchorCmd(g *globals) *cobra.Command {
	var so storageOptions

	cmd := &cobra.Command{
		Use:   "anchor",
		Short: "Manage named reference instants",
		Long: `Anchors are named instants that offsets can start from with
--from anchor:<name>. Use the redis backend to share anchors between runs;
the memory backend only lives as long as the process.`,
	}
	so.addFlagsPersistent(cmd)

	var ttl string
	setCmd := &cobra.Command{
		Use:   "set <name> [instant]",
		Short: "Save an anchor (default: now)",
		Example: `  easytime anchor set release 2024-03-01T12:00:00Z --storage redis
  easytime anchor set sprint-start --ttl 336h --storage redis`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := so.open(cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()

			zone, _ := easytime.ZoneFor(g.cfg.Zone)
			at := g.clock.Now().In(zone.Location())
			if len(args) == 2 {
				resolved, _, err := storage.Resolve(cmd.Context(), s, args[1], zone.Location())
				if err != nil {
					return err
				}
				at = resolved
			}
			var d time.Duration
			if ttl != "" {
				if d, err = offset.ParseDuration(ttl); err != nil {
					return fmt.Errorf("invalid --ttl %q: %w", ttl, err)
				}
			}
			if err := s.Set(cmd.Context(), args[0], at, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], at.Format(time.RFC3339Nano))
			return nil
		},
	}
	setCmd.Flags().StringVar(&ttl, "ttl", "", "expire the anchor after this duration")

	getCmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print an anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := so.open(cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()
			at, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), at.Format(time.RFC3339Nano))
			return nil
		},
	}

	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List anchors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := so.open(cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()
			anchors, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if listJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(anchors)
			}
			for _, a := range anchors {
				fmt.Fprintf(out, "%-20s %s\n", a.Name, a.At.Format(time.RFC3339Nano))
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print anchors as JSON")

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove an anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := so.open(cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(setCmd, getCmd, listCmd, deleteCmd)
	return cmd
}
