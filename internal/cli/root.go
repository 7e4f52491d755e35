// Package cli implements the easytime command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
	"github.com/SmitUplenchwar2687/easytime/internal/config"
)

// globals holds state shared by every subcommand.
type globals struct {
	configPath string
	logFormat  string
	logLevel   string

	cfg   config.Config
	clock clock.Clock
}

// NewRootCmd creates the root easytime command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(clock.NewRealClock())
}

func newRootCmd(clk clock.Clock) *cobra.Command {
	g := &globals{clock: clk, cfg: config.Default()}

	root := &cobra.Command{
		Use:   "easytime",
		Short: "Readable date and time arithmetic",
		Long: `easytime computes instants such as "3 months from now" or "2 centuries ago".

Month and longer offsets keep the time of day and clamp the day to the end of
shorter months, so one month after Jan 31 is the last day of February.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (JSON or YAML)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format (text, json)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newOffsetCmd(g),
		newShiftCmd(g),
		newLeapCmd(g),
		newNowCmd(g),
		newAnchorCmd(g),
		newServerCmd(g),
		newReplayCmd(g),
		newGenerateCmd(g),
	)
	return root
}

// setup installs the logger and loads configuration: defaults, then the
// config file, then EASYTIME_* variables.
func (g *globals) setup(cmd *cobra.Command) error {
	logger, err := newLogger(cmd.ErrOrStderr(), g.logFormat, g.logLevel)
	if err != nil {
		return err
	}
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))

	cfg := config.Default()
	if g.configPath != "" {
		if cfg, err = config.LoadFile(g.configPath); err != nil {
			return err
		}
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	g.cfg = cfg
	logger.Debug("config loaded", "path", g.configPath, "zone", cfg.Zone, "storage", cfg.Storage.Backend)
	return nil
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q, must be text or json", format)
	}
}

// zoneName returns "utc" when --utc is set, else the configured zone.
func (g *globals) zoneName(utc bool) string {
	if utc {
		return config.ZoneUTC
	}
	return g.cfg.Zone
}

// formatOr returns layout, or the configured format when layout is empty.
func (g *globals) formatOr(layout string) string {
	if layout == "" {
		return g.cfg.Format
	}
	return layout
}
