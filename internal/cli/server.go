package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
	"github.com/SmitUplenchwar2687/easytime/internal/server"
)

func newServerCmd(g *globals) *cobra.Command {
	var (
		addr       string
		recordFile string
		utc        bool
		so         storageOptions
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the easytime HTTP API",
		Long: `Starts an HTTP server exposing offsets, formatting and anchors.

Endpoints:
  GET    /                          Server info and current time
  GET    /health                    Health check
  GET    /api/offset?value=&unit=   Offset by calendar or fixed units
  GET    /api/shift?duration=       Offset by an arbitrary duration
  GET    /api/leap/{year}           Leap year check
  GET    /api/format?at=&format=    strftime formatting
  GET    /api/anchors               List anchors
  GET    /api/anchors/{name}        Read an anchor
  PUT    /api/anchors/{name}        Save an anchor
  DELETE /api/anchors/{name}        Remove an anchor
  WS     /ws                        Stream of computed offsets

Offset endpoints also take direction=ago, from=, zone=local|utc, format= and
timezone=true.`,
		Example: `  easytime server
  easytime server --addr :9090 --utc
  easytime server --storage redis --redis-host localhost:6379
  easytime server --record offsets.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := ctxlog.Logger(ctx)

			if !cmd.Flags().Changed("addr") {
				addr = g.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("record") {
				recordFile = g.cfg.Recorder.File
			}

			store, err := so.open(cmd, g)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := server.Options{
				Hub:     server.NewHub(logger),
				Storage: store,
				Zone:    g.zoneName(utc),
				Format:  g.cfg.Format,
				Logger:  logger,
			}
			if recordFile != "" {
				opts.Recorder = recorder.New(nil)
			}
			srv := server.New(addr, g.clock, opts)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				if opts.Recorder != nil {
					logger.Info("exporting records", "count", opts.Recorder.Len(), "file", recordFile)
					if err := opts.Recorder.ExportFile(afero.NewOsFs(), recordFile); err != nil {
						logger.Error("exporting records", "error", err)
					}
				}
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&recordFile, "record", "", "record computed offsets to a JSON file (exported on shutdown)")
	cmd.Flags().BoolVar(&utc, "utc", false, "default to UTC instead of the configured zone")
	so.addFlags(cmd)
	return cmd
}
