// Package server exposes easytime offsets, formatting and anchors over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"cloudeng.io/logging/ctxlog"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
	"github.com/SmitUplenchwar2687/easytime/internal/config"
	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
	"github.com/SmitUplenchwar2687/easytime/internal/storage"
)

// Options configures optional server features.
type Options struct {
	// Hub, if set, receives an event for every computed offset and serves /ws.
	Hub *Hub
	// Recorder, if set, captures every computed offset.
	Recorder *recorder.Recorder
	// Storage holds anchors. When nil the server keeps them in memory.
	Storage storage.Storage
	// Zone is the default zone for requests without ?zone=.
	Zone string
	// Format is the default strftime layout.
	Format string
	// Logger receives request and server logs.
	Logger *slog.Logger
}

// Server is the easytime HTTP server.
type Server struct {
	httpServer *http.Server
	clock      clock.Clock
	mux        *http.ServeMux
	opts       Options
	logger     *slog.Logger
	ownStorage bool
}

// New creates a new easytime server. Only the first Options value is used.
func New(addr string, clk clock.Clock, opts ...Options) *Server {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Zone == "" {
		o.Zone = config.ZoneLocal
	}
	if o.Format == "" {
		o.Format = config.DefaultFormat
	}
	logger := o.Logger
	if logger == nil {
		logger = ctxlog.Logger(context.Background())
	}

	s := &Server{
		clock:  clk,
		mux:    http.NewServeMux(),
		logger: logger,
	}
	if o.Storage == nil {
		// Zero config cannot fail.
		o.Storage, _ = storage.NewMemoryStorage(&storage.MemoryConfig{Clock: clk})
		s.ownStorage = true
	}
	s.opts = o
	s.routes()

	baseCtx := ctxlog.WithLogger(context.Background(), logger)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           LoggingMiddleware(s.mux),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/offset", s.handleOffset)
	s.mux.HandleFunc("GET /api/shift", s.handleShift)
	s.mux.HandleFunc("GET /api/leap/{year}", s.handleLeap)
	s.mux.HandleFunc("GET /api/format", s.handleFormat)
	s.mux.HandleFunc("GET /api/anchors", s.handleListAnchors)
	s.mux.HandleFunc("GET /api/anchors/{name}", s.handleGetAnchor)
	s.mux.HandleFunc("PUT /api/anchors/{name}", s.handlePutAnchor)
	s.mux.HandleFunc("DELETE /api/anchors/{name}", s.handleDeleteAnchor)
	if s.opts.Hub != nil {
		s.mux.HandleFunc("GET /ws", s.opts.Hub.HandleWebSocket)
	}
}

// Handler returns the server's root handler, including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "easytime",
		"status":  "running",
		"zone":    s.opts.Zone,
		"time":    s.clock.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// inputError marks an error caused by the request rather than the server.
type inputError struct{ err error }

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return inputError{err: err}
}

// statusFor maps domain errors to HTTP status codes. Errors that are not
// known to come from the request, such as a lost Redis connection, are 500.
func statusFor(err error) int {
	var in inputError
	switch {
	case errors.Is(err, offset.ErrOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.As(err, &in),
		errors.Is(err, offset.ErrUnknownUnit),
		errors.Is(err, offset.ErrUnknownDirection),
		errors.Is(err, offset.ErrUnitKind),
		errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, storage.ErrInvalidReference):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.StartOnListener(ln)
}

// StartOnListener begins serving on the provided listener.
// Useful for tests that need to pick an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	s.logger.Info("easytime server listening", "addr", ln.Addr().String(), "zone", s.opts.Zone)
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server and closes the anchor store if
// the server created it.
func (s *Server) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.httpServer.Shutdown(ctx)
	if s.ownStorage {
		s.opts.Storage.Close()
	}
	return err
}
