package server

import (
	"log/slog"
	"net/http"

	internalserver "github.com/SmitUplenchwar2687/easytime/internal/server"
	"github.com/SmitUplenchwar2687/easytime/pkg/clock"
)

// Server is the easytime HTTP server.
type Server = internalserver.Server

// Options configures optional server features.
type Options = internalserver.Options

// Hub manages WebSocket clients and broadcasts offset events.
type Hub = internalserver.Hub

// OffsetResponse is the body returned by the offset endpoints.
type OffsetResponse = internalserver.OffsetResponse

// New creates a new easytime server.
func New(addr string, clk clock.Clock, opts ...Options) *Server {
	return internalserver.New(addr, clk, opts...)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *slog.Logger) *Hub {
	return internalserver.NewHub(logger)
}

// LoggingMiddleware tags requests with an ID and logs them.
func LoggingMiddleware(next http.Handler) http.Handler {
	return internalserver.LoggingMiddleware(next)
}
