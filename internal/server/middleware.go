package server

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request ID assigned by LoggingMiddleware.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack passes through so websocket upgrades work behind the middleware.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// LoggingMiddleware tags each request with an ID, attaches it to the
// context logger and logs the outcome.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := ctxlog.WithAttributes(r.Context(), "request_id", id, "method", r.Method, "path", r.URL.Path)
		r = r.WithContext(ctx)

		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		ctxlog.Logger(ctx).Debug("request", "status", sr.status, "elapsed", time.Since(start))
	})
}
