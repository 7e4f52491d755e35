package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cloudeng.io/logging/ctxlog"

	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/storage"
)

// AnchorRequest is the body of PUT /api/anchors/{name}.
type AnchorRequest struct {
	// At is an RFC 3339 instant, a date, or "anchor:<name>". Empty means now.
	At string `json:"at"`
	// TTL is a Go or ISO 8601 duration. Empty keeps the anchor until deleted.
	TTL string `json:"ttl,omitempty"`
}

func (s *Server) handleListAnchors(w http.ResponseWriter, r *http.Request) {
	anchors, err := s.opts.Storage.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, anchors)
}

func (s *Server) handleGetAnchor(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	at, err := s.opts.Storage.Get(r.Context(), name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, storage.Anchor{Name: name, At: at})
}

func (s *Server) handlePutAnchor(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := storage.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AnchorRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
			return
		}
	}

	rz, err := s.zoneParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	at, ok, err := storage.Resolve(r.Context(), s.opts.Storage, req.At, rz.zone.Location())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if !ok {
		at = s.clock.Now().In(rz.zone.Location())
	}

	var ttl time.Duration
	if req.TTL != "" {
		if ttl, err = parseTTL(req.TTL); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := s.opts.Storage.Set(r.Context(), name, at, ttl); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	ctxlog.Logger(r.Context()).Info("anchor saved", "name", name, "at", at, "ttl", ttl)
	writeJSON(w, http.StatusOK, storage.Anchor{Name: name, At: at})
}

func (s *Server) handleDeleteAnchor(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.opts.Storage.Delete(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseTTL(s string) (time.Duration, error) {
	d, err := offset.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ttl %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("ttl must be non-negative, got %s", d)
	}
	return d, nil
}
