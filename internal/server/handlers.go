package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/logging/ctxlog"

	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
	"github.com/SmitUplenchwar2687/easytime/internal/storage"
	"github.com/SmitUplenchwar2687/easytime/pkg/easytime"
)

// OffsetResponse is returned by /api/offset and /api/shift.
type OffsetResponse struct {
	ID        string    `json:"id"`
	Reference time.Time `json:"reference"`
	Result    time.Time `json:"result"`
	Formatted string    `json:"formatted"`
	Timestamp int64     `json:"timestamp"`
	Zone      string    `json:"zone"`
}

// FormatResponse is returned by /api/format.
type FormatResponse struct {
	At        time.Time `json:"at"`
	Formatted string    `json:"formatted"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Timestamp int64     `json:"timestamp"`
	Leap      bool      `json:"leap"`
}

// LeapResponse is returned by /api/leap/{year}.
type LeapResponse struct {
	Year           int  `json:"year"`
	Leap           bool `json:"leap"`
	DaysInFebruary int  `json:"days_in_february"`
	DaysInYear     int  `json:"days_in_year"`
}

type requestZone struct {
	name string
	zone easytime.Zone
}

func (s *Server) zoneParam(r *http.Request) (requestZone, error) {
	name := strings.ToLower(r.URL.Query().Get("zone"))
	if name == "" {
		name = s.opts.Zone
	}
	z, ok := easytime.ZoneFor(name)
	if !ok {
		return requestZone{}, badRequest(fmt.Errorf("unknown zone %q, must be local or utc", name))
	}
	return requestZone{name: name, zone: z}, nil
}

func directionParam(r *http.Request) (offset.Direction, error) {
	d := r.URL.Query().Get("direction")
	if d == "" {
		return offset.Future, nil
	}
	return offset.ParseDirection(d)
}

// newRecord fills the fields every offset request shares.
func (s *Server) newRecord(r *http.Request, kind recorder.Kind) (recorder.OffsetRecord, requestZone, error) {
	rz, err := s.zoneParam(r)
	if err != nil {
		return recorder.OffsetRecord{}, rz, err
	}
	dir, err := directionParam(r)
	if err != nil {
		return recorder.OffsetRecord{}, rz, err
	}
	rec := recorder.OffsetRecord{
		Timestamp: s.clock.Now(),
		Kind:      kind,
		Zone:      rz.name,
		Direction: dir,
	}
	from, ok, err := storage.Resolve(r.Context(), s.opts.Storage, r.URL.Query().Get("from"), rz.zone.Location())
	if err != nil {
		return rec, rz, err
	}
	if ok {
		rec.From = &from
	}
	return rec, rz, nil
}

func (s *Server) handleOffset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mag, err := strconv.ParseInt(q.Get("value"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid value %q: must be an integer", q.Get("value")))
		return
	}
	unit, err := offset.ParseUnit(q.Get("unit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, rz, err := s.newRecord(r, recorder.KindOffset)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	rec.Magnitude = mag
	rec.Unit = unit
	s.evaluate(w, r, rec, rz)
}

func (s *Server) handleShift(w http.ResponseWriter, r *http.Request) {
	d := r.URL.Query().Get("duration")
	if _, err := offset.ParseDuration(d); err != nil {
		writeError(w, statusFor(badRequest(err)), fmt.Sprintf("invalid duration %q: %v", d, err))
		return
	}
	rec, rz, err := s.newRecord(r, recorder.KindShift)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	rec.Duration = d
	s.evaluate(w, r, rec, rz)
}

// evaluate computes rec, records and broadcasts it, and writes the response.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, rec recorder.OffsetRecord, rz requestZone) {
	result, err := rec.Evaluate()
	rec.Complete(result, err)

	if s.opts.Recorder != nil {
		if stored, rerr := s.opts.Recorder.Record(rec); rerr != nil {
			ctxlog.Logger(r.Context()).Error("record offset", "error", rerr)
		} else {
			rec = stored
		}
	}

	if err != nil {
		ctxlog.Logger(r.Context()).Info("offset rejected", "kind", rec.Kind, "error", err)
		s.broadcast(rec, "")
		writeError(w, statusFor(err), err.Error())
		return
	}

	layout := r.URL.Query().Get("format")
	if layout == "" {
		layout = s.opts.Format
	}
	withZone := r.URL.Query().Get("timezone") == "true"
	formatted := easytime.Render(result, rz.zone, layout, withZone)
	s.broadcast(rec, formatted)

	writeJSON(w, http.StatusOK, OffsetResponse{
		ID:        rec.ID,
		Reference: rec.Reference().In(rz.zone.Location()),
		Result:    result,
		Formatted: formatted,
		Timestamp: result.Unix(),
		Zone:      rz.name,
	})
}

func (s *Server) broadcast(rec recorder.OffsetRecord, formatted string) {
	if s.opts.Hub == nil {
		return
	}
	s.opts.Hub.Broadcast(&recorder.OffsetEvent{
		Record:    rec,
		Formatted: formatted,
		Time:      s.clock.Now(),
	})
}

func (s *Server) handleLeap(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid year %q", r.PathValue("year")))
		return
	}
	leap := offset.IsLeapYear(year)
	days := 365
	if leap {
		days = 366
	}
	writeJSON(w, http.StatusOK, LeapResponse{
		Year:           year,
		Leap:           leap,
		DaysInFebruary: offset.DaysInMonth(year, time.February),
		DaysInYear:     days,
	})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	rz, err := s.zoneParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	at, ok, err := storage.Resolve(r.Context(), s.opts.Storage, r.URL.Query().Get("at"), rz.zone.Location())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if !ok {
		at = s.clock.Now().In(rz.zone.Location())
	}
	layout := r.URL.Query().Get("format")
	if layout == "" {
		layout = s.opts.Format
	}
	withZone := r.URL.Query().Get("timezone") == "true"
	writeJSON(w, http.StatusOK, FormatResponse{
		At:        at,
		Formatted: easytime.Render(at, rz.zone, layout, withZone),
		Date:      easytime.Render(at, rz.zone, easytime.DateFormat, false),
		Time:      easytime.Render(at, rz.zone, easytime.TimeFormat, false),
		Timestamp: at.Unix(),
		Leap:      offset.IsLeapYear(at.Year()),
	})
}
