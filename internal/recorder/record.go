package recorder

import (
	"fmt"
	"strings"
	"time"

	"github.com/SmitUplenchwar2687/easytime/internal/offset"
)

// Kind distinguishes unit offsets from arbitrary duration shifts.
type Kind string

const (
	KindOffset Kind = "offset"
	KindShift  Kind = "shift"
)

// OffsetRecord is one computed offset together with its inputs and outcome.
type OffsetRecord struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"` // clock reading when served
	Kind      Kind             `json:"kind"`
	Zone      string           `json:"zone"`
	From      *time.Time       `json:"from,omitempty"` // explicit reference, nil means Timestamp
	Magnitude int64            `json:"magnitude,omitempty"`
	Unit      offset.Unit      `json:"unit,omitempty"`
	Duration  string           `json:"duration,omitempty"`
	Direction offset.Direction `json:"direction"`
	Result    *time.Time       `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Reference returns the instant the offset was computed from.
func (r OffsetRecord) Reference() time.Time {
	if r.From != nil {
		return *r.From
	}
	return r.Timestamp
}

// Location maps a zone name to its location. Anything other than "utc"
// is the local zone.
func Location(zone string) *time.Location {
	if strings.EqualFold(zone, "utc") {
		return time.UTC
	}
	return time.Local
}

// Evaluate computes the offset the record describes, reading the reference
// in the record's zone.
func (r OffsetRecord) Evaluate() (time.Time, error) {
	ref := r.Reference().In(Location(r.Zone))
	switch r.Kind {
	case KindOffset, "":
		return offset.Offset(ref, r.Magnitude, r.Unit, r.Direction)
	case KindShift:
		d, err := offset.ParseDuration(r.Duration)
		if err != nil {
			return time.Time{}, err
		}
		return offset.OffsetArbitrary(ref, d, r.Direction)
	default:
		return time.Time{}, fmt.Errorf("unknown record kind %q", r.Kind)
	}
}

// Complete stores the outcome of Evaluate on the record.
func (r *OffsetRecord) Complete(result time.Time, err error) {
	if err != nil {
		r.Result = nil
		r.Error = err.Error()
		return
	}
	r.Result = &result
	r.Error = ""
}

// OffsetEvent is streamed to websocket clients for every computed offset.
type OffsetEvent struct {
	Record    OffsetRecord `json:"record"`
	Formatted string       `json:"formatted,omitempty"`
	Time      time.Time    `json:"time"`
}
