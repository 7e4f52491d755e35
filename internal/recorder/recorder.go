// Package recorder captures computed offsets so they can be exported and
// replayed later.
package recorder

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Recorder captures offset records. Thread-safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []OffsetRecord
	writer  io.Writer // optional: stream records as they arrive
}

// New creates a new Recorder. If w is non-nil, records are also
// written to w as newline-delimited JSON as they arrive.
func New(w io.Writer) *Recorder {
	return &Recorder{writer: w}
}

// Record captures rec, assigning an ID if it has none, and returns the
// stored copy.
func (r *Recorder) Record(rec OffsetRecord) (OffsetRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	if r.writer != nil {
		if err := json.NewEncoder(r.writer).Encode(rec); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// Records returns a copy of all recorded offsets.
func (r *Recorder) Records() []OffsetRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]OffsetRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of recorded items.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// ExportJSON writes all records to w as an indented JSON array.
func (r *Recorder) ExportJSON(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.records
	if records == nil {
		records = []OffsetRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ExportFile writes all records to path on fs as a JSON array.
func (r *Recorder) ExportFile(fs afero.Fs, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := r.ExportJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// LoadJSON reads offset records from a JSON array.
func LoadJSON(r io.Reader) ([]OffsetRecord, error) {
	var records []OffsetRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return records, nil
}

// LoadFile reads offset records from a JSON array stored at path on fs.
func LoadFile(fs afero.Fs, path string) ([]OffsetRecord, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadJSON(f)
}
