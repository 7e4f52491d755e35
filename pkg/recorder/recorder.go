package recorder

import (
	"io"

	"github.com/spf13/afero"

	internalrecorder "github.com/SmitUplenchwar2687/easytime/internal/recorder"
)

// OffsetRecord is one computed offset with its inputs and outcome.
type OffsetRecord = internalrecorder.OffsetRecord

// OffsetEvent is streamed to websocket clients.
type OffsetEvent = internalrecorder.OffsetEvent

// Kind distinguishes unit offsets from duration shifts.
type Kind = internalrecorder.Kind

const (
	KindOffset = internalrecorder.KindOffset
	KindShift  = internalrecorder.KindShift
)

// Recorder captures offset records for later replay.
type Recorder = internalrecorder.Recorder

// New creates a new Recorder.
func New(w io.Writer) *Recorder {
	return internalrecorder.New(w)
}

// LoadJSON reads offset records from a JSON array.
func LoadJSON(r io.Reader) ([]OffsetRecord, error) {
	return internalrecorder.LoadJSON(r)
}

// LoadFile reads offset records from a JSON file on fs.
func LoadFile(fs afero.Fs, path string) ([]OffsetRecord, error) {
	return internalrecorder.LoadFile(fs, path)
}
