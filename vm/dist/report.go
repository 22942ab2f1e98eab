package dist

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/chazu/tape/vm"
)

// ProgramChunk creates a Chunk from program source and its content hash.
func ProgramChunk(source string, sum [32]byte) Chunk {
	return Chunk{Hash: sum, Content: source}
}

// RecordSettings converts settings to their report form.
func RecordSettings(s vm.Settings) SettingsRecord {
	return SettingsRecord{
		DynamicSize:   s.DynamicSize,
		ArraySize:     s.ArraySize,
		EOFBehavior:   s.EOF.String(),
		NewlineMode:   s.Newline.String(),
		IgnoreNewline: s.IgnoreNewline,
		InputMode:     s.InputMode.String(),
		Wrapping:      s.Wrapping,
	}
}

// NewReport captures the final state of a run.
func NewReport(runID uuid.UUID, program Chunk, settings vm.Settings, st *vm.State, out vm.Outcome, steps uint64) *Report {
	cells := st.Tape.Bytes()
	trimmed := bytes.TrimRight(cells, "\x00")

	r := &Report{
		RunID:    runID,
		Program:  program,
		Settings: RecordSettings(settings),
		Outcome:  out.Kind.String(),
		Steps:    steps,
		IP:       st.IP,
		Ptr:      uint64(st.Ptr),
		TapeLen:  len(cells),
		Tape:     append([]byte(nil), trimmed...),
	}
	if out.Kind == vm.IndexOutOfBound {
		r.Index = uint64(out.Index)
	}
	return r
}

// ID returns the run id as a UUID.
func (r *Report) ID() uuid.UUID {
	return uuid.UUID(r.RunID)
}
