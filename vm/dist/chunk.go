// Package dist defines the portable records a run leaves behind. A Report
// captures how a program finished; it embeds the program as a
// content-addressed Chunk so the reader can verify what was run. Both are
// CBOR encoded.
package dist

// Chunk carries program source plus the content hash of its compiled form.
// The receiver recompiles the source and verifies that the hash matches.
type Chunk struct {
	Hash    [32]byte `cbor:"1,keyasint"`
	Content string   `cbor:"2,keyasint"` // source text
}

// SettingsRecord is the textual form of the policies a run used.
type SettingsRecord struct {
	DynamicSize   bool   `cbor:"1,keyasint"`
	ArraySize     int    `cbor:"2,keyasint"`
	EOFBehavior   string `cbor:"3,keyasint"`
	NewlineMode   string `cbor:"4,keyasint"`
	IgnoreNewline bool   `cbor:"5,keyasint"`
	InputMode     string `cbor:"6,keyasint"`
	Wrapping      bool   `cbor:"7,keyasint"`
}

// Report summarizes a finished run.
type Report struct {
	RunID    [16]byte       `cbor:"1,keyasint"`
	Program  Chunk          `cbor:"2,keyasint"`
	Settings SettingsRecord `cbor:"3,keyasint"`
	Outcome  string         `cbor:"4,keyasint"`
	Index    uint64         `cbor:"5,keyasint,omitempty"` // offending cell for out-of-bound outcomes
	Steps    uint64         `cbor:"6,keyasint"`
	IP       int            `cbor:"7,keyasint"`
	Ptr      uint64         `cbor:"8,keyasint"`
	TapeLen  int            `cbor:"9,keyasint"`
	Tape     []byte         `cbor:"10,keyasint,omitempty"` // trailing zero cells trimmed
}

// Cells returns the full tape, restoring trimmed trailing zero cells.
func (r *Report) Cells() []byte {
	cells := make([]byte, r.TapeLen)
	copy(cells, r.Tape)
	return cells
}
