package vm

// ---------------------------------------------------------------------------
// Tape: the byte-addressable memory a program operates on
// ---------------------------------------------------------------------------

// MaxTapeLen bounds how far a dynamic tape may grow. An access past it fails
// the same way an out-of-range access on a fixed tape does.
const MaxTapeLen = 1 << 28

// Tape is a sequence of 8-bit cells. A fixed tape never changes length; a
// dynamic tape is extended with zero cells when an index past its end is
// accessed through CellGrow.
type Tape struct {
	cells []byte
}

// NewTape returns a tape of size zeroed cells.
func NewTape(size int) *Tape {
	return &Tape{cells: make([]byte, size)}
}

// Len returns the current number of cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Cell returns a pointer to the cell at index, or nil if index is past the end.
func (t *Tape) Cell(index uint) *byte {
	if index >= uint(len(t.cells)) {
		return nil
	}
	return &t.cells[index]
}

// CellGrow returns a pointer to the cell at index, extending the tape with
// zero cells up to and including index when necessary. It returns nil only
// when index is at or beyond MaxTapeLen.
func (t *Tape) CellGrow(index uint) *byte {
	if index < uint(len(t.cells)) {
		return &t.cells[index]
	}
	if index >= MaxTapeLen {
		return nil
	}
	t.cells = append(t.cells, make([]byte, int(index)+1-len(t.cells))...)
	return &t.cells[index]
}

// Bytes returns the tape contents. The slice aliases the tape.
func (t *Tape) Bytes() []byte {
	return t.cells
}
