package compiler

import (
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Scanner: rune-by-rune walk over program text
// ---------------------------------------------------------------------------

// Scanner yields the runes of a program together with their positions.
type Scanner struct {
	input   string
	readPos int  // byte offset of the next rune
	ch      rune // current rune
	pos     Position
	next    Position
}

// NewScanner creates a scanner positioned before the first rune.
func NewScanner(input string) *Scanner {
	return &Scanner{
		input: input,
		next:  Position{Offset: 0, Line: 1, Column: 1},
	}
}

// Scan advances to the next rune. It returns false at end of input.
func (s *Scanner) Scan() bool {
	if s.readPos >= len(s.input) {
		s.pos = s.next
		return false
	}
	r, size := utf8.DecodeRuneInString(s.input[s.readPos:])
	s.ch = r
	s.pos = s.next
	s.readPos += size

	s.next.Offset++
	if r == '\n' {
		s.next.Line++
		s.next.Column = 1
	} else {
		s.next.Column++
	}
	return true
}

// Rune returns the current rune.
func (s *Scanner) Rune() rune {
	return s.ch
}

// Pos returns the position of the current rune. After Scan returns false it
// is the position just past the end of input.
func (s *Scanner) Pos() Position {
	return s.pos
}

// PositionOf returns the position of the rune at the given rune offset, or
// the end position if offset is past the input.
func PositionOf(input string, offset int) Position {
	s := NewScanner(input)
	for s.Scan() {
		if s.pos.Offset == offset {
			return s.pos
		}
	}
	return s.pos
}
