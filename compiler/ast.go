package compiler

import "fmt"

// Position represents a location in source code.
type Position struct {
	Offset int // rune offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
