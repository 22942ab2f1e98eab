package compiler

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a compile error.
type ErrorKind int

const (
	// UnmatchedBracket: a '[' or ']' without a partner.
	UnmatchedBracket ErrorKind = iota
	// Syntax: a rune rejected by strict mode.
	Syntax
)

func (k ErrorKind) String() string {
	switch k {
	case UnmatchedBracket:
		return "unmatched bracket"
	case Syntax:
		return "invalid syntax"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is matching against a *CompileError.
var (
	ErrUnmatchedBracket = errors.New("unmatched bracket")
	ErrSyntax           = errors.New("invalid syntax")
)

// CompileError describes why a program failed to compile.
type CompileError struct {
	Kind ErrorKind
	Pos  Position // location of the offending rune
	Char rune     // the offending rune
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case UnmatchedBracket:
		return fmt.Sprintf("cannot find matching bracket for %q at %d (%s)", e.Char, e.Pos.Offset, e.Pos)
	case Syntax:
		return fmt.Sprintf("invalid syntax at %d (%s): %q", e.Pos.Offset, e.Pos, e.Char)
	}
	return fmt.Sprintf("%s at %d", e.Kind, e.Pos.Offset)
}

// Is reports whether target is the sentinel for e's kind.
func (e *CompileError) Is(target error) bool {
	switch target {
	case ErrUnmatchedBracket:
		return e.Kind == UnmatchedBracket
	case ErrSyntax:
		return e.Kind == Syntax
	}
	return false
}

// Offset returns the rune offset of the error.
func (e *CompileError) Offset() int {
	return e.Pos.Offset
}
