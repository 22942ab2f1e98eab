package vm

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Execution policies
// ---------------------------------------------------------------------------

// DefaultArraySize is the initial tape length when none is configured.
const DefaultArraySize = 30000

// EOFBehavior selects what a read does to the current cell at end of input.
type EOFBehavior uint8

const (
	EOFAsIs        EOFBehavior = iota // leave the cell untouched
	EOFZero                           // set the cell to 0
	EOFNegativeOne                    // set the cell to 255
)

var eofNames = map[EOFBehavior]string{
	EOFAsIs:        "as_is",
	EOFZero:        "zero",
	EOFNegativeOne: "negative_one",
}

func (b EOFBehavior) String() string {
	if name, ok := eofNames[b]; ok {
		return name
	}
	return fmt.Sprintf("EOFBehavior(%d)", b)
}

// MarshalText implements encoding.TextMarshaler.
func (b EOFBehavior) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *EOFBehavior) UnmarshalText(text []byte) error {
	for k, name := range eofNames {
		if name == string(text) {
			*b = k
			return nil
		}
	}
	return fmt.Errorf("unknown eof behavior %q (want as_is, zero or negative_one)", text)
}

// NewlineMode selects the newline sequence for both input decoding and
// output encoding.
type NewlineMode uint8

const (
	NewlineCRLF NewlineMode = iota
	NewlineLF
)

func (m NewlineMode) String() string {
	switch m {
	case NewlineCRLF:
		return "CRLF"
	case NewlineLF:
		return "LF"
	}
	return fmt.Sprintf("NewlineMode(%d)", m)
}

// MarshalText implements encoding.TextMarshaler.
func (m NewlineMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *NewlineMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "CRLF":
		*m = NewlineCRLF
	case "LF":
		*m = NewlineLF
	default:
		return fmt.Errorf("unknown newline mode %q (want CRLF or LF)", text)
	}
	return nil
}

// InputMode selects how a read decodes input bytes.
type InputMode uint8

const (
	InputASCII InputMode = iota // one raw byte per read
	InputDigit                  // a decimal number terminated by a newline
)

func (m InputMode) String() string {
	switch m {
	case InputASCII:
		return "ascii"
	case InputDigit:
		return "digit"
	}
	return fmt.Sprintf("InputMode(%d)", m)
}

// MarshalText implements encoding.TextMarshaler.
func (m InputMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *InputMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ascii":
		*m = InputASCII
	case "digit":
		*m = InputDigit
	default:
		return fmt.Errorf("unknown input mode %q (want ascii or digit)", text)
	}
	return nil
}

// Settings is the immutable set of policies an Interpreter runs under.
type Settings struct {
	DynamicSize   bool        // grow the tape on demand
	ArraySize     int         // initial (or fixed) tape length
	EOF           EOFBehavior // end-of-input policy
	Newline       NewlineMode // newline encoding for input and output
	IgnoreNewline bool        // do not deliver decoded newlines to the program
	InputMode     InputMode   // raw bytes or decimal numbers
	Wrapping      bool        // '<' at cell 0 wraps to the last cell
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ArraySize: DefaultArraySize,
		EOF:       EOFAsIs,
		Newline:   NewlineCRLF,
		InputMode: InputASCII,
	}
}

// ErrInvalidArraySize is returned by Validate for a non-positive array size.
var ErrInvalidArraySize = errors.New("array size must be positive")

// Validate reports whether the settings can drive an interpreter.
func (s Settings) Validate() error {
	if s.ArraySize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidArraySize, s.ArraySize)
	}
	if s.ArraySize > MaxTapeLen {
		return fmt.Errorf("array size %d exceeds maximum %d", s.ArraySize, MaxTapeLen)
	}
	return nil
}
