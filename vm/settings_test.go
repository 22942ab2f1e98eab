package vm

import (
	"errors"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.ArraySize != 30000 {
		t.Errorf("ArraySize = %d, want 30000", s.ArraySize)
	}
	if s.EOF != EOFAsIs || s.Newline != NewlineCRLF || s.InputMode != InputASCII {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.DynamicSize || s.IgnoreNewline || s.Wrapping {
		t.Errorf("flags should default to false: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings()
	s.ArraySize = 0
	if err := s.Validate(); !errors.Is(err, ErrInvalidArraySize) {
		t.Errorf("Validate(0) = %v, want ErrInvalidArraySize", err)
	}
	s.ArraySize = MaxTapeLen + 1
	if err := s.Validate(); err == nil {
		t.Error("Validate should reject sizes past MaxTapeLen")
	}
}

func TestEnumText(t *testing.T) {
	var eof EOFBehavior
	for _, name := range []string{"as_is", "zero", "negative_one"} {
		if err := eof.UnmarshalText([]byte(name)); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", name, err)
		}
		if eof.String() != name {
			t.Errorf("EOFBehavior round trip: %q -> %q", name, eof.String())
		}
	}
	if err := eof.UnmarshalText([]byte("minus_one")); err == nil {
		t.Error("expected error for unknown eof behavior")
	}

	var nl NewlineMode
	for _, name := range []string{"CRLF", "LF"} {
		if err := nl.UnmarshalText([]byte(name)); err != nil || nl.String() != name {
			t.Errorf("NewlineMode %q: got %q, err %v", name, nl, err)
		}
	}
	if err := nl.UnmarshalText([]byte("lf")); err == nil {
		t.Error("newline mode names are case sensitive")
	}

	var im InputMode
	for _, name := range []string{"ascii", "digit"} {
		if err := im.UnmarshalText([]byte(name)); err != nil || im.String() != name {
			t.Errorf("InputMode %q: got %q, err %v", name, im, err)
		}
	}
	if err := im.UnmarshalText([]byte("hex")); err == nil {
		t.Error("expected error for unknown input mode")
	}

	text, err := EOFNegativeOne.MarshalText()
	if err != nil || string(text) != "negative_one" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		out      Outcome
		terminal bool
		failed   bool
		str      string
	}{
		{Outcome{Kind: Continue}, false, false, "continue"},
		{Outcome{Kind: Halted}, true, false, "halted"},
		{Outcome{Kind: IndexOutOfBound, Index: 12}, true, true, "index out of bound: 12"},
		{Outcome{Kind: ReadFailed}, true, true, "read failed"},
		{Outcome{Kind: WriteFailed}, true, true, "write failed"},
		{Outcome{Kind: ParseNumError}, true, true, "parse number error"},
		{Outcome{Kind: StepLimit}, true, true, "step limit reached"},
	}
	for _, tt := range tests {
		if tt.out.Terminal() != tt.terminal {
			t.Errorf("%v.Terminal() = %v", tt.out, !tt.terminal)
		}
		if tt.out.Failed() != tt.failed {
			t.Errorf("%v.Failed() = %v", tt.out, !tt.failed)
		}
		if tt.out.String() != tt.str {
			t.Errorf("String = %q, want %q", tt.out.String(), tt.str)
		}
	}
}
