package vm

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Opcode metadata tests
// ---------------------------------------------------------------------------

func TestOpcodeInfo(t *testing.T) {
	tests := []struct {
		op     Opcode
		name   string
		symbol rune
		jump   bool
	}{
		{OpHalt, "HALT", 0, false},
		{OpMoveRight, "MOVE_RIGHT", '>', false},
		{OpMoveLeft, "MOVE_LEFT", '<', false},
		{OpIncrement, "INC", '+', false},
		{OpDecrement, "DEC", '-', false},
		{OpOpenLoop, "OPEN_LOOP", '[', true},
		{OpCloseLoop, "CLOSE_LOOP", ']', true},
		{OpRead, "READ", ',', false},
		{OpWrite, "WRITE", '.', false},
	}

	for _, tt := range tests {
		info := tt.op.Info()
		if info.Name != tt.name {
			t.Errorf("%v.Info().Name = %q, want %q", tt.op, info.Name, tt.name)
		}
		if info.Symbol != tt.symbol {
			t.Errorf("%v.Info().Symbol = %q, want %q", tt.op, info.Symbol, tt.symbol)
		}
		if info.Jump != tt.jump {
			t.Errorf("%v.Info().Jump = %v, want %v", tt.op, info.Jump, tt.jump)
		}
		if tt.symbol != 0 {
			op, ok := OpcodeForSymbol(tt.symbol)
			if !ok || op != tt.op {
				t.Errorf("OpcodeForSymbol(%q) = %v, %v", tt.symbol, op, ok)
			}
		}
	}
}

func TestOpcodeUnknown(t *testing.T) {
	if got := Opcode(0xEE).String(); got != "UNKNOWN_EE" {
		t.Errorf("String = %q, want UNKNOWN_EE", got)
	}
	if _, ok := OpcodeForSymbol('x'); ok {
		t.Error("OpcodeForSymbol('x') should not map")
	}
}

// [ + ] with offsets as compiled from "a[+]".
func sampleProgram() *Program {
	return &Program{
		Instructions: []Instruction{
			{Op: OpOpenLoop, Target: 3},
			{Op: OpIncrement},
			{Op: OpCloseLoop, Target: 0},
			{Op: OpHalt},
		},
		Offsets: []int{1, 2, 3, 4},
	}
}

func TestProgram_Partner(t *testing.T) {
	p := sampleProgram()
	if got := p.Partner(0); got != 2 {
		t.Errorf("Partner(0) = %d, want 2", got)
	}
	if got := p.Partner(2); got != 0 {
		t.Errorf("Partner(2) = %d, want 0", got)
	}
	for _, i := range []int{-1, 1, 3, 4} {
		if got := p.Partner(i); got != -1 {
			t.Errorf("Partner(%d) = %d, want -1", i, got)
		}
	}
}

func TestProgram_Offsets(t *testing.T) {
	p := sampleProgram()
	if got := p.Offset(1); got != 2 {
		t.Errorf("Offset(1) = %d, want 2", got)
	}
	if got := p.Offset(9); got != -1 {
		t.Errorf("Offset(9) = %d, want -1", got)
	}
	tests := map[int]int{0: -1, 1: 0, 2: 1, 3: 2, 4: -1, 5: -1}
	for off, want := range tests {
		if got := p.InstructionAt(off); got != want {
			t.Errorf("InstructionAt(%d) = %d, want %d", off, got, want)
		}
	}
}

func TestProgram_Disassemble(t *testing.T) {
	out := sampleProgram().Disassemble()
	for _, want := range []string{"0000  OPEN_LOOP 3", "0001  INC", "0002  CLOSE_LOOP 0", "0003  HALT"} {
		if !strings.Contains(out, want) {
			t.Errorf("Disassemble missing %q:\n%s", want, out)
		}
	}
}
