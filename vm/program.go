package vm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode identifies a single resolved instruction.
type Opcode byte

const (
	OpHalt      Opcode = 0x00 // stop execution
	OpMoveRight Opcode = 0x01 // >
	OpMoveLeft  Opcode = 0x02 // <
	OpIncrement Opcode = 0x03 // +
	OpDecrement Opcode = 0x04 // -
	OpOpenLoop  Opcode = 0x05 // [ jump past matching ] if cell is zero
	OpCloseLoop Opcode = 0x06 // ] jump back to matching [ if cell is non-zero
	OpRead      Opcode = 0x07 // ,
	OpWrite     Opcode = 0x08 // .
)

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name   string // human-readable name
	Symbol rune   // source character, 0 for Halt
	Jump   bool   // carries a jump target
}

var opcodeTable = map[Opcode]OpcodeInfo{
	OpHalt:      {"HALT", 0, false},
	OpMoveRight: {"MOVE_RIGHT", '>', false},
	OpMoveLeft:  {"MOVE_LEFT", '<', false},
	OpIncrement: {"INC", '+', false},
	OpDecrement: {"DEC", '-', false},
	OpOpenLoop:  {"OPEN_LOOP", '[', true},
	OpCloseLoop: {"CLOSE_LOOP", ']', true},
	OpRead:      {"READ", ',', false},
	OpWrite:     {"WRITE", '.', false},
}

// Info returns metadata for the opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", byte(op))}
}

// String returns the opcode name.
func (op Opcode) String() string {
	return op.Info().Name
}

// OpcodeForSymbol maps a source character to its opcode.
func OpcodeForSymbol(r rune) (Opcode, bool) {
	switch r {
	case '>':
		return OpMoveRight, true
	case '<':
		return OpMoveLeft, true
	case '+':
		return OpIncrement, true
	case '-':
		return OpDecrement, true
	case '[':
		return OpOpenLoop, true
	case ']':
		return OpCloseLoop, true
	case ',':
		return OpRead, true
	case '.':
		return OpWrite, true
	}
	return OpHalt, false
}

// ---------------------------------------------------------------------------
// Program: resolved instruction list
// ---------------------------------------------------------------------------

// Instruction is one resolved operation. Target is meaningful only for
// OpOpenLoop (index after the matching close) and OpCloseLoop (index of the
// matching open).
type Instruction struct {
	Op     Opcode
	Target int
}

func (in Instruction) String() string {
	if in.Op.Info().Jump {
		return fmt.Sprintf("%s %d", in.Op, in.Target)
	}
	return in.Op.String()
}

// Program is a compiled instruction list. It always ends with exactly one
// OpHalt. Offsets, when present, records the source rune offset of each
// instruction (the trailing Halt maps to the source length).
type Program struct {
	Instructions []Instruction
	Offsets      []int
}

// Len returns the number of instructions, including the trailing Halt.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// At returns the instruction at index.
func (p *Program) At(index int) Instruction {
	return p.Instructions[index]
}

// Partner returns the index of the bracket instruction matching the one at
// index, or -1 if index does not hold a loop instruction.
func (p *Program) Partner(index int) int {
	if index < 0 || index >= len(p.Instructions) {
		return -1
	}
	in := p.Instructions[index]
	switch in.Op {
	case OpOpenLoop:
		return in.Target - 1
	case OpCloseLoop:
		return in.Target
	}
	return -1
}

// Offset returns the source offset of the instruction at index, or -1 if the
// program carries no offsets.
func (p *Program) Offset(index int) int {
	if index < 0 || index >= len(p.Offsets) {
		return -1
	}
	return p.Offsets[index]
}

// InstructionAt returns the index of the instruction compiled from the
// source rune at offset, or -1 if that rune produced no instruction.
func (p *Program) InstructionAt(offset int) int {
	lo, hi := 0, len(p.Offsets)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case p.Offsets[mid] == offset:
			if p.Instructions[mid].Op == OpHalt {
				return -1
			}
			return mid
		case p.Offsets[mid] < offset:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return -1
}

// Disassemble returns a human-readable listing of the program.
func (p *Program) Disassemble() string {
	var sb strings.Builder
	for i, in := range p.Instructions {
		fmt.Fprintf(&sb, "%04d  %s\n", i, in)
	}
	return sb.String()
}
