package compiler

import (
	"unicode"

	"github.com/chazu/tape/vm"
)

// ---------------------------------------------------------------------------
// Codegen: compile program text to a resolved instruction list
// ---------------------------------------------------------------------------

// Options controls compilation.
type Options struct {
	// Strict rejects every rune that is neither an operator nor whitespace
	// with a Syntax error. By default such runes are comments and skipped.
	Strict bool
}

// openBracket is a pending '[' awaiting its partner.
type openBracket struct {
	index int
	pos   Position
}

// Compiler translates source text in a single pass.
type Compiler struct {
	opts   Options
	instrs []vm.Instruction
	offs   []int
	opens  []openBracket
}

// NewCompiler creates a new compiler.
func NewCompiler(opts Options) *Compiler {
	return &Compiler{opts: opts}
}

// Compile compiles source with default options.
func Compile(source string) (*vm.Program, error) {
	return NewCompiler(Options{}).Compile(source)
}

// CompileWith compiles source with the given options.
func CompileWith(source string, opts Options) (*vm.Program, error) {
	return NewCompiler(opts).Compile(source)
}

// Compile translates source into a Program. On error no partial program is
// returned.
func (c *Compiler) Compile(source string) (*vm.Program, error) {
	c.instrs = c.instrs[:0]
	c.offs = c.offs[:0]
	c.opens = c.opens[:0]

	s := NewScanner(source)
	for s.Scan() {
		ch := s.Rune()
		pos := s.Pos()

		op, ok := vm.OpcodeForSymbol(ch)
		if !ok {
			if c.opts.Strict && !unicode.IsSpace(ch) {
				return nil, &CompileError{Kind: Syntax, Pos: pos, Char: ch}
			}
			continue
		}

		switch op {
		case vm.OpOpenLoop:
			c.opens = append(c.opens, openBracket{index: len(c.instrs), pos: pos})
			c.emit(vm.Instruction{Op: vm.OpOpenLoop}, pos)

		case vm.OpCloseLoop:
			if len(c.opens) == 0 {
				return nil, &CompileError{Kind: UnmatchedBracket, Pos: pos, Char: ch}
			}
			open := c.opens[len(c.opens)-1]
			c.opens = c.opens[:len(c.opens)-1]
			c.instrs[open.index].Target = len(c.instrs) + 1
			c.emit(vm.Instruction{Op: vm.OpCloseLoop, Target: open.index}, pos)

		default:
			c.emit(vm.Instruction{Op: op}, pos)
		}
	}

	if len(c.opens) > 0 {
		return nil, &CompileError{Kind: UnmatchedBracket, Pos: c.opens[0].pos, Char: '['}
	}

	c.emit(vm.Instruction{Op: vm.OpHalt}, s.Pos())

	prog := &vm.Program{
		Instructions: make([]vm.Instruction, len(c.instrs)),
		Offsets:      make([]int, len(c.offs)),
	}
	copy(prog.Instructions, c.instrs)
	copy(prog.Offsets, c.offs)
	return prog, nil
}

func (c *Compiler) emit(in vm.Instruction, pos Position) {
	c.instrs = append(c.instrs, in)
	c.offs = append(c.offs, pos.Offset)
}
