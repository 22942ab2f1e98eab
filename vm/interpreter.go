package vm

import (
	"io"
)

// ---------------------------------------------------------------------------
// State: mutable execution state for one run
// ---------------------------------------------------------------------------

// State is the per-run execution state. The caller owns it and passes it to
// every Step, so it can be inspected once the run ends.
type State struct {
	Tape *Tape
	IP   int  // index of the next instruction
	Ptr  uint // index of the current cell
}

// ---------------------------------------------------------------------------
// Interpreter: single-step execution engine
// ---------------------------------------------------------------------------

// Flusher is implemented by writers that buffer output. The interpreter
// flushes after every write.
type Flusher interface {
	Flush() error
}

// Interpreter executes a compiled Program under a fixed set of Settings.
// It owns its reader and writer for its whole lifetime and must not be
// stepped from more than one goroutine.
type Interpreter struct {
	program  *Program
	settings Settings
	reader   io.Reader
	writer   io.Writer

	// pending holds a byte read ahead while resolving a CRLF sequence.
	pending    byte
	hasPending bool

	rbuf [1]byte
	wbuf [2]byte
}

// NewInterpreter binds a program and settings to an input source and an
// output sink.
func NewInterpreter(program *Program, settings Settings, r io.Reader, w io.Writer) *Interpreter {
	return &Interpreter{
		program:  program,
		settings: settings,
		reader:   r,
		writer:   w,
	}
}

// Program returns the program being executed.
func (in *Interpreter) Program() *Program {
	return in.program
}

// Settings returns the interpreter's policies.
func (in *Interpreter) Settings() Settings {
	return in.settings
}

// Ready returns a fresh State for a new run.
func (in *Interpreter) Ready() *State {
	return &State{
		Tape: NewTape(in.settings.ArraySize),
	}
}

// Step executes the instruction at st.IP and reports what happened. Every
// outcome other than Continue is terminal.
func (in *Interpreter) Step(st *State) Outcome {
	instr := in.program.Instructions[st.IP]

	switch instr.Op {
	case OpHalt:
		return outcomeHalted

	case OpMoveRight:
		if !in.settings.DynamicSize && st.Ptr == uint(st.Tape.Len()-1) {
			st.Ptr = 0
		} else {
			st.Ptr++
		}

	case OpMoveLeft:
		if st.Ptr == 0 && in.settings.Wrapping {
			st.Ptr = uint(st.Tape.Len() - 1)
		} else {
			st.Ptr--
		}

	case OpIncrement:
		c := in.cell(st)
		if c == nil {
			return outOfBound(st.Ptr)
		}
		*c++

	case OpDecrement:
		c := in.cell(st)
		if c == nil {
			return outOfBound(st.Ptr)
		}
		*c--

	case OpOpenLoop:
		c := in.cell(st)
		if c == nil {
			return outOfBound(st.Ptr)
		}
		if *c == 0 {
			st.IP = instr.Target
			return outcomeContinue
		}

	case OpCloseLoop:
		c := in.cell(st)
		if c == nil {
			return outOfBound(st.Ptr)
		}
		if *c != 0 {
			st.IP = instr.Target
			return outcomeContinue
		}

	case OpRead:
		if out := in.execRead(st); out.Terminal() {
			return out
		}

	case OpWrite:
		if out := in.execWrite(st); out.Terminal() {
			return out
		}
	}

	st.IP++
	return outcomeContinue
}

// cell applies the cell access rule: dynamic tapes grow to cover the
// pointer, fixed tapes return nil when it is out of range.
func (in *Interpreter) cell(st *State) *byte {
	if in.settings.DynamicSize {
		return st.Tape.CellGrow(st.Ptr)
	}
	return st.Tape.Cell(st.Ptr)
}

func (in *Interpreter) execRead(st *State) Outcome {
	var r readResult
	if in.settings.InputMode == InputDigit {
		r = in.readDigit()
	} else {
		r = in.readASCII()
	}

	var value byte
	switch r.kind {
	case readValue:
		value = r.value
	case readEOF:
		switch in.settings.EOF {
		case EOFZero:
			value = 0
		case EOFNegativeOne:
			value = 0xFF
		default:
			return outcomeContinue
		}
	case readFault:
		return Outcome{Kind: ReadFailed}
	case readMalformed:
		return Outcome{Kind: ParseNumError}
	}

	c := in.cell(st)
	if c == nil {
		return outOfBound(st.Ptr)
	}
	*c = value
	return outcomeContinue
}

func (in *Interpreter) execWrite(st *State) Outcome {
	c := in.cell(st)
	if c == nil {
		return outOfBound(st.Ptr)
	}

	out := in.wbuf[:1]
	if *c == '\n' && in.settings.Newline == NewlineCRLF {
		in.wbuf[0], in.wbuf[1] = '\r', '\n'
		out = in.wbuf[:2]
	} else {
		in.wbuf[0] = *c
	}

	n, err := in.writer.Write(out)
	if err != nil || n == 0 {
		return Outcome{Kind: WriteFailed}
	}
	if f, ok := in.writer.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return Outcome{Kind: WriteFailed}
		}
	}
	return outcomeContinue
}
