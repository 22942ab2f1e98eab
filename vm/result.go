package vm

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Outcome: the result of executing one instruction
// ---------------------------------------------------------------------------

// OutcomeKind identifies what happened during a step.
type OutcomeKind int

const (
	Continue        OutcomeKind = iota // instruction executed, keep stepping
	Halted                             // program reached its final Halt
	IndexOutOfBound                    // cell pointer outside a fixed tape
	ReadFailed                         // input source faulted
	WriteFailed                        // output sink faulted, wrote nothing, or failed to flush
	ParseNumError                      // digit input saw a malformed byte
	StepLimit                          // the driver's step budget ran out
)

var outcomeNames = map[OutcomeKind]string{
	Continue:        "continue",
	Halted:          "halted",
	IndexOutOfBound: "index out of bound",
	ReadFailed:      "read failed",
	WriteFailed:     "write failed",
	ParseNumError:   "parse number error",
	StepLimit:       "step limit reached",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is returned by Step. Index is set only for IndexOutOfBound.
type Outcome struct {
	Kind  OutcomeKind
	Index uint
}

// Terminal reports whether the caller must stop stepping.
func (o Outcome) Terminal() bool {
	return o.Kind != Continue
}

// Failed reports whether the outcome is terminal for a reason other than
// reaching Halt.
func (o Outcome) Failed() bool {
	return o.Kind != Continue && o.Kind != Halted
}

func (o Outcome) String() string {
	if o.Kind == IndexOutOfBound {
		return fmt.Sprintf("%s: %d", o.Kind, o.Index)
	}
	return o.Kind.String()
}

var (
	outcomeContinue = Outcome{Kind: Continue}
	outcomeHalted   = Outcome{Kind: Halted}
)

func outOfBound(index uint) Outcome {
	return Outcome{Kind: IndexOutOfBound, Index: index}
}
