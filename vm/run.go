package vm

// Run steps st until a terminal outcome. A non-zero limit bounds the number
// of steps; when it is exhausted Run returns a StepLimit outcome. The second
// result is the number of steps executed, including the terminal one.
func Run(in *Interpreter, st *State, limit uint64) (Outcome, uint64) {
	var steps uint64
	for {
		if limit != 0 && steps >= limit {
			return Outcome{Kind: StepLimit}, steps
		}
		out := in.Step(st)
		steps++
		if out.Terminal() {
			return out, steps
		}
	}
}
