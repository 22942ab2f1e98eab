// tape CLI - compile and run tape-and-pointer programs
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"github.com/tliron/kutil/util"

	"github.com/chazu/tape/compiler"
	"github.com/chazu/tape/compiler/hash"
	"github.com/chazu/tape/server"
	"github.com/chazu/tape/vm"
	"github.com/chazu/tape/vm/dist"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tape.cli")

func main() {
	util.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "disasm":
			return handleDisasmCommand(args[1:], stdout, stderr)
		case "hash":
			return handleHashCommand(args[1:], stdout, stderr)
		case "report":
			return handleReportCommand(args[1:], stdout, stderr)
		}
	}

	o, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if o.logPath != "" {
		commonlog.Configure(o.verbosity, &o.logPath)
	} else {
		commonlog.Configure(o.verbosity, nil)
	}

	m, err := o.loadManifest(".")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	settings := o.resolve(m)

	if o.lsp {
		srv := server.NewLSP(compiler.Options{Strict: o.strict})
		if err := srv.Run(); err != nil {
			log.Errorf("language server: %v", err)
			return 1
		}
		return 0
	}

	return execute(o, settings, stdin, stdout, stderr)
}

// execute compiles and runs o.source.
func execute(o *options, settings vm.Settings, stdin io.Reader, stdout, stderr io.Writer) int {
	src, err := os.ReadFile(o.source)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var r io.Reader = stdin
	if o.input != "" {
		f, err := os.Open(o.input)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		r = f
	}

	dst := stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		dst = f
	}
	w := bufio.NewWriter(dst)
	defer w.Flush()

	in, err := compiler.Build(string(src), settings, compiler.Options{Strict: o.strict}, bufio.NewReader(r), w)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", o.source, err)
		return 1
	}

	runID := uuid.New()
	rlog := commonlog.NewKeyValueLogger(log, "run", runID.String())
	rlog.Debugf("settings: %+v", settings)

	st := in.Ready()
	res, steps := vm.Run(in, st, o.maxSteps)
	if err := w.Flush(); err != nil && res.Kind == vm.Halted {
		res = vm.Outcome{Kind: vm.WriteFailed}
	}

	if res.Failed() {
		rlog.Infof("%s after %d steps (ip %d, ptr %d)", res, steps, st.IP, st.Ptr)
		fmt.Fprintf(stderr, "%s\n", failureMessage(res))
	} else {
		rlog.Infof("halted after %d steps", steps)
	}

	if o.finalArray {
		fmt.Fprintf(stdout, "\nFinal array: %v\n", st.Tape.Bytes())
	}

	if o.reportPath != "" {
		if err := writeReport(o.reportPath, runID, string(src), in, st, res, steps); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		rlog.Infof("report written to %s", o.reportPath)
	}

	if res.Kind != vm.Halted {
		return 1
	}
	return 0
}

func failureMessage(out vm.Outcome) string {
	switch out.Kind {
	case vm.IndexOutOfBound:
		return fmt.Sprintf("Index out of bound: %d", out.Index)
	case vm.ReadFailed:
		return "Failed to read"
	case vm.WriteFailed:
		return "Failed to write"
	case vm.ParseNumError:
		return "Failed to parse input into number"
	case vm.StepLimit:
		return "Step limit reached"
	}
	return out.String()
}

func writeReport(path string, runID uuid.UUID, src string, in *vm.Interpreter, st *vm.State, out vm.Outcome, steps uint64) error {
	sum, err := hash.HashProgram(in.Program())
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	r := dist.NewReport(runID, dist.ProgramChunk(src, sum), in.Settings(), st, out, steps)
	data, err := dist.MarshalReport(r)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
