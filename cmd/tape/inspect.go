package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chazu/tape/compiler"
	"github.com/chazu/tape/compiler/hash"
	"github.com/chazu/tape/vm"
	"github.com/chazu/tape/vm/dist"
)

// compileSource reads and compiles the single SOURCE argument of a subcommand.
func compileSource(name string, args []string, stderr io.Writer) (*vm.Program, string, bool) {
	fs := flag.NewFlagSet("tape "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	strict := fs.Bool("strict", false, "Reject characters that are neither operators nor whitespace")
	if err := fs.Parse(args); err != nil {
		return nil, "", false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: tape %s [-strict] SOURCE\n", name)
		return nil, "", false
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, "", false
	}
	prog, err := compiler.CompileWith(string(src), compiler.Options{Strict: *strict})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", fs.Arg(0), err)
		return nil, "", false
	}
	return prog, string(src), true
}

// handleDisasmCommand processes `tape disasm SOURCE`.
func handleDisasmCommand(args []string, stdout, stderr io.Writer) int {
	prog, _, ok := compileSource("disasm", args, stderr)
	if !ok {
		return 1
	}
	fmt.Fprint(stdout, prog.Disassemble())
	return 0
}

// handleHashCommand processes `tape hash SOURCE`. Programs that differ only
// in comments share a hash.
func handleHashCommand(args []string, stdout, stderr io.Writer) int {
	prog, _, ok := compileSource("hash", args, stderr)
	if !ok {
		return 1
	}
	sum, err := hash.HashProgram(prog)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, sum)
	return 0
}

// handleReportCommand processes `tape report REPORT`: it decodes a run
// report and checks that the embedded program still hashes to the recorded
// value.
func handleReportCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: tape report REPORT")
		return 1
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	r, err := dist.UnmarshalReport(data)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "run:      %s\n", r.ID())
	fmt.Fprintf(stdout, "program:  %s\n", hash.Sum(r.Program.Hash).Short())
	fmt.Fprintf(stdout, "outcome:  %s\n", r.Outcome)
	if r.Outcome == vm.IndexOutOfBound.String() {
		fmt.Fprintf(stdout, "index:    %d\n", r.Index)
	}
	fmt.Fprintf(stdout, "steps:    %d\n", r.Steps)
	fmt.Fprintf(stdout, "ip:       %d\n", r.IP)
	fmt.Fprintf(stdout, "ptr:      %d\n", r.Ptr)
	fmt.Fprintf(stdout, "tape:     %d cells, %d stored\n", r.TapeLen, len(r.Tape))
	s := r.Settings
	fmt.Fprintf(stdout, "settings: dynamic=%t size=%d eof=%s newline=%s ignore-newline=%t input=%s wrapping=%t\n",
		s.DynamicSize, s.ArraySize, s.EOFBehavior, s.NewlineMode, s.IgnoreNewline, s.InputMode, s.Wrapping)

	if err := dist.VerifyChunk(&r.Program, compileHash); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "verified: program hash matches")
	return 0
}

func compileHash(source string) ([32]byte, error) {
	p, err := compiler.Compile(source)
	if err != nil {
		return [32]byte{}, err
	}
	return hash.HashProgram(p)
}
