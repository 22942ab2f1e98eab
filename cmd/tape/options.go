package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/chazu/tape/manifest"
	"github.com/chazu/tape/vm"
)

// Short flag names and the long names they stand for.
var flagAliases = map[string]string{
	"d": "dynamic_size",
	"s": "array_size",
	"w": "wrapping",
}

// options holds everything parsed from the command line.
type options struct {
	source     string
	input      string
	output     string
	configPath string
	reportPath string
	maxSteps   uint64
	strict     bool
	finalArray bool
	lsp        bool
	verbosity  int
	logPath    string

	settings vm.Settings
	set      map[string]bool // long names of flags given explicitly
}

func newFlagSet(o *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("tape", flag.ContinueOnError)
	fs.SetOutput(stderr)

	d := vm.DefaultSettings()
	o.settings = d

	fs.StringVar(&o.input, "i", "", "Read program input from `file` (default stdin)")
	fs.StringVar(&o.output, "o", "", "Write program output to `file` (default stdout)")
	for _, name := range []string{"d", "dynamic_size"} {
		fs.BoolVar(&o.settings.DynamicSize, name, d.DynamicSize, "Grow the tape on demand; --array_size is the initial size")
	}
	for _, name := range []string{"s", "array_size"} {
		fs.IntVar(&o.settings.ArraySize, name, d.ArraySize, "Number of tape cells")
	}
	fs.TextVar(&o.settings.EOF, "eof_behavior", d.EOF, "On end of input: as_is, zero or negative_one")
	fs.TextVar(&o.settings.Newline, "newline_mode", d.Newline, "Newline encoding: CRLF or LF")
	fs.BoolVar(&o.settings.IgnoreNewline, "ignore_newline", d.IgnoreNewline, "Skip newline input (default true when reading stdin)")
	fs.TextVar(&o.settings.InputMode, "input_mode", d.InputMode, "Input decoding: ascii or digit")
	for _, name := range []string{"w", "wrapping"} {
		fs.BoolVar(&o.settings.Wrapping, name, d.Wrapping, "Wrap '<' at cell 0 to the last cell")
	}
	fs.BoolVar(&o.finalArray, "final_array", false, "Print the tape after the program finishes")

	fs.StringVar(&o.configPath, "config", "", "Read settings from `file` instead of searching for "+manifest.FileName)
	fs.Uint64Var(&o.maxSteps, "max-steps", 0, "Stop after `n` steps (0 = unbounded)")
	fs.StringVar(&o.reportPath, "report", "", "Write a CBOR run report to `file`")
	fs.BoolVar(&o.strict, "strict", false, "Reject characters that are neither operators nor whitespace")
	fs.BoolVar(&o.lsp, "lsp", false, "Start the language server on stdio")
	fs.IntVar(&o.verbosity, "v", 0, "Log verbosity (-4 silent .. 2 debug)")
	fs.StringVar(&o.logPath, "log", "", "Write logs to `file` instead of stderr")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tape [options] SOURCE\n")
		fmt.Fprintf(stderr, "       tape disasm|hash [-strict] SOURCE\n")
		fmt.Fprintf(stderr, "       tape report REPORT\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tape hello.bf                       # Run with a 30000 cell tape\n")
		fmt.Fprintf(stderr, "  tape -d -s 16 prog.bf               # Start with 16 cells, grow as needed\n")
		fmt.Fprintf(stderr, "  tape --input_mode digit -i in.txt sum.bf\n")
		fmt.Fprintf(stderr, "  tape --max-steps 1000000 --report run.cbor loop.bf\n")
	}
	return fs
}

// parseOptions parses command-line arguments.
func parseOptions(args []string, stderr io.Writer) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := newFlagSet(o, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := flagAliases[name]; ok {
			name = long
		}
		o.set[name] = true
	})

	if !o.lsp {
		if fs.NArg() != 1 {
			fs.Usage()
			return nil, fmt.Errorf("expected exactly one SOURCE file, got %d", fs.NArg())
		}
		o.source = fs.Arg(0)
	}
	return o, nil
}

// loadManifest reads the --config file, or searches upward from dir.
func (o *options) loadManifest(dir string) (*manifest.Manifest, error) {
	if o.configPath != "" {
		return manifest.LoadFile(o.configPath)
	}
	return manifest.FindAndLoad(dir)
}

// resolve layers flags over the manifest over defaults. It returns the
// interpreter settings and fills in run options the flags left unset.
func (o *options) resolve(m *manifest.Manifest) vm.Settings {
	s := m.VMSettings()

	if o.set["dynamic_size"] {
		s.DynamicSize = o.settings.DynamicSize
	}
	if o.set["array_size"] {
		s.ArraySize = o.settings.ArraySize
	}
	if o.set["eof_behavior"] {
		s.EOF = o.settings.EOF
	}
	if o.set["newline_mode"] {
		s.Newline = o.settings.Newline
	}
	if o.set["input_mode"] {
		s.InputMode = o.settings.InputMode
	}
	if o.set["wrapping"] {
		s.Wrapping = o.settings.Wrapping
	}

	switch {
	case o.set["ignore_newline"]:
		s.IgnoreNewline = o.settings.IgnoreNewline
	case m != nil && m.Settings.IgnoreNewline != nil:
		// already applied by VMSettings
	case o.input == "":
		// Interactive input ends every line with a newline.
		s.IgnoreNewline = true
	}

	if m == nil {
		return s
	}
	if !o.set["max-steps"] && m.Run.MaxSteps != nil {
		o.maxSteps = *m.Run.MaxSteps
	}
	if !o.set["strict"] && m.Run.Strict != nil {
		o.strict = *m.Run.Strict
	}
	if !o.set["final_array"] && m.Run.FinalArray != nil {
		o.finalArray = *m.Run.FinalArray
	}
	if !o.set["report"] {
		o.reportPath = m.ReportPath()
	}
	return s
}
