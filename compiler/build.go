package compiler

import (
	"fmt"
	"io"

	"github.com/chazu/tape/vm"
)

// Build validates settings, compiles source and binds the result to r and w.
// The returned error is either a settings error or a *CompileError.
func Build(source string, settings vm.Settings, opts Options, r io.Reader, w io.Writer) (*vm.Interpreter, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("compiler: invalid settings: %w", err)
	}
	prog, err := CompileWith(source, opts)
	if err != nil {
		return nil, err
	}
	return vm.NewInterpreter(prog, settings, r, w), nil
}
