// Package vm executes compiled tape programs.
//
// This package contains:
//   - The byte tape and its fixed or growing cell access
//   - The resolved instruction list produced by the compiler
//   - Execution policies for end of input, newlines and input decoding
//   - A single-step interpreter and a bounded run loop
package vm
