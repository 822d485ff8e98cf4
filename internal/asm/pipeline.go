// Package asm implements the assembler pipeline: preprocess (comment
// stripping, EACH/END macro expansion, tokenizing) feeds parse (mnemonic
// arity validation, label interning, lowering) feeds optimize (fixpoint
// peephole rewrites) feeds sanitize (literal legalization, terminator
// enforcement).
package asm

import "io"

// Assemble runs the full pipeline over r and returns the sanitized
// program. The preprocessor and the parser each accumulate their
// diagnostics onto a multierror; a preprocessor failure stops the
// pipeline before parsing, so the returned error holds the diagnostics
// of the first stage that failed. On failure the returned PietAsm is
// nil and err is non-nil, formatted as a combined diagnostic list.
func Assemble(r io.Reader) (*PietAsm, error) {
	lines, err := Preprocess(r)
	if err != nil {
		return nil, err
	}

	prog, err := Parse(lines)
	if err != nil {
		return nil, err
	}

	prog = Optimize(prog)
	prog = Sanitize(prog)
	return prog, nil
}
