package asm

import (
	"bufio"
	"io"
	"math/big"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// tokenKind distinguishes the three token shapes a mnemonic argument can
// take after preprocessing.
type tokenKind int

const (
	tokNum tokenKind = iota
	tokLabel
	tokVar
)

// token is one argument token produced by the preprocessor, to be
// resolved by the parser (EACH expansion substitutes a tokVar whose name
// matches an enclosing frame; any other tokVar reaches the parser, which
// reports it as an unbound variable).
type token struct {
	kind  tokenKind
	num   *big.Int
	text  string // label name, or var name
}

// stmt is either a label definition or a mnemonic with its argument
// tokens.
type stmt struct {
	isLabel bool
	label   string // set if isLabel
	mnemon  string // set otherwise
	args    []token
}

// ppLine pairs a source line number with its parsed statement.
type ppLine struct {
	line int
	stmt stmt
}

type eachFrame struct {
	name    string
	values  []int64
	body    []ppLine
	openAt  int
}

// Preprocess strips comments, expands @EACH/@END macro blocks, and
// tokenizes each remaining line into a stmt. It accumulates every
// diagnostic it finds onto a single multierror rather than stopping at
// the first failure.
func Preprocess(r io.Reader) ([]ppLine, error) {
	var result []ppLine
	var errs *multierror.Error
	var stack []*eachFrame

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		raw := scanner.Text()
		line := stripComment(raw)
		if line.isEmpty() {
			continue
		}

		if line.startsWithChar('@') {
			frame, closed, perr := parsePragma(lineno, line, stack)
			if perr != nil {
				errs = multierror.Append(errs, perr)
				continue
			}
			if frame != nil {
				stack = append(stack, frame)
				continue
			}
			if closed {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				expanded := expandEach(top)
				appendLines(&stack, &result, expanded)
				continue
			}
			continue
		}

		if line.startsWithChar(':') {
			name := line.consume(1)
			ident, tail := name.consumeWhile(identifierChar)
			if !tail.trimSpace().isEmpty() {
				errs = multierror.Append(errs, &InvalidIdentifierFormatError{errAt(lineno), line.String()})
				continue
			}
			if ident.isEmpty() || !identifierStartChar(ident.String()[0]) {
				errs = multierror.Append(errs, &EmptyIdentifierError{errAt(lineno)})
				continue
			}
			s := stmt{isLabel: true, label: ident.String()}
			appendLines(&stack, &result, []ppLine{{lineno, s}})
			continue
		}

		s, perr := parseCommandLine(lineno, line)
		if perr != nil {
			errs = multierror.Append(errs, perr)
			continue
		}
		appendLines(&stack, &result, []ppLine{{lineno, s}})
	}

	for _, f := range stack {
		errs = multierror.Append(errs, &MissingEndError{errAt(f.openAt)})
	}

	if err := scanner.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if errs.ErrorOrNil() != nil {
		return nil, errs.ErrorOrNil()
	}
	return result, nil
}

// appendLines appends lines either to the innermost open EACH frame's
// body accumulator, or to the top-level result if no frame is open.
func appendLines(stack *[]*eachFrame, result *[]ppLine, lines []ppLine) {
	if len(*stack) > 0 {
		top := (*stack)[len(*stack)-1]
		top.body = append(top.body, lines...)
		return
	}
	*result = append(*result, lines...)
}

// stripComment removes everything from the first '#' onward and trims
// surrounding whitespace.
func stripComment(raw string) fstring {
	line := newFstring(0, raw)
	before, _ := line.consumeUntil(comment)
	return before.trimSpace()
}

// parsePragma handles @EACH and @END. It returns a non-nil frame when
// opening a new EACH block, closed=true when popping one via @END, or an
// error.
func parsePragma(lineno int, line fstring, stack []*eachFrame) (frame *eachFrame, closed bool, err asmError) {
	body := line.consume(1) // drop '@'
	if strings.HasPrefix(body.String(), "END") {
		rest := body.consume(3).trimSpace()
		if !rest.isEmpty() {
			return nil, false, &InvalidPragmaError{errAt(lineno), line.String()}
		}
		if len(stack) == 0 {
			return nil, false, &ExtraEndError{errAt(lineno)}
		}
		return nil, true, nil
	}
	if strings.HasPrefix(body.String(), "EACH") {
		rest := body.consume(4)
		name, values, perr := parseEachHeader(lineno, rest)
		if perr != nil {
			return nil, false, perr
		}
		return &eachFrame{name: name, values: values, openAt: lineno}, false, nil
	}
	return nil, false, &InvalidPragmaError{errAt(lineno), line.String()}
}

// parseEachHeader parses "name = [ v1 v2 ... ]" following "@EACH".
func parseEachHeader(lineno int, rest fstring) (string, []int64, asmError) {
	rest = rest.trimSpace()
	ident, tail := rest.consumeWhile(identifierChar)
	if ident.isEmpty() {
		return "", nil, &EmptyIdentifierError{errAt(lineno)}
	}
	tail = tail.trimSpace()
	if !tail.startsWithChar('=') {
		return "", nil, &InvalidPragmaError{errAt(lineno), rest.String()}
	}
	tail = tail.consume(1).trimSpace()
	if !tail.startsWithChar('[') {
		return "", nil, &InvalidPragmaError{errAt(lineno), rest.String()}
	}
	tail = tail.consume(1)
	endIdx := strings.IndexByte(tail.String(), ']')
	if endIdx < 0 {
		return "", nil, &InvalidPragmaError{errAt(lineno), rest.String()}
	}
	inside := tail.trunc(endIdx)
	after := tail.consume(endIdx + 1).trimSpace()
	if !after.isEmpty() {
		return "", nil, &InvalidPragmaError{errAt(lineno), rest.String()}
	}
	var values []int64
	for _, f := range strings.Fields(inside.String()) {
		n, ok := new(big.Int).SetString(f, 10)
		if !ok {
			return "", nil, &ExpectedIntegerError{errAt(lineno), f}
		}
		values = append(values, n.Int64())
	}
	return ident.String(), values, nil
}

// expandEach clones the frame's body once per captured value,
// substituting every occurrence of @name with the literal integer.
func expandEach(f *eachFrame) []ppLine {
	var out []ppLine
	for _, v := range f.values {
		for _, pl := range f.body {
			out = append(out, ppLine{pl.line, substituteVar(pl.stmt, f.name, v)})
		}
	}
	return out
}

func substituteVar(s stmt, name string, v int64) stmt {
	if s.isLabel {
		return s
	}
	args := make([]token, len(s.args))
	for i, a := range s.args {
		if a.kind == tokVar && a.text == name {
			args[i] = token{kind: tokNum, num: big.NewInt(v)}
		} else {
			args[i] = a
		}
	}
	return stmt{mnemon: s.mnemon, args: args}
}

// parseCommandLine tokenizes "MNEMONIC arg1 arg2 ...".
func parseCommandLine(lineno int, line fstring) (stmt, asmError) {
	mnemon, rest := line.consumeWhile(notSpace)
	rest = rest.trimSpace()
	var args []token
	for !rest.isEmpty() {
		var argText fstring
		argText, rest = rest.consumeWhile(notSpace)
		rest = rest.trimSpace()
		tok, err := parseArgToken(lineno, argText)
		if err != nil {
			return stmt{}, err
		}
		args = append(args, tok)
	}
	return stmt{mnemon: strings.ToUpper(mnemon.String()), args: args}, nil
}

func parseArgToken(lineno int, text fstring) (token, asmError) {
	s := text.String()
	if strings.HasPrefix(s, "@") {
		name := s[1:]
		if name == "" || !identifierStartChar(name[0]) {
			return token{}, &EmptyIdentifierError{errAt(lineno)}
		}
		return token{kind: tokVar, text: name}, nil
	}
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return token{kind: tokNum, num: n}, nil
	}
	if s == "" || !identifierStartChar(s[0]) {
		return token{}, &InvalidIdentifierFormatError{errAt(lineno), s}
	}
	for i := 0; i < len(s); i++ {
		if !identifierChar(s[i]) {
			return token{}, &InvalidIdentifierFormatError{errAt(lineno), s}
		}
	}
	return token{kind: tokLabel, text: s}, nil
}
