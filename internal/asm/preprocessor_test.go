package asm

import (
	"strings"
	"testing"
)

func preprocess(t *testing.T, src string) []ppLine {
	t.Helper()
	lines, err := Preprocess(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	return lines
}

func TestPreprocessStripsCommentsAndBlankLines(t *testing.T) {
	lines := preprocess(t, "PUSH 1 # a comment\n\n  # whole line comment\nPOP\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
	if lines[0].stmt.mnemon != "PUSH" || lines[1].stmt.mnemon != "POP" {
		t.Fatalf("unexpected stmts: %+v", lines)
	}
}

func TestPreprocessLabelDefinition(t *testing.T) {
	lines := preprocess(t, ":start\nJUMP start\n")
	if !lines[0].stmt.isLabel || lines[0].stmt.label != "start" {
		t.Fatalf("want label stmt, got %+v", lines[0])
	}
	if lines[1].stmt.mnemon != "JUMP" || lines[1].stmt.args[0].kind != tokLabel {
		t.Fatalf("want jump-to-label stmt, got %+v", lines[1])
	}
}

func TestPreprocessEachExpansion(t *testing.T) {
	lines := preprocess(t, "@EACH n = [ 1 2 3 ]\nPUSH @n\n@END\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %+v", len(lines), lines)
	}
	for i, want := range []int64{1, 2, 3} {
		arg := lines[i].stmt.args[0]
		if arg.kind != tokNum || arg.num.Int64() != want {
			t.Fatalf("line %d: got %+v, want Num(%d)", i, arg, want)
		}
	}
}

func TestPreprocessNestedEach(t *testing.T) {
	lines := preprocess(t, "@EACH n = [ 1 2 ]\n@EACH m = [ 10 20 ]\nADD @n @m\n@END\n@END\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %+v", len(lines), lines)
	}
	want := [][2]int64{{1, 10}, {1, 20}, {2, 10}, {2, 20}}
	for i, w := range want {
		a0, a1 := lines[i].stmt.args[0], lines[i].stmt.args[1]
		if a0.num.Int64() != w[0] || a1.num.Int64() != w[1] {
			t.Fatalf("line %d: got (%v,%v), want %v", i, a0.num, a1.num, w)
		}
	}
}

func TestPreprocessMissingEnd(t *testing.T) {
	_, err := Preprocess(strings.NewReader("@EACH n = [ 1 ]\nPUSH @n\n"))
	if err == nil {
		t.Fatalf("want error for unterminated EACH")
	}
	if !strings.Contains(err.Error(), "@EACH without matching @END") {
		t.Fatalf("got %v, want MissingEnd diagnostic", err)
	}
}

func TestPreprocessExtraEnd(t *testing.T) {
	_, err := Preprocess(strings.NewReader("@END\n"))
	if err == nil {
		t.Fatalf("want error for unmatched END")
	}
	if !strings.Contains(err.Error(), "@END without matching @EACH") {
		t.Fatalf("got %v, want ExtraEnd diagnostic", err)
	}
}

func TestPreprocessAccumulatesMultipleErrors(t *testing.T) {
	_, err := Preprocess(strings.NewReader("@BOGUS\n:\nADD %\n"))
	if err == nil {
		t.Fatalf("want accumulated errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "3 errors occurred") {
		t.Fatalf("got %q, want 3 accumulated errors", msg)
	}
}
