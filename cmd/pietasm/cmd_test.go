package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestCheckSucceedsOnValidSource(t *testing.T) {
	dir := t.TempDir()
	src := writeTemp(t, dir, "ok.pasm", "PUSH 1\nOUTNUM\nSTOP\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check", src})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out.String(), "ok") {
		t.Errorf("output = %q, want it to mention ok", out.String())
	}
}

func TestCheckReportsUnrecognizedCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeTemp(t, dir, "bad.pasm", "FROBNICATE\n")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", src})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an unrecognized command")
	}
}

func TestBuildWritesImage(t *testing.T) {
	dir := t.TempDir()
	src := writeTemp(t, dir, "prog.pasm", "PUSH 1\nOUTNUM\nSTOP\n")
	outPath := filepath.Join(dir, "prog.png")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"build", src, "-o", outPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("build: %v", err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("stat %s: %v", outPath, err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty PNG file")
	}
}

func TestBuildDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	src := writeTemp(t, dir, "defout.pasm", "PUSH 1\nSTOP\n")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"build", src})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "defout.png")); err != nil {
		t.Fatalf("expected default output path to exist: %v", err)
	}
}
