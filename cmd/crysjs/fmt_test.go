package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const unformatted = "def run()  \n\tx = 1\t \n\n\n  x\nend"

func TestFmtCommandRequiresPath(t *testing.T) {
	err := fmtCommand(&options{})
	if err == nil {
		t.Fatalf("expected path required error")
	}
	if !strings.Contains(err.Error(), "path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeScript(t, unformatted)
	out, err := captureStdout(t, func() error {
		return fmtCommand(&options{paths: []string{path}, check: true})
	})
	if err == nil {
		t.Fatalf("expected formatting check failure")
	}
	if !strings.Contains(err.Error(), "1 file(s) need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Fatalf("check should list the file, got %q", out)
	}
}

func TestFmtCommandWriteFormatsFileInPlace(t *testing.T) {
	path := writeScript(t, unformatted)
	if err := fmtCommand(&options{paths: []string{path}, write: true}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	if got := string(updated); got != "def run()\n  x = 1\n\n  x\nend\n" {
		t.Fatalf("unexpected formatted output: %q", got)
	}
}

func TestFmtCommandPrintsFormattedOutput(t *testing.T) {
	path := writeScript(t, "puts 1  \r\nputs 2")
	out, err := captureStdout(t, func() error {
		return runCLI([]string{"crysjs", "fmt", path})
	})
	if err != nil {
		t.Fatalf("fmt command failed: %v", err)
	}
	if out != "puts 1\nputs 2\n" {
		t.Fatalf("unexpected stdout output: %q", out)
	}
}

func TestFmtCommandRejectsUnparsableFiles(t *testing.T) {
	path := writeScript(t, "def broken(\n")
	err := fmtCommand(&options{paths: []string{path}, write: true})
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("expected parse error, got %v", err)
	}
	original, _ := os.ReadFile(path)
	if string(original) != "def broken(\n" {
		t.Fatalf("unparsable file must be left alone, got %q", original)
	}
}

func TestFmtCommandFormatsDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.rb"), "x = 1  \n")
	writeFile(t, filepath.Join(root, "nested", "b.crys"), "y = 2\t\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "trailing  \n")

	if err := runCLI([]string{"crysjs", "fmt", "-w", root}); err != nil {
		t.Fatalf("fmt directory failed: %v", err)
	}
	if err := runCLI([]string{"crysjs", "fmt", "--check", root}); err != nil {
		t.Fatalf("expected no formatting diffs after write, got %v", err)
	}

	notes, _ := os.ReadFile(filepath.Join(root, "notes.txt"))
	if string(notes) != "trailing  \n" {
		t.Fatalf("non-script files must be skipped, got %q", notes)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank lines only", "\n\n\n", ""},
		{"leading blank lines", "\n\nx = 1", "x = 1\n"},
		{"nested tabs", "if x\n\t\ty\nend", "if x\n    y\nend\n"},
		{"cr endings", "a = 1\rb = 2\r", "a = 1\nb = 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatSource(tt.in)
			if err != nil {
				t.Fatalf("format: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSourceRefusesParseErrors(t *testing.T) {
	out, err := formatSource("x = (1 +\n")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	if out != "" {
		t.Fatalf("refused sources should produce no output, got %q", out)
	}
}
