package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/draftsmith/internal/app"
	"github.com/dshills/draftsmith/internal/config"
)

func parse(t *testing.T, args ...string) (app.Options, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts, err := parseFlags(args, &stdout, &stderr)
	return opts, stdout.String() + stderr.String(), err
}

func TestParseFlags(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(doc, []byte("hello $x$"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	opts, _, err := parse(t, "-c", "/etc/draftsmith.toml", "-d", "-log-level", "warn", doc)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.ConfigPath != "/etc/draftsmith.toml" {
		t.Errorf("ConfigPath = %q, want /etc/draftsmith.toml", opts.ConfigPath)
	}
	if !opts.Debug {
		t.Error("Debug = false, want true")
	}
	if opts.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", opts.LogLevel)
	}
	if opts.Text != "hello $x$" || opts.Filename != doc {
		t.Errorf("Text, Filename = %q, %q", opts.Text, opts.Filename)
	}
}

func TestParseFlagsMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.md")

	opts, _, err := parse(t, path)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.Text != "" {
		t.Errorf("Text = %q, want empty", opts.Text)
	}
	if opts.Filename != path {
		t.Errorf("Filename = %q, want %q", opts.Filename, path)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"two files", []string{"a.md", "b.md"}, "expected at most one file, got 2"},
		{"bad log level", []string{"-log-level", "loud"}, `invalid log level "loud"`},
		{"unknown flag", []string{"-x"}, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parse(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("parseFlags(%v) error = %v, want %q", tt.args, err, tt.want)
			}
		})
	}
}

func TestParseFlagsHelpAndVersion(t *testing.T) {
	_, out, err := parse(t, "-version")
	if !errors.Is(err, errExit) {
		t.Fatalf("parseFlags(-version) error = %v, want errExit", err)
	}
	if !strings.Contains(out, "draftsmith "+version) {
		t.Errorf("version output = %q", out)
	}

	_, out, err = parse(t, "-h")
	if !errors.Is(err, errExit) {
		t.Fatalf("parseFlags(-h) error = %v, want errExit", err)
	}
	if !strings.Contains(out, "Usage: draftsmith") {
		t.Errorf("help output = %q", out)
	}
}

func TestParseFlagsDefaultConfigPath(t *testing.T) {
	opts, _, err := parse(t)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if want := config.DefaultPath(); opts.ConfigPath != want {
		t.Errorf("ConfigPath = %q, want %q", opts.ConfigPath, want)
	}
}

func TestReadTextUnreadable(t *testing.T) {
	dir := t.TempDir()

	_, err := readText(dir)
	var opErr *app.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("readText(dir) error = %v, want OperationError", err)
	}
	if opErr.Op != "load text" || opErr.Target != dir {
		t.Errorf("OperationError = %q/%q", opErr.Op, opErr.Target)
	}
}
