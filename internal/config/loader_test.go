package config

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

// fixedEnv returns an env loader that sees only vars.
func fixedEnv(vars ...string) *EnvLoader {
	l := NewEnvLoader(EnvPrefix)
	l.environ = func() []string { return vars }
	return l
}

func TestLoadTOML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[overlay]
policy = "all-spans"
reuse = true
max_width = 60

[render]
theme = "light"
async = true
workers = 4
`)

	cfg, err := NewLoader(WithFS(memfs), WithEnv(nil)).Load("/config.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Overlay.Policy != "all-spans" || !cfg.Overlay.Reuse || cfg.Overlay.MaxWidth != 60 {
		t.Errorf("Overlay = %+v", cfg.Overlay)
	}
	if cfg.Render.Theme != "light" || !cfg.Render.Async || cfg.Render.Workers != 4 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	// Untouched settings keep their defaults.
	if !cfg.Overlay.Enabled || cfg.Render.Backend != BackendTerminal || cfg.Log.Level != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
overlay:
  policy: all-spans
  border: 0
render:
  backend: html
  local_katex: /opt/katex
log:
  level: debug
`)

	cfg, err := NewLoader(WithFS(memfs), WithEnv(nil)).Load("/config.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Overlay.Policy != "all-spans" || cfg.Overlay.Border != 0 {
		t.Errorf("Overlay = %+v", cfg.Overlay)
	}
	if cfg.Render.Backend != BackendHTML || cfg.Render.LocalKaTeX != "/opt/katex" {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := NewLoader(WithFS(NewMemFS()), WithEnv(nil)).Load("/absent.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[overlay\npolicy = ")

	_, err := NewLoader(WithFS(memfs), WithEnv(nil)).Load("/bad.toml")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want ParseError", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("ParseError.Path = %q, want /bad.toml", perr.Path)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", "[overlay]\ncolour = \"red\"\n")

	_, err := NewLoader(WithFS(memfs), WithEnv(nil)).Load("/config.toml")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("Load() error = %v, want ParseError", err)
	}
}

func TestLoadInvalidValue(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", "[render]\ntheme = \"sepia\"\n")

	_, err := NewLoader(WithFS(memfs), WithEnv(nil)).Load("/config.toml")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Load() error = %v, want ValidationError", err)
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.ini", "policy=all-spans")

	_, err := NewLoader(WithFS(memfs), WithEnv(nil)).Load("/config.ini")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load() error = %v, want ErrUnknownFormat", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", "[overlay]\npolicy = \"all-spans\"\nmax_width = 60\n")

	env := fixedEnv(
		"DRAFTSMITH_OVERLAY_POLICY=cursor-follow",
		"DRAFTSMITH_RENDER_WORD_WRAP=30",
		"DRAFTSMITH_THEME=light",
		"HOME=/home/someone",
	)
	cfg, err := NewLoader(WithFS(memfs), WithEnv(env)).Load("/config.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Overlay.Policy != "cursor-follow" {
		t.Errorf("Overlay.Policy = %q, want cursor-follow", cfg.Overlay.Policy)
	}
	if cfg.Overlay.MaxWidth != 60 {
		t.Errorf("Overlay.MaxWidth = %d, want 60", cfg.Overlay.MaxWidth)
	}
	if cfg.Render.WordWrap != 30 {
		t.Errorf("Render.WordWrap = %d, want 30", cfg.Render.WordWrap)
	}
	if cfg.Render.Theme != "light" {
		t.Errorf("Render.Theme = %q, want light", cfg.Render.Theme)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"overlay": map[string]any{"policy": "all-spans", "border": 1},
		"log":     "flat",
	}
	src := map[string]any{
		"overlay": map[string]any{"border": 0},
		"log":     map[string]any{"level": "debug"},
	}

	got := DeepMerge(dst, src)
	ov := got["overlay"].(map[string]any)
	if ov["policy"] != "all-spans" || ov["border"] != 0 {
		t.Errorf("overlay = %v", ov)
	}
	if _, ok := got["log"].(map[string]any); !ok {
		t.Errorf("log = %v, want map", got["log"])
	}
}
