package config

import (
	"reflect"
	"testing"
)

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)

	tests := []struct {
		env  string
		want string
	}{
		{"DRAFTSMITH_OVERLAY_POLICY", "overlay.policy"},
		{"DRAFTSMITH_OVERLAY_MAX_WIDTH", "overlay.max_width"},
		{"DRAFTSMITH_RENDER_KATEX_URL", "render.katex_url"},
		{"DRAFTSMITH_VERBOSE", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		kind reflect.Kind
		want any
	}{
		{"true", reflect.Bool, true},
		{"Off", reflect.Bool, false},
		{"1", reflect.Bool, true},
		{"0", reflect.Bool, false},
		{"maybe", reflect.Bool, "maybe"},
		{"1", reflect.Int, int64(1)},
		{"42", reflect.Int, int64(42)},
		{"wide", reflect.Int, "wide"},
		{"1", reflect.String, "1"},
		{"true", reflect.String, "true"},
		{"dark", reflect.String, "dark"},
		{"", reflect.String, ""},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in, tt.kind); got != tt.want {
			t.Errorf("parseValue(%q, %v) = %v (%T), want %v (%T)", tt.in, tt.kind, got, got, tt.want, tt.want)
		}
	}
}

func TestFieldKinds(t *testing.T) {
	tests := map[string]reflect.Kind{
		"overlay.enabled":   reflect.Bool,
		"overlay.max_width": reflect.Int,
		"render.async":      reflect.Bool,
		"render.katex_url":  reflect.String,
		"log.file":          reflect.String,
	}
	for path, want := range tests {
		if got, ok := fieldKinds[path]; !ok || got != want {
			t.Errorf("fieldKinds[%q] = %v, %v, want %v", path, got, ok, want)
		}
	}
	if _, ok := fieldKinds["log.dir"]; ok {
		t.Error("fieldKinds should not contain log.dir")
	}
}

func TestEnvSkipsUnknownVariables(t *testing.T) {
	l := fixedEnv(
		"DRAFTSMITH_LOG_DIR=/tmp/logs",
		"DRAFTSMITH_RENDER_WORKERS=3",
		"DRAFTSMITH_VERBOSE=1",
	)

	got := l.Load()
	if _, ok := got["log"]; ok {
		t.Errorf("Load() log section = %v, want none", got["log"])
	}
	r, _ := got["render"].(map[string]any)
	if r["workers"] != int64(3) {
		t.Errorf("render.workers = %v, want 3", r["workers"])
	}

	want := []string{"DRAFTSMITH_LOG_DIR", "DRAFTSMITH_VERBOSE"}
	if unknown := l.Unknown(); !reflect.DeepEqual(unknown, want) {
		t.Errorf("Unknown() = %v, want %v", unknown, want)
	}
}

func TestLoadWithStrayEnvironment(t *testing.T) {
	env := fixedEnv(
		"DRAFTSMITH_LOG_DIR=/tmp/logs",
		"DRAFTSMITH_RENDER_ASYNC=1",
		"DRAFTSMITH_OVERLAY_REUSE=0",
		"DRAFTSMITH_OVERLAY_MAX_WIDTH=50",
	)
	loader := NewLoader(WithFS(NewMemFS()), WithEnv(env))

	cfg, err := loader.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Render.Async {
		t.Error("render.async = false, want true from \"1\"")
	}
	if cfg.Overlay.Reuse {
		t.Error("overlay.reuse = true, want false from \"0\"")
	}
	if cfg.Overlay.MaxWidth != 50 {
		t.Errorf("overlay.max_width = %d, want 50", cfg.Overlay.MaxWidth)
	}
	if unknown := loader.UnknownEnv(); len(unknown) != 1 || unknown[0] != "DRAFTSMITH_LOG_DIR" {
		t.Errorf("UnknownEnv() = %v, want [DRAFTSMITH_LOG_DIR]", unknown)
	}
}

func TestEnvLoad(t *testing.T) {
	l := fixedEnv(
		"DRAFTSMITH_OVERLAY_ENABLED=false",
		"DRAFTSMITH_LOG_LEVEL=debug",
		"DRAFTSMITH_VERBOSE=1",
		"OTHER_OVERLAY_POLICY=all-spans",
	)

	got := l.Load()
	ov, _ := got["overlay"].(map[string]any)
	if ov["enabled"] != false {
		t.Errorf("overlay.enabled = %v, want false", ov["enabled"])
	}
	lg, _ := got["log"].(map[string]any)
	if lg["level"] != "debug" {
		t.Errorf("log.level = %v, want debug", lg["level"])
	}
	if len(got) != 2 {
		t.Errorf("Load() sections = %v, want overlay and log", got)
	}
}

func TestEnvLoadFromProcess(t *testing.T) {
	t.Setenv("DRAFTSMITH_RENDER_BACKEND", "html")

	got := NewEnvLoader(EnvPrefix).Load()
	r, _ := got["render"].(map[string]any)
	if r["backend"] != "html" {
		t.Errorf("render.backend = %v, want html", r["backend"])
	}
}
