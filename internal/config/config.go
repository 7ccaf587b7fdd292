package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

// Config holds all settings.
type Config struct {
	Overlay OverlayConfig `toml:"overlay" yaml:"overlay"`
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// OverlayConfig controls which overlays are shown and how large they get.
// Zero sizes select the defaults of the configured render backend.
type OverlayConfig struct {
	Policy        string `toml:"policy" yaml:"policy"`
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	Reuse         bool   `toml:"reuse" yaml:"reuse"`
	MaxWidth      int    `toml:"max_width" yaml:"max_width"`
	MaxHeight     int    `toml:"max_height" yaml:"max_height"`
	DefaultWidth  int    `toml:"default_width" yaml:"default_width"`
	DefaultHeight int    `toml:"default_height" yaml:"default_height"`
	Border        int    `toml:"border" yaml:"border"`
	Debug         bool   `toml:"debug" yaml:"debug"`
}

// RenderConfig selects and tunes the math renderer.
type RenderConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Theme    string `toml:"theme" yaml:"theme"`
	Async    bool   `toml:"async" yaml:"async"`
	Workers  int    `toml:"workers" yaml:"workers"`
	WordWrap int    `toml:"word_wrap" yaml:"word_wrap"`

	// LocalKaTeX is a directory holding a KaTeX distribution. When empty
	// the HTML backend loads KaTeX from KaTeXURL.
	LocalKaTeX string `toml:"local_katex" yaml:"local_katex"`
	KaTeXURL   string `toml:"katex_url" yaml:"katex_url"`
}

// LogConfig controls logging. An empty File discards log output, since
// the terminal belongs to the editor while it runs.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// Render backends.
const (
	BackendTerminal = "terminal"
	BackendHTML     = "html"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Overlay: OverlayConfig{
			Policy:  overlay.PolicyCursorFollow.String(),
			Enabled: true,
			Border:  1,
		},
		Render: RenderConfig{
			Backend:  BackendTerminal,
			Theme:    overlay.ThemeDark.String(),
			Workers:  2,
			WordWrap: 48,
			KaTeXURL: "https://cdn.jsdelivr.net/npm/katex@0.15.1/dist",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "draftsmith", "config.toml")
}

// Limits converts the overlay size settings into overlay limits, filling
// zero values from base.
func (c OverlayConfig) Limits(base overlay.Limits) overlay.Limits {
	l := base
	if c.MaxWidth > 0 {
		l.Max.Width = c.MaxWidth
	}
	if c.MaxHeight > 0 {
		l.Max.Height = c.MaxHeight
	}
	if c.DefaultWidth > 0 {
		l.Default.Width = c.DefaultWidth
	}
	if c.DefaultHeight > 0 {
		l.Default.Height = c.DefaultHeight
	}
	l.Border = c.Border
	return l
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if _, err := overlay.ParsePolicy(c.Overlay.Policy); err != nil {
		add("overlay.policy", "must be cursor-follow or all-spans", c.Overlay.Policy)
	}
	for _, f := range []struct {
		path string
		v    int
	}{
		{"overlay.max_width", c.Overlay.MaxWidth},
		{"overlay.max_height", c.Overlay.MaxHeight},
		{"overlay.default_width", c.Overlay.DefaultWidth},
		{"overlay.default_height", c.Overlay.DefaultHeight},
		{"overlay.border", c.Overlay.Border},
	} {
		if f.v < 0 {
			add(f.path, "must not be negative", f.v)
		}
	}
	if c.Overlay.MaxWidth > 0 && c.Overlay.DefaultWidth > c.Overlay.MaxWidth {
		add("overlay.default_width", "must not exceed max_width", c.Overlay.DefaultWidth)
	}
	if c.Overlay.MaxHeight > 0 && c.Overlay.DefaultHeight > c.Overlay.MaxHeight {
		add("overlay.default_height", "must not exceed max_height", c.Overlay.DefaultHeight)
	}

	switch c.Render.Backend {
	case BackendTerminal, BackendHTML:
	default:
		add("render.backend", "must be terminal or html", c.Render.Backend)
	}
	if _, err := overlay.ParseTheme(c.Render.Theme); err != nil {
		add("render.theme", "must be light or dark", c.Render.Theme)
	}
	if c.Render.Workers < 1 || c.Render.Workers > 64 {
		add("render.workers", "must be between 1 and 64", c.Render.Workers)
	}
	if c.Render.WordWrap < 0 {
		add("render.word_wrap", "must not be negative", c.Render.WordWrap)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "must be debug, info, warn or error", c.Log.Level)
	}

	return errors.Join(errs...)
}
