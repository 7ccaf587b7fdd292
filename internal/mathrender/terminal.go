package mathrender

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/draftsmith/internal/mathspan"
	"github.com/dshills/draftsmith/internal/renderer/core"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

// DefaultWordWrap is the column at which terminal output wraps.
const DefaultWordWrap = 48

// Terminal renders math as framed Unicode text for character-cell displays.
// It is safe for concurrent use; renders are serialized.
type Terminal struct {
	mu        sync.Mutex
	wordWrap  int
	cacheSize int
	renderers map[overlay.Theme]*glamour.TermRenderer
	cache     *renderCache // "hash:width:theme" -> rendered
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithWordWrap sets the wrap column. Non-positive values keep the default.
func WithWordWrap(width int) TerminalOption {
	return func(t *Terminal) {
		if width > 0 {
			t.wordWrap = width
		}
	}
}

// WithCacheSize bounds the render cache. Non-positive values keep
// DefaultCacheSize.
func WithCacheSize(n int) TerminalOption {
	return func(t *Terminal) {
		if n > 0 {
			t.cacheSize = n
		}
	}
}

// NewTerminal creates a terminal renderer with an empty cache.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{
		wordWrap:  DefaultWordWrap,
		cacheSize: DefaultCacheSize,
		renderers: make(map[overlay.Theme]*glamour.TermRenderer),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.cache = newRenderCache(t.cacheSize)
	return t
}

// Render implements overlay.Renderer.
func (t *Terminal) Render(source string, kind mathspan.Kind, theme overlay.Theme) (overlay.Rendered, error) {
	body := Body(source, kind)
	if body == "" {
		return overlay.Rendered{}, ErrEmptySource
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := cacheKey(source, t.wordWrap, theme)
	if cached, ok := t.cache.get(key); ok {
		return cached, nil
	}

	r, err := t.renderer(theme)
	if err != nil {
		return overlay.Rendered{}, fmt.Errorf("create %s renderer: %w", theme, err)
	}
	out, err := r.Render(markdown(ToUnicode(body)))
	if err != nil {
		return overlay.Rendered{}, fmt.Errorf("render %s: %w", kind, err)
	}

	framed := frameStyle(theme).Render(tidy(ansi.Strip(out)))
	rendered := overlay.Rendered{
		Content: overlay.Content{Body: framed, Format: overlay.FormatText},
		Size:    core.Sz(lipgloss.Width(framed), lipgloss.Height(framed)),
	}
	t.cache.put(key, rendered)
	return rendered, nil
}

// CacheLen reports the number of cached renders.
func (t *Terminal) CacheLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cache.len()
}

func (t *Terminal) renderer(theme overlay.Theme) (*glamour.TermRenderer, error) {
	if r, ok := t.renderers[theme]; ok {
		return r, nil
	}
	style := "light"
	if theme == overlay.ThemeDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(t.wordWrap),
	)
	if err != nil {
		return nil, err
	}
	t.renderers[theme] = r
	return r, nil
}

func frameStyle(theme overlay.Theme) lipgloss.Style {
	p := PaletteFor(theme)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		Background(lipgloss.Color(p.Background)).
		Padding(0, 1)
}

// markdown escapes converted math so glamour lays it out as plain
// paragraph text, one hard-broken line per source line.
func markdown(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, escapeMarkdown(line))
	}
	return strings.Join(lines, "  \n")
}

func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("\\`*_{}[]()<>#+-.!|~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tidy drops blank edge lines, trailing blanks and the common indent that
// glamour's document margins add.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, line := range lines {
		if line == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " "))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.Join(lines, "\n")
}

// cacheKey produces a string key from content hash, width and theme.
func cacheKey(content string, width int, theme overlay.Theme) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x:%d:%s", h[:8], width, theme)
}
