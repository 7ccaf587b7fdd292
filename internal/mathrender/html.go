package mathrender

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dshills/draftsmith/internal/mathspan"
	"github.com/dshills/draftsmith/internal/renderer/core"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

// DefaultKaTeXURL is the CDN location of the KaTeX distribution.
const DefaultKaTeXURL = "https://cdn.jsdelivr.net/npm/katex@0.15.1/dist"

// HTML renders math as a standalone KaTeX page. The reported size is an
// estimate in pixels derived from the Unicode form of the expression.
type HTML struct {
	md       goldmark.Markdown
	katexURL string
	cell     core.Size
	padding  int
}

// HTMLOption configures an HTML renderer.
type HTMLOption func(*HTML)

// WithKaTeXURL loads KaTeX from the given base URL.
func WithKaTeXURL(url string) HTMLOption {
	return func(h *HTML) {
		if url != "" {
			h.katexURL = strings.TrimRight(url, "/")
		}
	}
}

// WithLocalKaTeX loads KaTeX from a directory on disk.
func WithLocalKaTeX(dir string) HTMLOption {
	return func(h *HTML) {
		if dir != "" {
			h.katexURL = "file://" + strings.TrimRight(dir, "/")
		}
	}
}

// WithCellSize sets the pixel size of one character used for estimates.
func WithCellSize(size core.Size) HTMLOption {
	return func(h *HTML) {
		if !size.IsZero() {
			h.cell = size
		}
	}
}

// NewHTML creates an HTML renderer.
func NewHTML(opts ...HTMLOption) *HTML {
	h := &HTML{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		katexURL: DefaultKaTeXURL,
		cell:     core.Sz(10, 20),
		padding:  8,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Render implements overlay.Renderer.
func (h *HTML) Render(source string, kind mathspan.Kind, theme overlay.Theme) (overlay.Rendered, error) {
	body := Body(source, kind)
	if body == "" {
		return overlay.Rendered{}, ErrEmptySource
	}
	page, err := h.Page(source, theme)
	if err != nil {
		return overlay.Rendered{}, err
	}
	return overlay.Rendered{
		Content: overlay.Content{Body: page, Format: overlay.FormatHTML},
		Size:    h.estimate(body, kind),
	}, nil
}

// Page converts a markdown document and wraps it in a KaTeX page styled
// for theme.
func (h *HTML) Page(markdown string, theme overlay.Theme) (string, error) {
	body, err := h.Convert(markdown)
	if err != nil {
		return "", err
	}
	p := PaletteFor(theme)
	return fmt.Sprintf(pageTemplate, h.katexURL, p.Page, p.Foreground, h.padding, body), nil
}

// Convert renders markdown to HTML. Math spans are swapped for
// placeholders before conversion and restored afterwards, so markdown
// syntax inside formulas is left alone.
func (h *HTML) Convert(markdown string) (string, error) {
	spans := mathspan.Extract(markdown)
	rs := []rune(markdown)

	var src strings.Builder
	prev := 0
	for i, s := range spans {
		src.WriteString(string(rs[prev:s.Start]))
		src.WriteString(placeholder(i))
		prev = s.End
	}
	src.WriteString(string(rs[prev:]))

	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src.String()), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	out := buf.String()
	for i, s := range spans {
		out = strings.Replace(out, placeholder(i), html.EscapeString(s.Raw), 1)
	}
	return out, nil
}

func (h *HTML) estimate(body string, kind mathspan.Kind) core.Size {
	lines := strings.Split(ToUnicode(body), "\n")
	cols := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > cols {
			cols = w
		}
	}
	lineHeight := h.cell.Height
	if kind == mathspan.KindBlock {
		lineHeight = lineHeight * 3 / 2
	}
	return core.Sz(
		cols*h.cell.Width+2*h.padding,
		len(lines)*lineHeight+2*h.padding,
	)
}

func placeholder(i int) string {
	return fmt.Sprintf("DRAFTSMITHMATH%dEND", i)
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<link rel="stylesheet" href="%[1]s/katex.min.css">
<script defer src="%[1]s/katex.min.js"></script>
<script defer src="%[1]s/contrib/auto-render.min.js"></script>
<style>
body { background-color: %[2]s; color: %[3]s; margin: 0; padding: %[4]dpx; }
</style>
</head>
<body>
%[5]s
<script>
document.addEventListener("DOMContentLoaded", function() {
  renderMathInElement(document.body, {
    delimiters: [
      {left: "$$", right: "$$", display: true},
      {left: "$", right: "$", display: false}
    ]
  });
});
</script>
</body>
</html>
`
