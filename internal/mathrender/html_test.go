package mathrender

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/draftsmith/internal/mathspan"
	"github.com/dshills/draftsmith/internal/renderer/core"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

func TestHTMLConvertPreservesMath(t *testing.T) {
	h := NewHTML()

	got, err := h.Convert("Some *em* and $a*b*c$.\n\n$$x_1 < y_2$$\n")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	for _, want := range []string{"<em>em</em>", "$a*b*c$", "$$x_1 &lt; y_2$$"} {
		if !strings.Contains(got, want) {
			t.Errorf("Convert() = %q, want it to contain %q", got, want)
		}
	}
	if strings.Contains(got, "DRAFTSMITHMATH") {
		t.Errorf("Convert() left a placeholder in %q", got)
	}
}

func TestHTMLConvertManySpans(t *testing.T) {
	h := NewHTML()

	var src strings.Builder
	for i := 0; i < 12; i++ {
		src.WriteString("$v_")
		src.WriteString(string(rune('a' + i)))
		src.WriteString("$ ")
	}
	got, err := h.Convert(src.String())
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	for i := 0; i < 12; i++ {
		want := "$v_" + string(rune('a'+i)) + "$"
		if !strings.Contains(got, want) {
			t.Errorf("Convert() missing %q", want)
		}
	}
}

func TestHTMLPage(t *testing.T) {
	h := NewHTML()

	page, err := h.Page("$y$", overlay.ThemeDark)
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	for _, want := range []string{
		DefaultKaTeXURL + "/katex.min.css",
		DefaultKaTeXURL + "/contrib/auto-render.min.js",
		"renderMathInElement",
		darkPalette.Page,
		"$y$",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Page() missing %q", want)
		}
	}
}

func TestHTMLKaTeXLocation(t *testing.T) {
	tests := []struct {
		opt  HTMLOption
		want string
	}{
		{WithLocalKaTeX("/opt/katex/"), "file:///opt/katex/katex.min.js"},
		{WithKaTeXURL("https://example.com/katex/"), "https://example.com/katex/katex.min.js"},
		{WithKaTeXURL(""), DefaultKaTeXURL + "/katex.min.js"},
	}
	for _, tt := range tests {
		page, err := NewHTML(tt.opt).Page("x", overlay.ThemeLight)
		if err != nil {
			t.Fatalf("Page() error = %v", err)
		}
		if !strings.Contains(page, tt.want) {
			t.Errorf("Page() missing %q", tt.want)
		}
	}
}

func TestHTMLRenderSize(t *testing.T) {
	h := NewHTML(WithCellSize(core.Sz(10, 20)))

	inline, err := h.Render("$ab$", mathspan.KindInline, overlay.ThemeLight)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := core.Sz(36, 36); inline.Size != want {
		t.Errorf("inline Size = %v, want %v", inline.Size, want)
	}
	if inline.Content.Format != overlay.FormatHTML {
		t.Errorf("Format = %v, want FormatHTML", inline.Content.Format)
	}

	block, err := h.Render("$$ab$$", mathspan.KindBlock, overlay.ThemeLight)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := core.Sz(36, 46); block.Size != want {
		t.Errorf("block Size = %v, want %v", block.Size, want)
	}
}

func TestHTMLRenderEmpty(t *testing.T) {
	_, err := NewHTML().Render("$$ $$", mathspan.KindBlock, overlay.ThemeDark)
	if !errors.Is(err, ErrEmptySource) {
		t.Errorf("Render() error = %v, want ErrEmptySource", err)
	}
}
