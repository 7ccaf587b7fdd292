package backend

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/draftsmith/internal/mathrender"
	"github.com/dshills/draftsmith/internal/renderer/core"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
	"github.com/dshills/draftsmith/internal/renderer/statusline"
)

// Labels drawn inside overlays whose content cannot be shown as text.
const (
	pendingLabel = "…"
	htmlLabel    = "[KaTeX]"
)

// Draw clears the screen and draws f.
func (t *Terminal) Draw(f Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := mathrender.PaletteFor(f.Theme)
	text := tcell.StyleDefault.
		Foreground(tcell.GetColor(p.Foreground)).
		Background(tcell.GetColor(p.Page))

	t.screen.SetStyle(text)
	t.screen.Clear()

	if f.View != nil {
		t.drawView(f.View, text)
	}
	for _, o := range f.Overlays {
		if o.Visible() {
			t.drawOverlay(o, p)
		}
	}
	t.drawStatus(f.Status, text)
	if f.View != nil {
		t.placeCursor(f.View)
	}
	t.screen.Show()
}

func (t *Terminal) drawView(v View, style tcell.Style) {
	vp := v.Viewport()
	bounds := vp.Bounds()
	tab := max(v.TabWidth(), 1)

	for row := 0; row < vp.Size.Height; row++ {
		line := vp.Scroll.DY + row
		if line >= v.LineCount() {
			break
		}
		y := vp.Origin.Y + row
		col := 0
		var last core.Point
		var lastRune rune
		var combining []rune
		flush := func() {
			if lastRune != 0 && bounds.Contains(last) {
				t.screen.SetContent(last.X, last.Y, lastRune, combining, style)
			}
			lastRune, combining = 0, nil
		}

		for _, r := range v.Line(line) {
			w := runewidth.RuneWidth(r)
			if r == '\t' {
				flush()
				col = (col/tab + 1) * tab
				continue
			}
			if w == 0 {
				if lastRune != 0 {
					combining = append(combining, r)
				}
				continue
			}
			flush()
			x := vp.Origin.X + col - vp.Scroll.DX
			if x+w <= bounds.Right {
				last, lastRune = core.Pt(x, y), r
			}
			col += w
		}
		flush()
	}
}

func (t *Terminal) drawOverlay(o *overlay.Overlay, p mathrender.Palette) {
	r := o.Rect()
	body := tcell.StyleDefault.
		Foreground(tcell.GetColor(p.Foreground)).
		Background(tcell.GetColor(p.Background))

	t.fill(r, body)

	inner := r
	if b := o.Border(); b > 0 && r.Width() > 2*b && r.Height() > 2*b {
		t.box(r, body.Foreground(tcell.GetColor(p.Border)))
		inner = core.Rect{Left: r.Left + b, Top: r.Top + b, Right: r.Right - b, Bottom: r.Bottom - b}
	}

	for i, line := range contentLines(o) {
		if i >= inner.Height() {
			break
		}
		t.text(inner.Left, inner.Top+i, inner.Right, line, body)
	}
}

// contentLines returns the text drawn inside an overlay.
func contentLines(o *overlay.Overlay) []string {
	c, ok := o.Content()
	switch {
	case !ok || c.Placeholder:
		return []string{pendingLabel}
	case c.Format == overlay.FormatHTML:
		return []string{htmlLabel}
	default:
		return strings.Split(ansi.Strip(c.Body), "\n")
	}
}

// Mode segment styles per overlay policy.
var modeStyles = map[overlay.Policy]tcell.Style{
	overlay.PolicyCursorFollow: tcell.StyleDefault.Bold(true).Background(tcell.ColorBlue).Foreground(tcell.ColorWhite),
	overlay.PolicyAllSpans:     tcell.StyleDefault.Bold(true).Background(tcell.ColorPurple).Foreground(tcell.ColorWhite),
}

// drawStatus draws the bottom row: a message when one is set, otherwise
// the mode segment, the left text and the right-aligned position.
func (t *Terminal) drawStatus(s statusline.Segments, text tcell.Style) {
	w, h := t.screen.Size()
	if h == 0 {
		return
	}
	y := h - 1
	row := core.Rect{Left: 0, Top: y, Right: w, Bottom: h}

	if s.Message != "" {
		style := text
		switch s.MessageType {
		case statusline.MessageError:
			style = text.Foreground(tcell.ColorRed).Bold(true)
		case statusline.MessageWarning:
			style = text.Foreground(tcell.ColorYellow)
		}
		t.fill(row, style)
		t.text(0, y, w, s.Message, style)
		return
	}

	bar := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	t.fill(row, bar)

	mode, ok := modeStyles[s.Policy]
	if !ok {
		mode = bar.Bold(true)
	}
	x := t.text(0, y, w, s.Mode, mode)

	right := runewidth.StringWidth(s.Right)
	start := w - right - 1
	limit := w
	if start > x {
		limit = start
		t.text(start, y, w, s.Right, bar)
	}
	t.text(x, y, limit, s.Left, bar)
}

func (t *Terminal) placeCursor(v View) {
	vp := v.Viewport()
	cell, ok := v.ProjectOffset(v.CursorOffset())
	if !ok {
		t.screen.HideCursor()
		return
	}
	p := vp.ToScreen(cell).TopLeft()
	if !vp.Bounds().Contains(p) {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(p.X, p.Y)
}

func (t *Terminal) fill(r core.Rect, style tcell.Style) {
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (t *Terminal) box(r core.Rect, style tcell.Style) {
	right, bottom := r.Right-1, r.Bottom-1
	for x := r.Left + 1; x < right; x++ {
		t.screen.SetContent(x, r.Top, '─', nil, style)
		t.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := r.Top + 1; y < bottom; y++ {
		t.screen.SetContent(r.Left, y, '│', nil, style)
		t.screen.SetContent(right, y, '│', nil, style)
	}
	t.screen.SetContent(r.Left, r.Top, '┌', nil, style)
	t.screen.SetContent(right, r.Top, '┐', nil, style)
	t.screen.SetContent(r.Left, bottom, '└', nil, style)
	t.screen.SetContent(right, bottom, '┘', nil, style)
}

// text draws s from x up to limit, clipping wide runes that would cross it.
// It returns the column after the last rune drawn.
func (t *Terminal) text(x, y, limit int, s string, style tcell.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		t.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}
