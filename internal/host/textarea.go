package host

import (
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/draftsmith/internal/event"
	"github.com/dshills/draftsmith/internal/renderer/core"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

var _ overlay.HostEditor = (*TextArea)(nil)

// maxClusterRunes bounds the lookahead when finding the next grapheme
// cluster boundary.
const maxClusterRunes = 64

// DefaultTabWidth is the number of columns between tab stops.
const DefaultTabWidth = 4

// TextArea is an editable text view.
type TextArea struct {
	text     []rune
	lines    []int // rune offset of each line start
	cursor   int
	goalCol  int // column kept across vertical moves, -1 if unset
	revision uint64

	origin   core.Point
	size     core.Size
	scroll   core.Vector
	tabWidth int

	bus *event.Bus
}

// Option configures a TextArea.
type Option func(*TextArea)

// WithTabWidth sets the tab stop width.
func WithTabWidth(n int) Option {
	return func(t *TextArea) {
		if n > 0 {
			t.tabWidth = n
		}
	}
}

// WithOrigin sets the screen position of the view's top-left cell.
func WithOrigin(p core.Point) Option {
	return func(t *TextArea) {
		t.origin = p
	}
}

// New creates a text area of the given size holding text.
func New(text string, size core.Size, opts ...Option) *TextArea {
	t := &TextArea{
		text:     []rune(text),
		goalCol:  -1,
		size:     size,
		tabWidth: DefaultTabWidth,
		bus:      event.NewBus(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.reindex()
	return t
}

// Text returns the document text.
func (t *TextArea) Text() string {
	return string(t.text)
}

// Len returns the document length in runes.
func (t *TextArea) Len() int {
	return len(t.text)
}

// CursorOffset returns the cursor rune offset.
func (t *TextArea) CursorOffset() int {
	return t.cursor
}

// Revision returns the text revision.
func (t *TextArea) Revision() uint64 {
	return t.revision
}

// Viewport returns the current view geometry.
func (t *TextArea) Viewport() core.Viewport {
	return core.Viewport{Origin: t.origin, Size: t.size, Scroll: t.scroll}
}

// Subscribe registers a handler for change events.
func (t *TextArea) Subscribe(handler event.Handler) event.Subscription {
	return t.bus.Subscribe(handler)
}

// Bus returns the bus events are published on.
func (t *TextArea) Bus() *event.Bus {
	return t.bus
}

// TabWidth returns the tab stop width.
func (t *TextArea) TabWidth() int {
	return t.tabWidth
}

// LineCount returns the number of lines. An empty document has one line.
func (t *TextArea) LineCount() int {
	return len(t.lines)
}

// Line returns line i without its trailing newline.
func (t *TextArea) Line(i int) string {
	if i < 0 || i >= len(t.lines) {
		return ""
	}
	start, end := t.lineBounds(i)
	return string(t.text[start:end])
}

// Position returns the line and display column of offset.
func (t *TextArea) Position(offset int) (line, col int) {
	line = t.lineOf(offset)
	start, _ := t.lineBounds(line)
	return line, t.columns(t.text[start:offset])
}

// ProjectOffset returns the document-space cell of the rune at offset.
// An offset at a line end or at the end of the document projects to a
// one-column cell after the last character.
func (t *TextArea) ProjectOffset(offset int) (core.Rect, bool) {
	if offset < 0 || offset > len(t.text) {
		return core.Rect{}, false
	}
	line, col := t.Position(offset)
	width := 1
	if offset < len(t.text) {
		switch r := t.text[offset]; r {
		case '\n':
		case '\t':
			width = t.tabWidth - col%t.tabWidth
		default:
			if w := runewidth.RuneWidth(r); w > 0 {
				width = w
			}
		}
	}
	return core.RectFromSize(core.Pt(col, line), core.Sz(width, 1)), true
}

// Insert inserts s at the cursor and moves the cursor after it.
func (t *TextArea) Insert(s string) {
	if s == "" {
		return
	}
	rs := []rune(s)
	text := make([]rune, 0, len(t.text)+len(rs))
	text = append(text, t.text[:t.cursor]...)
	text = append(text, rs...)
	text = append(text, t.text[t.cursor:]...)
	t.text = text
	t.cursor += len(rs)
	t.edited()
}

// DeleteBackward removes the grapheme cluster before the cursor.
func (t *TextArea) DeleteBackward() {
	prev := t.prevBoundary(t.cursor)
	if prev == t.cursor {
		return
	}
	t.text = append(t.text[:prev], t.text[t.cursor:]...)
	t.cursor = prev
	t.edited()
}

// DeleteForward removes the grapheme cluster after the cursor.
func (t *TextArea) DeleteForward() {
	next := t.nextBoundary(t.cursor)
	if next == t.cursor {
		return
	}
	t.text = append(t.text[:t.cursor], t.text[next:]...)
	t.edited()
}

// SetText replaces the whole document, resetting cursor and scroll.
func (t *TextArea) SetText(s string) {
	t.text = []rune(s)
	t.cursor = 0
	t.goalCol = -1
	t.scroll = core.Vector{}
	t.revision++
	t.reindex()
	t.publish(event.TypeDocumentReset)
}

// MoveTo places the cursor at offset, clamped to the document.
func (t *TextArea) MoveTo(offset int) {
	t.goalCol = -1
	t.moveTo(offset)
}

// MoveLeft moves the cursor back one grapheme cluster.
func (t *TextArea) MoveLeft() {
	t.MoveTo(t.prevBoundary(t.cursor))
}

// MoveRight moves the cursor forward one grapheme cluster.
func (t *TextArea) MoveRight() {
	t.MoveTo(t.nextBoundary(t.cursor))
}

// MoveUp moves the cursor to the previous line, keeping its column.
func (t *TextArea) MoveUp() {
	t.moveLine(-1)
}

// MoveDown moves the cursor to the next line, keeping its column.
func (t *TextArea) MoveDown() {
	t.moveLine(1)
}

// Home moves the cursor to the start of its line.
func (t *TextArea) Home() {
	start, _ := t.lineBounds(t.lineOf(t.cursor))
	t.MoveTo(start)
}

// End moves the cursor to the end of its line.
func (t *TextArea) End() {
	_, end := t.lineBounds(t.lineOf(t.cursor))
	t.MoveTo(end)
}

// ScrollBy scrolls the view by dy lines, clamped to the document.
func (t *TextArea) ScrollBy(dy int) {
	t.ScrollTo(core.Vector{DX: t.scroll.DX, DY: t.scroll.DY + dy})
}

// ScrollTo sets the scroll offset. Negative components are clamped to
// zero and the vertical offset to the last line.
func (t *TextArea) ScrollTo(v core.Vector) {
	v.DX = max(v.DX, 0)
	v.DY = min(max(v.DY, 0), len(t.lines)-1)
	if v == t.scroll {
		return
	}
	t.scroll = v
	t.publish(event.TypeScrolled)
}

// Resize moves the view to origin and sets its size.
func (t *TextArea) Resize(origin core.Point, size core.Size) {
	if origin == t.origin && size == t.size {
		return
	}
	t.origin = origin
	t.size = size
	t.publish(event.TypeResized)
	t.follow()
}

func (t *TextArea) moveTo(offset int) {
	offset = min(max(offset, 0), len(t.text))
	if offset == t.cursor {
		return
	}
	t.cursor = offset
	t.publish(event.TypeCursorMoved)
	t.follow()
}

func (t *TextArea) moveLine(delta int) {
	line, col := t.Position(t.cursor)
	target := line + delta
	if target < 0 || target >= len(t.lines) {
		return
	}
	if t.goalCol < 0 {
		t.goalCol = col
	}
	t.moveTo(t.offsetAtColumn(target, t.goalCol))
}

// offsetAtColumn returns the offset on line whose column is closest to
// col without passing it.
func (t *TextArea) offsetAtColumn(line, col int) int {
	start, end := t.lineBounds(line)
	offset := start
	for offset < end {
		next := t.nextBoundary(offset)
		if t.columns(t.text[start:next]) > col {
			break
		}
		offset = next
	}
	return offset
}

func (t *TextArea) edited() {
	t.revision++
	t.goalCol = -1
	t.reindex()
	t.publish(event.TypeTextChanged)
	t.follow()
}

// follow scrolls just enough to keep the cursor cell inside the view.
func (t *TextArea) follow() {
	if t.size.IsZero() {
		return
	}
	line, col := t.Position(t.cursor)
	v := t.scroll
	if line < v.DY {
		v.DY = line
	} else if line >= v.DY+t.size.Height {
		v.DY = line - t.size.Height + 1
	}
	if col < v.DX {
		v.DX = col
	} else if col >= v.DX+t.size.Width {
		v.DX = col - t.size.Width + 1
	}
	t.ScrollTo(v)
}

func (t *TextArea) publish(typ event.Type) {
	t.bus.Publish(event.New(typ, t.revision, t.cursor))
}

func (t *TextArea) reindex() {
	t.lines = t.lines[:0]
	t.lines = append(t.lines, 0)
	for i, r := range t.text {
		if r == '\n' {
			t.lines = append(t.lines, i+1)
		}
	}
}

func (t *TextArea) lineOf(offset int) int {
	return sort.Search(len(t.lines), func(i int) bool {
		return t.lines[i] > offset
	}) - 1
}

// lineBounds returns the start and end offsets of line i, excluding the
// newline.
func (t *TextArea) lineBounds(i int) (start, end int) {
	start = t.lines[i]
	if i+1 < len(t.lines) {
		return start, t.lines[i+1] - 1
	}
	return start, len(t.text)
}

func (t *TextArea) columns(rs []rune) int {
	col := 0
	for _, r := range rs {
		if r == '\t' {
			col = (col/t.tabWidth + 1) * t.tabWidth
			continue
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}

func (t *TextArea) nextBoundary(offset int) int {
	if offset >= len(t.text) {
		return len(t.text)
	}
	end := min(offset+maxClusterRunes, len(t.text))
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(string(t.text[offset:end]), -1)
	return offset + max(len([]rune(cluster)), 1)
}

func (t *TextArea) prevBoundary(offset int) int {
	if offset <= 0 {
		return 0
	}
	start, _ := t.lineBounds(t.lineOf(offset - 1))
	state := -1
	rest := string(t.text[start:offset])
	prev := start
	for pos := start; rest != ""; {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		prev = pos
		pos += len([]rune(cluster))
	}
	return prev
}
