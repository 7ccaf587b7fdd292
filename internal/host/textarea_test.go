package host

import (
	"testing"

	"github.com/dshills/draftsmith/internal/event"
	"github.com/dshills/draftsmith/internal/renderer/core"
)

// recorder collects published events.
type recorder struct {
	events []event.Event
}

func (r *recorder) handle(ev event.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) types() []event.Type {
	out := make([]event.Type, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recorder) reset() {
	r.events = nil
}

func newRecorded(text string, size core.Size) (*TextArea, *recorder) {
	t := New(text, size)
	rec := &recorder{}
	t.Subscribe(rec.handle)
	return t, rec
}

func equalTypes(a, b []event.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProjectOffset(t *testing.T) {
	ta := New("ab\ncd\n日本x\n\tx", core.Sz(80, 24))

	tests := []struct {
		offset int
		want   core.Rect
		ok     bool
	}{
		{0, core.RectFromSize(core.Pt(0, 0), core.Sz(1, 1)), true},
		{2, core.RectFromSize(core.Pt(2, 0), core.Sz(1, 1)), true},
		{4, core.RectFromSize(core.Pt(1, 1), core.Sz(1, 1)), true},
		{6, core.RectFromSize(core.Pt(0, 2), core.Sz(2, 1)), true},
		{8, core.RectFromSize(core.Pt(4, 2), core.Sz(1, 1)), true},
		{10, core.RectFromSize(core.Pt(0, 3), core.Sz(4, 1)), true},
		{11, core.RectFromSize(core.Pt(4, 3), core.Sz(1, 1)), true},
		{12, core.RectFromSize(core.Pt(5, 3), core.Sz(1, 1)), true},
		{13, core.Rect{}, false},
		{-1, core.Rect{}, false},
	}
	for _, tt := range tests {
		got, ok := ta.ProjectOffset(tt.offset)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ProjectOffset(%d) = %v, %v, want %v, %v", tt.offset, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLines(t *testing.T) {
	ta := New("one\ntwo\n", core.Sz(80, 24))

	if n := ta.LineCount(); n != 3 {
		t.Fatalf("LineCount() = %d, want 3", n)
	}
	for i, want := range []string{"one", "two", ""} {
		if got := ta.Line(i); got != want {
			t.Errorf("Line(%d) = %q, want %q", i, got, want)
		}
	}
	if got := ta.Line(5); got != "" {
		t.Errorf("Line(5) = %q, want empty", got)
	}
}

func TestInsert(t *testing.T) {
	ta, rec := newRecorded("ac", core.Sz(80, 24))
	ta.MoveTo(1)
	rec.reset()

	ta.Insert("b")

	if got := ta.Text(); got != "abc" {
		t.Errorf("Text() = %q, want %q", got, "abc")
	}
	if got := ta.CursorOffset(); got != 2 {
		t.Errorf("CursorOffset() = %d, want 2", got)
	}
	if len(rec.events) != 1 {
		t.Fatalf("published %d events, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Type != event.TypeTextChanged || ev.Revision != 1 || ev.Cursor != 2 {
		t.Errorf("event = %v, want text-changed(rev=1, cursor=2)", ev)
	}
}

func TestDeleteGraphemes(t *testing.T) {
	ta := New("ae\u0301z", core.Sz(80, 24))
	ta.MoveTo(3)

	ta.DeleteBackward()
	if got := ta.Text(); got != "az" {
		t.Errorf("Text() after DeleteBackward = %q, want %q", got, "az")
	}
	if got := ta.CursorOffset(); got != 1 {
		t.Errorf("CursorOffset() = %d, want 1", got)
	}

	ta.DeleteForward()
	if got := ta.Text(); got != "a" {
		t.Errorf("Text() after DeleteForward = %q, want %q", got, "a")
	}

	rev := ta.Revision()
	ta.DeleteForward()
	if ta.Revision() != rev {
		t.Error("DeleteForward at end of text should not change the revision")
	}
}

func TestDeleteBackwardJoinsLines(t *testing.T) {
	ta := New("ab\ncd", core.Sz(80, 24))
	ta.MoveTo(3)

	ta.DeleteBackward()
	if got := ta.Text(); got != "abcd" {
		t.Errorf("Text() = %q, want %q", got, "abcd")
	}
	if n := ta.LineCount(); n != 1 {
		t.Errorf("LineCount() = %d, want 1", n)
	}
}

func TestMoveByGrapheme(t *testing.T) {
	ta := New("🇯🇵x", core.Sz(80, 24))

	ta.MoveRight()
	if got := ta.CursorOffset(); got != 2 {
		t.Errorf("CursorOffset() after MoveRight = %d, want 2", got)
	}
	ta.MoveRight()
	ta.MoveLeft()
	ta.MoveLeft()
	if got := ta.CursorOffset(); got != 0 {
		t.Errorf("CursorOffset() after MoveLeft = %d, want 0", got)
	}
}

func TestMoveVerticalKeepsColumn(t *testing.T) {
	ta := New("abcdef\nab\nabcdef", core.Sz(80, 24))
	ta.MoveTo(5)

	ta.MoveDown()
	if got := ta.CursorOffset(); got != 9 {
		t.Errorf("CursorOffset() after first MoveDown = %d, want 9", got)
	}
	ta.MoveDown()
	if got := ta.CursorOffset(); got != 15 {
		t.Errorf("CursorOffset() after second MoveDown = %d, want 15", got)
	}
	ta.MoveUp()
	ta.MoveUp()
	if got := ta.CursorOffset(); got != 5 {
		t.Errorf("CursorOffset() after MoveUp = %d, want 5", got)
	}
}

func TestHomeEnd(t *testing.T) {
	ta := New("ab\ncdef", core.Sz(80, 24))
	ta.MoveTo(4)

	ta.End()
	if got := ta.CursorOffset(); got != 7 {
		t.Errorf("CursorOffset() after End = %d, want 7", got)
	}
	ta.Home()
	if got := ta.CursorOffset(); got != 3 {
		t.Errorf("CursorOffset() after Home = %d, want 3", got)
	}
}

func TestCursorFollowScrolls(t *testing.T) {
	ta, rec := newRecorded("1\n2\n3\n4", core.Sz(10, 2))

	ta.MoveTo(ta.Len())

	if got := ta.Viewport().Scroll; got != (core.Vector{DY: 2}) {
		t.Errorf("Scroll = %v, want {0 2}", got)
	}
	want := []event.Type{event.TypeCursorMoved, event.TypeScrolled}
	if got := rec.types(); !equalTypes(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestScrollTo(t *testing.T) {
	ta, rec := newRecorded("a\nb\nc", core.Sz(10, 1))

	ta.ScrollTo(core.Vector{DX: -3, DY: 10})
	if got := ta.Viewport().Scroll; got != (core.Vector{DY: 2}) {
		t.Errorf("Scroll = %v, want {0 2}", got)
	}
	ta.ScrollBy(0)
	if len(rec.events) != 1 {
		t.Errorf("published %d events, want 1", len(rec.events))
	}
}

func TestResize(t *testing.T) {
	ta, rec := newRecorded("x", core.Sz(10, 5))

	ta.Resize(core.Pt(2, 1), core.Sz(20, 5))

	vp := ta.Viewport()
	if vp.Origin != core.Pt(2, 1) || vp.Size != core.Sz(20, 5) {
		t.Errorf("Viewport() = %+v, want origin (2,1) size 20x5", vp)
	}
	if got := rec.types(); !equalTypes(got, []event.Type{event.TypeResized}) {
		t.Errorf("events = %v, want [resized]", got)
	}
}

func TestSetText(t *testing.T) {
	ta, rec := newRecorded("old\ntext", core.Sz(10, 1))
	ta.MoveTo(ta.Len())
	rec.reset()

	ta.SetText("new")

	if ta.CursorOffset() != 0 || ta.Viewport().Scroll != (core.Vector{}) {
		t.Errorf("cursor = %d, scroll = %v, want 0 and zero", ta.CursorOffset(), ta.Viewport().Scroll)
	}
	if got := rec.types(); !equalTypes(got, []event.Type{event.TypeDocumentReset}) {
		t.Errorf("events = %v, want [document-reset]", got)
	}
}
