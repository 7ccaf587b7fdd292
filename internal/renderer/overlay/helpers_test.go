package overlay

import (
	"errors"
	"unicode/utf8"

	"github.com/dshills/draftsmith/internal/event"
	"github.com/dshills/draftsmith/internal/mathspan"
	"github.com/dshills/draftsmith/internal/renderer/core"
)

// testHost is a monospaced host: every rune is one unit wide, every line
// one unit tall.
type testHost struct {
	bus      *event.Bus
	text     string
	cursor   int
	viewport core.Viewport
	rev      uint64
	noProj   bool
}

func newTestHost(text string, cursor int) *testHost {
	return &testHost{
		bus:    event.NewBus(),
		text:   text,
		cursor: cursor,
		viewport: core.Viewport{
			Size: core.Sz(80, 24),
		},
	}
}

func (h *testHost) Text() string            { return h.text }
func (h *testHost) CursorOffset() int       { return h.cursor }
func (h *testHost) Viewport() core.Viewport { return h.viewport }

func (h *testHost) Subscribe(handler event.Handler) event.Subscription {
	return h.bus.Subscribe(handler)
}

func (h *testHost) ProjectOffset(offset int) (core.Rect, bool) {
	if h.noProj || offset < 0 || offset > utf8.RuneCountInString(h.text) {
		return core.Rect{}, false
	}
	line, col := 0, 0
	i := 0
	for _, r := range h.text {
		if i == offset {
			break
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		i++
	}
	return core.RectFromSize(core.Pt(col, line), core.Sz(1, 1)), true
}

func (h *testHost) moveCursor(offset int) {
	h.cursor = offset
	h.bus.Publish(event.New(event.TypeCursorMoved, h.rev, offset))
}

func (h *testHost) setText(text string, cursor int) {
	h.text = text
	h.cursor = cursor
	h.rev++
	h.bus.Publish(event.New(event.TypeTextChanged, h.rev, cursor))
}

func (h *testHost) scrollTo(dy int) {
	h.viewport.Scroll = core.Vector{DY: dy}
	h.bus.Publish(event.New(event.TypeScrolled, h.rev, h.cursor))
}

func (h *testHost) resizeTo(size core.Size) {
	h.viewport.Size = size
	h.bus.Publish(event.New(event.TypeResized, h.rev, h.cursor))
}

func (h *testHost) reset(text string) {
	h.text = text
	h.cursor = 0
	h.rev++
	h.bus.Publish(event.New(event.TypeDocumentReset, h.rev, 0))
}

// testRenderer sizes output by source length and records every call.
type testRenderer struct {
	calls  []string
	themes []Theme
	fail   bool
	panics bool
}

var errRender = errors.New("render failed")

func (r *testRenderer) Render(source string, kind mathspan.Kind, theme Theme) (Rendered, error) {
	r.calls = append(r.calls, source)
	r.themes = append(r.themes, theme)
	if r.panics {
		panic("boom")
	}
	if r.fail {
		return Rendered{}, errRender
	}
	return Rendered{
		Content: Content{Body: "rendered:" + source},
		Size:    core.Sz(utf8.RuneCountInString(source), 1),
	}, nil
}

// queueRenderer collects asynchronous requests for the test to answer.
type queueRenderer struct {
	requests []RenderRequest
}

func (q *queueRenderer) Submit(req RenderRequest) {
	q.requests = append(q.requests, req)
}

func (q *queueRenderer) answer(req RenderRequest) RenderResult {
	return RenderResult{
		OverlayID: req.OverlayID,
		Revision:  req.Revision,
		Rendered: Rendered{
			Content: Content{Body: "async:" + req.Source},
			Size:    core.Sz(utf8.RuneCountInString(req.Source), 1),
		},
	}
}

const scenarioText = "Here $$x^2$$ and $y$ end."
