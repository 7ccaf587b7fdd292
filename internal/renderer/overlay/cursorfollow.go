package overlay

import (
	"github.com/dshills/draftsmith/internal/event"
	"github.com/dshills/draftsmith/internal/mathspan"
)

// cursorFollow shows a single overlay for the span containing the cursor.
//
// It is a two-state machine, Hidden and Visible(span). history holds
// whether the cursor was inside a span at the previous and the current
// event; the transition taken depends on that pair, so moving within one
// span never hides and re-shows the overlay.
type cursorFollow struct {
	m *Manager

	// history is [previousInside, currentInside].
	history [2]bool

	// overlay is non-nil exactly in the Visible state.
	overlay *Overlay
}

func (p *cursorFollow) handle(ev event.Event) {
	switch ev.Type {
	case event.TypeScrolled, event.TypeResized:
		if p.overlay != nil {
			p.m.place(p.overlay)
		}
		return
	case event.TypeDocumentReset:
		p.teardown()
	}

	spans := p.m.extract()
	span, inside := mathspan.Find(spans, p.m.host.CursorOffset())

	p.m.check((p.overlay != nil) == p.history[1], "cursor-follow",
		"bound=%v but currentInside=%v", p.overlay != nil, p.history[1])
	p.push(inside)

	switch prev, cur := p.history[0], p.history[1]; {
	case !prev && cur:
		p.overlay = p.m.create(span)
		p.m.render(p.overlay)
		p.m.place(p.overlay)

	case prev && !cur:
		p.m.destroy(p.overlay)
		p.overlay = nil

	case prev && cur && !p.overlay.span.Equal(span):
		// Same overlay, new content: no hide/show in between.
		p.overlay.bind(span)
		p.m.render(p.overlay)
		p.m.place(p.overlay)

	case prev && cur:
		p.m.place(p.overlay)
	}
}

// push records the newest containment result, dropping the oldest.
func (p *cursorFollow) push(inside bool) {
	p.history[0], p.history[1] = p.history[1], inside
}

func (p *cursorFollow) rerender() {
	if p.overlay == nil {
		return
	}
	p.m.render(p.overlay)
	p.m.place(p.overlay)
}

func (p *cursorFollow) teardown() {
	if p.overlay != nil {
		p.m.destroy(p.overlay)
		p.overlay = nil
	}
	p.history = [2]bool{}
}

func (p *cursorFollow) overlays() []*Overlay {
	if p.overlay == nil {
		return nil
	}
	return []*Overlay{p.overlay}
}
