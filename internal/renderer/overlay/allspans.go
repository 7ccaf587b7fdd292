package overlay

import (
	"github.com/dshills/draftsmith/internal/event"
	"github.com/dshills/draftsmith/internal/mathspan"
)

// allSpans shows one overlay per span in the document while enabled.
//
// By default every text change, scroll and resize tears down all overlays
// and builds fresh ones, re-rendering spans that did not change. With the
// manager's reuse option, overlays are matched to new spans by kind and
// text, only new spans are rendered, and scroll/resize re-place without
// extracting.
type allSpans struct {
	m       *Manager
	enabled bool
	list    []*Overlay
}

func (p *allSpans) handle(ev event.Event) {
	if !p.enabled || ev.Type == event.TypeCursorMoved {
		return
	}
	if !p.m.reuse {
		p.rebuild()
		return
	}
	if ev.Type.Geometric() {
		for _, o := range p.list {
			p.m.place(o)
		}
		return
	}
	p.reconcile()
}

func (p *allSpans) rebuild() {
	p.teardown()

	spans := p.m.extract()
	p.list = make([]*Overlay, 0, len(spans))
	for _, span := range spans {
		o := p.m.create(span)
		p.m.render(o)
		p.m.place(o)
		p.list = append(p.list, o)
	}
}

func (p *allSpans) reconcile() {
	type key struct {
		kind mathspan.Kind
		raw  string
	}
	free := make(map[key][]*Overlay, len(p.list))
	for _, o := range p.list {
		k := key{o.span.Kind, o.span.Raw}
		free[k] = append(free[k], o)
	}

	spans := p.m.extract()
	next := make([]*Overlay, 0, len(spans))
	for _, span := range spans {
		k := key{span.Kind, span.Raw}
		if candidates := free[k]; len(candidates) > 0 {
			o := candidates[0]
			free[k] = candidates[1:]
			o.bind(span)
			p.m.stats.Reused++
			p.m.place(o)
			next = append(next, o)
			continue
		}
		o := p.m.create(span)
		p.m.render(o)
		p.m.place(o)
		next = append(next, o)
	}

	for _, leftovers := range free {
		for _, o := range leftovers {
			p.m.destroy(o)
		}
	}
	p.list = next
}

func (p *allSpans) setEnabled(enabled bool) {
	if enabled == p.enabled {
		return
	}
	p.enabled = enabled
	if !enabled {
		p.teardown()
		return
	}
	p.rebuild()
}

func (p *allSpans) rerender() {
	for _, o := range p.list {
		p.m.render(o)
		p.m.place(o)
	}
}

func (p *allSpans) teardown() {
	for _, o := range p.list {
		p.m.destroy(o)
	}
	p.list = nil
}

func (p *allSpans) overlays() []*Overlay {
	return p.list
}
