package overlay

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/draftsmith/internal/mathspan"
	"github.com/dshills/draftsmith/internal/renderer/core"
)

// Overlay is a floating render target bound to one span.
//
// Overlays are owned by the Manager that created them; callers only read
// them. An overlay keeps its last good content when a render fails and
// reports a non-zero default size until its first content arrives.
type Overlay struct {
	id        string
	span      mathspan.Span
	limits    Limits
	content   *Content
	intrinsic core.Size
	rect      core.Rect
	visible   bool
	revision  uint64
	pending   bool
}

func newOverlay(span mathspan.Span, limits Limits) *Overlay {
	return &Overlay{
		id:     uuid.NewString(),
		span:   span,
		limits: limits,
	}
}

// ID returns the overlay's unique identifier.
func (o *Overlay) ID() string {
	return o.id
}

// Span returns the bound span.
func (o *Overlay) Span() mathspan.Span {
	return o.span
}

// Content returns the current content, if any.
func (o *Overlay) Content() (Content, bool) {
	if o.content == nil {
		return Content{}, false
	}
	return *o.content, true
}

// IntrinsicSize returns the size reported by the last successful render.
func (o *Overlay) IntrinsicSize() core.Size {
	return o.intrinsic
}

// Size returns the displayed size: the intrinsic size plus border, clamped
// to the maximum, or the default size while no real content exists.
func (o *Overlay) Size() core.Size {
	if o.content == nil || o.content.Placeholder || o.intrinsic.IsZero() {
		return o.limits.fallbackSize()
	}
	return o.intrinsic.Grow(o.limits.Border).Clamp(o.limits.Max)
}

// Rect returns the last placement. It is only meaningful while Visible.
func (o *Overlay) Rect() core.Rect {
	return o.rect
}

// Visible returns true if the overlay is shown.
func (o *Overlay) Visible() bool {
	return o.visible
}

// Revision returns the revision of the latest render request.
func (o *Overlay) Revision() uint64 {
	return o.revision
}

// Pending returns true while a render request is outstanding.
func (o *Overlay) Pending() bool {
	return o.pending
}

// Border returns the border width drawn around the content.
func (o *Overlay) Border() int {
	return o.limits.Border
}

// source returns the text handed to the renderer. Block math is passed as
// matched; inline math is trimmed and re-wrapped in single delimiters.
func (o *Overlay) source() string {
	if o.span.Kind == mathspan.KindBlock {
		return o.span.Raw
	}
	return "$" + strings.TrimSpace(o.span.Body()) + "$"
}

// nextRequest starts a new render revision.
func (o *Overlay) nextRequest(theme Theme) RenderRequest {
	o.revision++
	o.pending = true
	return RenderRequest{
		OverlayID: o.id,
		Revision:  o.revision,
		Source:    o.source(),
		Kind:      o.span.Kind,
		Theme:     theme,
	}
}

// apply stores a render result. It returns false when the result is stale.
// A failed result keeps the previous content, or installs the placeholder
// when there was none.
func (o *Overlay) apply(res RenderResult) bool {
	if res.OverlayID != o.id || res.Revision != o.revision {
		return false
	}
	o.pending = false

	if res.Err != nil {
		if o.content == nil {
			placeholder := PlaceholderContent
			o.content = &placeholder
		}
		return true
	}

	content := res.Rendered.Content
	o.content = &content
	o.intrinsic = res.Rendered.Size
	return true
}

// bind moves the overlay to a new span without touching its content.
func (o *Overlay) bind(span mathspan.Span) {
	o.span = span
}

func (o *Overlay) show(rect core.Rect) {
	o.rect = rect
	o.visible = true
}

func (o *Overlay) hide() {
	o.visible = false
}

// discard drops content and invalidates any outstanding request.
func (o *Overlay) discard() {
	o.visible = false
	o.content = nil
	o.intrinsic = core.Size{}
	o.pending = false
	o.revision++
}
