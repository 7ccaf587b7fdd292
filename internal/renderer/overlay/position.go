package overlay

import (
	"github.com/dshills/draftsmith/internal/mathspan"
	"github.com/dshills/draftsmith/internal/renderer/core"
)

// Positioner computes where an overlay is drawn.
//
// The overlay hangs below the character cell just past the span's closing
// delimiter. It is clamped so its bottom and right edges stay inside the
// viewport without crossing the left edge, and it is shrunk when larger
// than the viewport. When the anchor cell is not visible, or projection
// fails, there is no placement. A placement, when returned, always lies
// entirely inside the viewport.
type Positioner struct{}

// Place returns the screen rectangle for an overlay of the given size bound
// to span, or false when it should not be shown.
func (Positioner) Place(span mathspan.Span, host Projector, vp core.Viewport, size core.Size) (core.Rect, bool) {
	bounds := vp.Bounds()
	if bounds.IsEmpty() || size.IsZero() {
		return core.Rect{}, false
	}

	local, ok := host.ProjectOffset(span.End)
	if !ok {
		return core.Rect{}, false
	}
	cell := vp.ToScreen(local)
	if !bounds.Contains(cell.TopLeft()) {
		return core.Rect{}, false
	}

	size = size.Clamp(bounds.Size())
	anchor := cell.BottomLeft()
	x, y := anchor.X, anchor.Y

	if y+size.Height > bounds.Bottom {
		y = bounds.Bottom - size.Height
	}
	if x+size.Width > bounds.Right {
		x = bounds.Right - size.Width
	}
	if x < bounds.Left {
		x = bounds.Left
	}

	rect := core.RectFromSize(core.Pt(x, y), size)
	if !bounds.Contains(rect.TopLeft()) || !bounds.ContainsRect(rect) {
		return core.Rect{}, false
	}
	return rect, true
}
