// Package overlay keeps floating math previews synchronized with the spans
// they describe while a document is edited, scrolled and resized.
//
// A Manager subscribes to a HostEditor's event stream. On every event it
// re-extracts math spans, decides under its Policy which spans get an
// Overlay, asks a Renderer for each overlay's content, and places each
// overlay with a Positioner so it is either fully inside the viewport or
// hidden. Rendering may be synchronous (Renderer) or asynchronous
// (AsyncRenderer); asynchronous results are matched to their request by
// overlay ID and revision and dropped when stale.
package overlay

import (
	"fmt"
	"strings"

	"github.com/dshills/draftsmith/internal/event"
	"github.com/dshills/draftsmith/internal/mathspan"
	"github.com/dshills/draftsmith/internal/renderer/core"
)

// Theme selects the colour scheme overlays are rendered with.
type Theme uint8

const (
	ThemeLight Theme = iota
	ThemeDark
)

// String returns the string representation of the theme.
func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "unknown"
	}
}

// ParseTheme parses "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("unknown theme %q", s)
	}
}

// Policy selects which spans receive overlays.
type Policy uint8

const (
	// PolicyCursorFollow shows one overlay for the span under the cursor.
	PolicyCursorFollow Policy = iota

	// PolicyAllSpans shows one overlay per span in the document.
	PolicyAllSpans
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyCursorFollow:
		return "cursor-follow"
	case PolicyAllSpans:
		return "all-spans"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "cursor-follow" or "all-spans".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cursor-follow", "cursor", "":
		return PolicyCursorFollow, nil
	case "all-spans", "all":
		return PolicyAllSpans, nil
	default:
		return PolicyCursorFollow, fmt.Errorf("unknown overlay policy %q", s)
	}
}

// Format describes how a Content body is encoded.
type Format uint8

const (
	// FormatText is plain or ANSI-styled terminal text.
	FormatText Format = iota

	// FormatHTML is a standalone HTML document.
	FormatHTML
)

// Content is the visual payload of an overlay.
type Content struct {
	Body   string
	Format Format

	// Placeholder marks neutral content shown when rendering failed and
	// nothing had been rendered before.
	Placeholder bool
}

// PlaceholderContent is shown in place of content that failed to render.
var PlaceholderContent = Content{Body: "…", Format: FormatText, Placeholder: true}

// Rendered is a renderer's output: content plus its intrinsic size.
type Rendered struct {
	Content Content
	Size    core.Size
}

// Renderer converts span source into displayable content.
//
// For block spans source is the raw text including the $$ delimiters; for
// inline spans it is the trimmed body re-wrapped in single $ delimiters.
type Renderer interface {
	Render(source string, kind mathspan.Kind, theme Theme) (Rendered, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(source string, kind mathspan.Kind, theme Theme) (Rendered, error)

// Render calls f.
func (f RendererFunc) Render(source string, kind mathspan.Kind, theme Theme) (Rendered, error) {
	return f(source, kind, theme)
}

// RenderRequest asks for one overlay's content. Revision increases with
// every request made for the same overlay.
type RenderRequest struct {
	OverlayID string
	Revision  uint64
	Source    string
	Kind      mathspan.Kind
	Theme     Theme
}

// RenderResult answers a RenderRequest.
type RenderResult struct {
	OverlayID string
	Revision  uint64
	Rendered  Rendered
	Err       error
}

// AsyncRenderer renders requests in the background. Results must be handed
// back to Manager.Deliver from the host's event loop. Submit must not call
// into the Manager itself.
type AsyncRenderer interface {
	Submit(req RenderRequest)
}

// Projector maps a document offset to a document-space rectangle.
type Projector interface {
	// ProjectOffset returns the rectangle of the character cell at offset,
	// in document coordinates (before scrolling). It returns false when
	// the offset cannot be projected.
	ProjectOffset(offset int) (core.Rect, bool)
}

// HostEditor is the editor view an overlay engine is attached to.
type HostEditor interface {
	Projector

	// Text returns the current document text.
	Text() string

	// CursorOffset returns the cursor position as a rune offset.
	CursorOffset() int

	// Viewport returns the current view geometry.
	Viewport() core.Viewport

	// Subscribe registers a handler for host change events.
	Subscribe(handler event.Handler) event.Subscription
}

// Limits bound an overlay's displayed size.
type Limits struct {
	// Max is the largest displayed size, border included.
	Max core.Size

	// Default is the displayed size before any content has arrived.
	Default core.Size

	// Border is added on every side of the intrinsic content size.
	Border int
}

// DefaultLimits returns limits for pixel-based hosts.
func DefaultLimits() Limits {
	return Limits{
		Max:     core.Sz(600, 400),
		Default: core.Sz(302, 102),
		Border:  1,
	}
}

// TerminalLimits returns limits for cell-based hosts.
func TerminalLimits() Limits {
	return Limits{
		Max:     core.Sz(60, 12),
		Default: core.Sz(12, 3),
		Border:  1,
	}
}

// fallbackSize returns a never-zero default size.
func (l Limits) fallbackSize() core.Size {
	s := l.Default.Clamp(l.Max)
	if s.Width < 1 {
		s.Width = 1
	}
	if s.Height < 1 {
		s.Height = 1
	}
	return s
}

// Logger receives diagnostic messages. *app.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Stats counts manager activity.
type Stats struct {
	Extractions    int
	Created        int
	Destroyed      int
	Reused         int
	Renders        int
	RenderFailures int
	StaleResults   int
	Placements     int
	Shows          int
	Hides          int
}
