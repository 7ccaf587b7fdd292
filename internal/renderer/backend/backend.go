// Package backend draws the editor view and its math overlays to a
// terminal and translates terminal input into backend events.
package backend

import (
	"github.com/dshills/draftsmith/internal/renderer/core"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
	"github.com/dshills/draftsmith/internal/renderer/statusline"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPaste
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize event fields
	Width, Height int

	// Paste event fields; true at the start of a bracketed paste.
	PasteStart bool
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlE
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlT
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// View is the text view being drawn.
type View interface {
	Viewport() core.Viewport
	LineCount() int
	Line(i int) string
	TabWidth() int
	CursorOffset() int
	ProjectOffset(offset int) (core.Rect, bool)
}

// Frame is everything drawn in one refresh.
type Frame struct {
	View     View
	Overlays []*overlay.Overlay
	Theme    overlay.Theme
	Status   statusline.Segments
}
