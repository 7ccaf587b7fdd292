package event

import (
	"fmt"
	"time"
)

// Type identifies what changed in the host.
type Type uint8

const (
	// TypeTextChanged is published after the document text was edited.
	TypeTextChanged Type = iota + 1

	// TypeCursorMoved is published after the cursor offset changed
	// without a text edit.
	TypeCursorMoved

	// TypeScrolled is published after the view's scroll offset changed.
	TypeScrolled

	// TypeResized is published after the view's origin or size changed.
	TypeResized

	// TypeDocumentReset is published after the whole document was
	// replaced, for example when a file is loaded.
	TypeDocumentReset
)

// String returns the string representation of the event type.
func (t Type) String() string {
	switch t {
	case TypeTextChanged:
		return "text-changed"
	case TypeCursorMoved:
		return "cursor-moved"
	case TypeScrolled:
		return "scrolled"
	case TypeResized:
		return "resized"
	case TypeDocumentReset:
		return "document-reset"
	default:
		return "unknown"
	}
}

// Geometric returns true for events that only move the view.
func (t Type) Geometric() bool {
	return t == TypeScrolled || t == TypeResized
}

// Event describes a single host change.
type Event struct {
	Type Type

	// Revision is the host's text revision at publish time. It increases
	// on every text change and document reset.
	Revision uint64

	// Cursor is the cursor rune offset at publish time.
	Cursor int

	// Time is when the event was published.
	Time time.Time
}

// New creates an event stamped with the current time.
func New(typ Type, revision uint64, cursor int) Event {
	return Event{
		Type:     typ,
		Revision: revision,
		Cursor:   cursor,
		Time:     time.Now(),
	}
}

func (e Event) String() string {
	return fmt.Sprintf("%s(rev=%d, cursor=%d)", e.Type, e.Revision, e.Cursor)
}

// Handler processes an event.
type Handler func(Event)
