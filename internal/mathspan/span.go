// Package mathspan detects math spans in markdown text.
//
// Two delimiter forms are recognized: block math ($$ ... $$), which may span
// lines, and inline math ($ ... $). Block spans are claimed first; an inline
// match that intersects a block span is discarded. Offsets are rune
// (character) indices into the text a span was extracted from and are only
// valid for that snapshot.
package mathspan

import (
	"fmt"
	"strings"
)

// Kind distinguishes block math from inline math.
type Kind uint8

const (
	// KindBlock is display math delimited by $$.
	KindBlock Kind = iota

	// KindInline is inline math delimited by $.
	KindInline
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindInline:
		return "inline"
	default:
		return "unknown"
	}
}

// Delimiter returns the delimiter that opens and closes spans of this kind.
func (k Kind) Delimiter() string {
	if k == KindBlock {
		return "$$"
	}
	return "$"
}

// Span is a detected math region.
type Span struct {
	Kind Kind

	// Start is the rune offset of the opening delimiter (inclusive).
	Start int

	// End is the rune offset just past the closing delimiter (exclusive).
	End int

	// Raw is the matched text including delimiters.
	Raw string
}

// Len returns the span length in runes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether a cursor at offset is inside the span.
// Both ends are inclusive: a cursor sitting just before the opening
// delimiter or just after the closing one counts as inside.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

// Overlaps returns true if the two half-open ranges intersect.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Body returns the text between the delimiters.
func (s Span) Body() string {
	d := s.Kind.Delimiter()
	body := strings.TrimPrefix(s.Raw, d)
	return strings.TrimSuffix(body, d)
}

// Equal returns true if both spans have the same kind, range and text.
func (s Span) Equal(other Span) bool {
	return s == other
}

// SameContent returns true if both spans have the same kind and text,
// regardless of where they sit in the document.
func (s Span) SameContent(other Span) bool {
	return s.Kind == other.Kind && s.Raw == other.Raw
}

func (s Span) String() string {
	return fmt.Sprintf("%s[%d,%d)", s.Kind, s.Start, s.End)
}

// Find returns the first span containing offset. Spans must be sorted by
// Start, as returned by Extract.
func Find(spans []Span, offset int) (Span, bool) {
	for _, s := range spans {
		if s.Start > offset {
			break
		}
		if s.Contains(offset) {
			return s, true
		}
	}
	return Span{}, false
}

// Index returns the position of span in spans, or -1.
func Index(spans []Span, span Span) int {
	for i, s := range spans {
		if s == span {
			return i
		}
	}
	return -1
}
