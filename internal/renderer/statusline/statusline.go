// Package statusline holds the state shown on the editor's bottom row:
// the overlay policy, theme and counts, the file and cursor position, and
// transient messages.
package statusline

import (
	"fmt"

	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine tracks what the status row displays.
type StatusLine struct {
	policy overlay.Policy
	theme  overlay.Theme

	filename string
	modified bool

	line       int // 1-indexed for display
	col        int // 1-indexed for display
	totalLines int
	percent    int

	visible int
	total   int

	message     string
	messageType MessageType
}

// Segments is a laid-out status line. When Message is set it replaces the
// rest of the bar.
type Segments struct {
	Mode   string
	Policy overlay.Policy
	Left   string
	Right  string

	Message     string
	MessageType MessageType
}

// New creates a new status line.
func New() *StatusLine {
	return &StatusLine{}
}

// SetPolicy updates the displayed overlay policy.
func (s *StatusLine) SetPolicy(p overlay.Policy) {
	s.policy = p
}

// SetTheme updates the displayed theme.
func (s *StatusLine) SetTheme(t overlay.Theme) {
	s.theme = t
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetPosition updates the cursor position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = line
	s.col = col
}

// SetTotalLines updates the total line count.
func (s *StatusLine) SetTotalLines(total int) {
	s.totalLines = total
}

// SetScrollPercent updates the scroll percentage.
func (s *StatusLine) SetScrollPercent(percent int) {
	s.percent = percent
}

// SetOverlays updates the visible and live overlay counts.
func (s *StatusLine) SetOverlays(visible, total int) {
	s.visible = visible
	s.total = total
}

// SetMessage displays a status message.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Segments lays out the status line.
func (s *StatusLine) Segments() Segments {
	filename := s.filename
	if filename == "" {
		filename = "[No Name]"
	}
	if s.modified {
		filename += " [+]"
	}

	return Segments{
		Mode:        " " + modeLabel(s.policy) + " ",
		Policy:      s.policy,
		Left:        fmt.Sprintf(" %s | %s | %d/%d overlays", filename, s.theme, s.visible, s.total),
		Right:       s.formatPosition(),
		Message:     s.message,
		MessageType: s.messageType,
	}
}

func modeLabel(p overlay.Policy) string {
	switch p {
	case overlay.PolicyAllSpans:
		return "ALL"
	default:
		return "FOLLOW"
	}
}

// formatPosition formats the position info for the right side, e.g.
// "Ln 12, Col 4 | 50%".
func (s *StatusLine) formatPosition() string {
	line := max(s.line, 1)
	col := max(s.col, 1)

	result := fmt.Sprintf("Ln %d, Col %d", line, col)
	if s.totalLines > 0 {
		switch {
		case line == 1:
			result += " | Top"
		case line >= s.totalLines:
			result += " | Bot"
		default:
			result += fmt.Sprintf(" | %d%%", s.percent)
		}
	}
	return result
}
