package statusline

import (
	"testing"

	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

func TestSegments(t *testing.T) {
	s := New()
	s.SetPolicy(overlay.PolicyAllSpans)
	s.SetTheme(overlay.ThemeLight)
	s.SetFilename("notes.md")
	s.SetModified(true)
	s.SetOverlays(2, 3)

	seg := s.Segments()
	if seg.Mode != " ALL " {
		t.Errorf("Mode = %q, want %q", seg.Mode, " ALL ")
	}
	if want := " notes.md [+] | light | 2/3 overlays"; seg.Left != want {
		t.Errorf("Left = %q, want %q", seg.Left, want)
	}
	if seg.Message != "" || seg.MessageType != MessageNone {
		t.Errorf("unexpected message %q (%v)", seg.Message, seg.MessageType)
	}
}

func TestSegmentsNoName(t *testing.T) {
	seg := New().Segments()
	if seg.Mode != " FOLLOW " {
		t.Errorf("Mode = %q, want %q", seg.Mode, " FOLLOW ")
	}
	if want := " [No Name] | light | 0/0 overlays"; seg.Left != want {
		t.Errorf("Left = %q, want %q", seg.Left, want)
	}
}

func TestFormatPosition(t *testing.T) {
	tests := []struct {
		line, col, total, percent int
		want                      string
	}{
		{0, 0, 0, 0, "Ln 1, Col 1"},
		{1, 5, 10, 0, "Ln 1, Col 5 | Top"},
		{10, 2, 10, 100, "Ln 10, Col 2 | Bot"},
		{4, 1, 10, 33, "Ln 4, Col 1 | 33%"},
	}

	for _, tt := range tests {
		s := New()
		s.SetPosition(tt.line, tt.col)
		s.SetTotalLines(tt.total)
		s.SetScrollPercent(tt.percent)
		if got := s.formatPosition(); got != tt.want {
			t.Errorf("formatPosition(%d,%d,%d) = %q, want %q", tt.line, tt.col, tt.total, got, tt.want)
		}
	}
}

func TestMessage(t *testing.T) {
	s := New()
	s.SetMessage("config reloaded", MessageInfo)

	if msg, typ := s.Message(); msg != "config reloaded" || typ != MessageInfo {
		t.Errorf("Message() = %q, %v", msg, typ)
	}
	if seg := s.Segments(); seg.Message != "config reloaded" {
		t.Errorf("Segments().Message = %q", seg.Message)
	}

	s.ClearMessage()
	if msg, typ := s.Message(); msg != "" || typ != MessageNone {
		t.Errorf("Message() after clear = %q, %v", msg, typ)
	}
}
