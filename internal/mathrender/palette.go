package mathrender

import (
	"errors"
	"strings"

	"github.com/dshills/draftsmith/internal/mathspan"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

// ErrEmptySource is returned when a span has nothing between its delimiters.
var ErrEmptySource = errors.New("empty math source")

// Palette holds the colours of an overlay frame as hex strings.
type Palette struct {
	Background string
	Foreground string
	Border     string
	Page       string
}

var (
	darkPalette = Palette{
		Background: "#2d2d2d",
		Foreground: "#d4d4d4",
		Border:     "#555555",
		Page:       "#1e1e1e",
	}
	lightPalette = Palette{
		Background: "#ffffff",
		Foreground: "#1e1e1e",
		Border:     "#cccccc",
		Page:       "#ffffff",
	}
)

// PaletteFor returns the palette for a theme.
func PaletteFor(theme overlay.Theme) Palette {
	if theme == overlay.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// Body strips the delimiters of the given kind from source and trims
// surrounding whitespace.
func Body(source string, kind mathspan.Kind) string {
	delim := kind.Delimiter()
	s := strings.TrimSpace(source)
	if len(s) >= 2*len(delim) && strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) {
		s = s[len(delim) : len(s)-len(delim)]
	}
	return strings.TrimSpace(s)
}
