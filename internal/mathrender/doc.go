// Package mathrender turns math span sources into overlay content.
//
// Two renderers implement overlay.Renderer:
//
//   - Terminal converts LaTeX to a Unicode approximation, lays it out with
//     glamour and frames it with a lipgloss style for the active theme.
//   - HTML builds a self-contained KaTeX auto-render page, running the
//     surrounding markdown through goldmark with math preserved verbatim.
//
// Async wraps any Renderer as an overlay.AsyncRenderer backed by a bounded
// pool of goroutines; results are read from its Results channel and handed
// back to the overlay manager on the host's event loop.
package mathrender
