// Package host provides TextArea, a minimal terminal text view that the
// overlay manager can attach to.
//
// TextArea keeps the document as runes, tracks a cursor, a scroll offset
// and the screen rectangle it occupies, and projects rune offsets to
// character cells using display widths from go-runewidth. Cursor motion
// steps over whole grapheme clusters. Every mutation publishes an event on
// the TextArea's bus after the state change is complete.
//
// TextArea is not safe for concurrent use; drive it from the goroutine
// running the application's event loop.
package host
