// Package core provides the geometry types shared by the overlay engine,
// its hosts and its renderers.
//
// All coordinates are integer logical units. A terminal host maps one unit
// to one cell; a graphical host maps one unit to one device-independent pixel.
package core

import "fmt"

// Point is a position in logical units.
type Point struct {
	X int
	Y int
}

// Pt creates a point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the point moved by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Sub returns the point moved by the inverse of v.
func (p Point) Sub(v Vector) Point {
	return Point{X: p.X - v.DX, Y: p.Y - v.DY}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Vector is a displacement, such as a scroll offset.
type Vector struct {
	DX int
	DY int
}

// Size is a width and height pair.
type Size struct {
	Width  int
	Height int
}

// Sz creates a size.
func Sz(width, height int) Size {
	return Size{Width: width, Height: height}
}

// IsZero returns true if either dimension is not positive.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Clamp returns s bounded above by limit in each dimension.
// Non-positive limit dimensions are ignored.
func (s Size) Clamp(limit Size) Size {
	if limit.Width > 0 && s.Width > limit.Width {
		s.Width = limit.Width
	}
	if limit.Height > 0 && s.Height > limit.Height {
		s.Height = limit.Height
	}
	return s
}

// Grow returns s enlarged by n on every side.
func (s Size) Grow(n int) Size {
	return Size{Width: s.Width + 2*n, Height: s.Height + 2*n}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect represents a rectangular region.
type Rect struct {
	Left   int // First column (inclusive)
	Top    int // First row (inclusive)
	Right  int // Last column (exclusive)
	Bottom int // Last row (exclusive)
}

// RectFromSize creates a rectangle from its top-left corner and size.
func RectFromSize(origin Point, size Size) Rect {
	return Rect{
		Left:   origin.X,
		Top:    origin.Y,
		Right:  origin.X + size.Width,
		Bottom: origin.Y + size.Height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// Size returns the rectangle's size.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Point {
	return Point{X: r.Left, Y: r.Top}
}

// BottomLeft returns the bottom-left corner (exclusive row).
func (r Rect) BottomLeft() Point {
	return Point{X: r.Left, Y: r.Bottom}
}

// BottomRight returns the bottom-right corner (both exclusive).
func (r Rect) BottomRight() Point {
	return Point{X: r.Right, Y: r.Bottom}
}

// Contains returns true if p is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right &&
		p.Y >= r.Top && p.Y < r.Bottom
}

// ContainsRect returns true if other is entirely within r.
// An empty other is contained when its corner lies within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.Left >= r.Left && other.Right <= r.Right &&
		other.Top >= r.Top && other.Bottom <= r.Bottom
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right && r.Right > other.Left &&
		r.Top < other.Bottom && r.Bottom > other.Top
}

// Translate returns the rectangle moved by v.
func (r Rect) Translate(v Vector) Rect {
	return Rect{
		Left:   r.Left + v.DX,
		Top:    r.Top + v.DY,
		Right:  r.Right + v.DX,
		Bottom: r.Bottom + v.DY,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.Left, r.Top, r.Width(), r.Height())
}

// Viewport is the visible region of a host view.
//
// Origin is the screen position of the view's top-left corner, Size its
// visible extent and Scroll the document-space offset of the first visible
// unit. Hosts supply it; the overlay engine only reads it.
type Viewport struct {
	Origin Point
	Size   Size
	Scroll Vector
}

// Bounds returns the viewport rectangle in screen space.
func (v Viewport) Bounds() Rect {
	return RectFromSize(v.Origin, v.Size)
}

// ToScreen maps a document-space rectangle into screen space.
func (v Viewport) ToScreen(r Rect) Rect {
	return r.Translate(Vector{
		DX: v.Origin.X - v.Scroll.DX,
		DY: v.Origin.Y - v.Scroll.DY,
	})
}
