package image

import "fmt"

// Rect is an axis-aligned integer rectangle. Right and Bottom are exclusive.
//
// A Rect is empty when Right <= Left or Bottom <= Top. Operations that would
// produce a negative width or height collapse to the zero Rect, but callers
// must test emptiness with IsEmpty rather than comparing against the zero value.
type Rect struct {
	Left, Top, Right, Bottom int
}

// NewRect returns the rectangle with the given edges.
func NewRect(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectWH returns the rectangle at (x, y) with the given size.
func RectWH(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the width of r, or 0 for an empty rect.
func (r Rect) Width() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of r, or 0 for an empty rect.
func (r Rect) Height() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Bottom - r.Top
}

// Area returns the number of pixels covered by r.
func (r Rect) Area() int {
	return r.Width() * r.Height()
}

// IsEmpty reports whether r covers no pixels.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// MakeEmpty returns the canonical empty rectangle.
func (r Rect) MakeEmpty() Rect {
	return Rect{}
}

// Union returns the smallest rectangle covering both r and o.
// An empty r yields o; an empty o yields r.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Rect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

// Clip returns the intersection of r and o. If either is empty, or they do
// not overlap, the result is the zero Rect.
func (r Rect) Clip(o Rect) Rect {
	if r.IsEmpty() || o.IsEmpty() {
		return Rect{}
	}
	c := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if c.IsEmpty() {
		return Rect{}
	}
	return c
}

// IsInside reports whether r lies entirely within o.
func (r Rect) IsInside(o Rect) bool {
	return r.Left >= o.Left && r.Top >= o.Top && r.Right <= o.Right && r.Bottom <= o.Bottom
}

// Contains reports whether the pixel (x, y) lies within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// ClipSourceDest prepares a copy from srcRect (in source coordinates) to a
// destination whose top-left corner is dst.Left, dst.Top. The destination is
// first sized to match srcRect, then clipped against r; srcRect shrinks on
// whichever edges the destination lost so both keep the same size.
// Both results are empty when nothing remains to copy.
func (r Rect) ClipSourceDest(src, dst Rect) (Rect, Rect) {
	dst.Right = dst.Left + src.Width()
	dst.Bottom = dst.Top + src.Height()

	if dst.Left < r.Left {
		src.Left += r.Left - dst.Left
		dst.Left = r.Left
	}
	if dst.Top < r.Top {
		src.Top += r.Top - dst.Top
		dst.Top = r.Top
	}
	if dst.Right > r.Right {
		src.Right -= dst.Right - r.Right
		dst.Right = r.Right
	}
	if dst.Bottom > r.Bottom {
		src.Bottom -= dst.Bottom - r.Bottom
		dst.Bottom = r.Bottom
	}

	if src.IsEmpty() || dst.IsEmpty() {
		return Rect{}, Rect{}
	}
	return src, dst
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Grow returns r expanded by h pixels on the left and right and v pixels on
// the top and bottom. Negative values shrink; an over-shrunk rect is empty.
func (r Rect) Grow(h, v int) Rect {
	g := Rect{Left: r.Left - h, Top: r.Top - v, Right: r.Right + h, Bottom: r.Bottom + v}
	if g.IsEmpty() {
		return Rect{}
	}
	return g
}

// Equals reports whether r and o have identical edges.
func (r Rect) Equals(o Rect) bool {
	return r == o
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}
