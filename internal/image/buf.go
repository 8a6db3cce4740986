// Package image provides the pixel buffers used by ggpaint.
//
// PixelBuffer stores 8-bit RGBA pixels in a contiguous byte slice, row-major,
// top to bottom, with no padding between rows. All region operations take a
// Rect which they clip to the buffer bounds first.
package image

import (
	"errors"
	"fmt"
	stdimage "image"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrInvalidDepth is returned for mask bit depths other than 8, 16 or 32.
	ErrInvalidDepth = errors.New("image: invalid mask depth")
)

// BytesPerPixel is the size of one RGBA pixel.
const BytesPerPixel = 4

// MaxDimension is the largest width or height a buffer may have.
const MaxDimension = 1 << 15

// Channel offsets within a pixel.
const (
	ChannelR = 0
	ChannelG = 1
	ChannelB = 2
	ChannelA = 3
)

// PixelBuffer is a fixed-size RGBA byte buffer.
//
// Thread safety: PixelBuffer is not safe for concurrent mutation.
type PixelBuffer struct {
	width  int
	height int
	data   []byte
}

// NewPixelBuffer allocates a fully transparent buffer.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, ErrInvalidDimensions
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		data:   make([]byte, width*height*BytesPerPixel),
	}, nil
}

// MustPixelBuffer is like NewPixelBuffer but panics on invalid dimensions.
func MustPixelBuffer(width, height int) *PixelBuffer {
	b, err := NewPixelBuffer(width, height)
	if err != nil {
		panic(fmt.Sprintf("image: %dx%d: %v", width, height, err))
	}
	return b
}

// FromRaw wraps existing RGBA data without copying.
func FromRaw(data []byte, width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, ErrInvalidDimensions
	}
	size := width * height * BytesPerPixel
	if len(data) < size {
		return nil, ErrDataTooSmall
	}
	return &PixelBuffer{width: width, height: height, data: data[:size]}, nil
}

// Clone creates a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &PixelBuffer{width: b.width, height: b.height, data: data}
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Data returns the raw RGBA bytes.
func (b *PixelBuffer) Data() []byte { return b.data }

// Bounds returns the rectangle covering the whole buffer.
func (b *PixelBuffer) Bounds() Rect {
	return Rect{Right: b.width, Bottom: b.height}
}

// Offset returns the byte offset of pixel (x, y). Coordinates are not checked.
func (b *PixelBuffer) Offset(x, y int) int {
	return (y*b.width + x) * BytesPerPixel
}

// SameSize reports whether b and o have identical dimensions.
func (b *PixelBuffer) SameSize(o *PixelBuffer) bool {
	return b.width == o.width && b.height == o.height
}

// PackARGB packs 8-bit channels into a 32-bit ARGB value.
func PackARGB(r, g, bl, a uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(bl)
}

// UnpackARGB splits a 32-bit ARGB value into 8-bit channels.
func UnpackARGB(argb uint32) (r, g, bl, a uint8) {
	return uint8(argb >> 16), uint8(argb >> 8), uint8(argb), uint8(argb >> 24)
}

// GetPixel returns the pixel at (x, y) as packed ARGB. Coordinates outside
// the buffer are clamped to the nearest edge.
func (b *PixelBuffer) GetPixel(x, y int) uint32 {
	x = min(max(x, 0), b.width-1)
	y = min(max(y, 0), b.height-1)
	i := b.Offset(x, y)
	return PackARGB(b.data[i+ChannelR], b.data[i+ChannelG], b.data[i+ChannelB], b.data[i+ChannelA])
}

// SetPixel writes a packed ARGB value at (x, y). Out-of-bounds writes are ignored.
func (b *PixelBuffer) SetPixel(x, y int, argb uint32) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := b.Offset(x, y)
	b.data[i+ChannelR], b.data[i+ChannelG], b.data[i+ChannelB], b.data[i+ChannelA] = UnpackARGB(argb)
}

// ClearAll fills the whole buffer with an ARGB color.
func (b *PixelBuffer) ClearAll(argb uint32) {
	if argb == 0 {
		clear(b.data)
		return
	}
	b.fillRow(b.data, argb)
}

// ClearRect fills r with an ARGB color.
func (b *PixelBuffer) ClearRect(r Rect, argb uint32) {
	r = r.Clip(b.Bounds())
	if r.IsEmpty() {
		return
	}
	if r == b.Bounds() {
		b.ClearAll(argb)
		return
	}
	for y := r.Top; y < r.Bottom; y++ {
		b.fillRow(b.data[b.Offset(r.Left, y):b.Offset(r.Right, y)], argb)
	}
}

func (b *PixelBuffer) fillRow(row []byte, argb uint32) {
	cr, cg, cb, ca := UnpackARGB(argb)
	for i := 0; i < len(row); i += BytesPerPixel {
		row[i+ChannelR] = cr
		row[i+ChannelG] = cg
		row[i+ChannelB] = cb
		row[i+ChannelA] = ca
	}
}

// CopyDataFrom copies every byte of src into b. Both buffers must have the
// same dimensions.
func (b *PixelBuffer) CopyDataFrom(src *PixelBuffer) {
	if !b.SameSize(src) {
		panic(fmt.Sprintf("image: CopyDataFrom size mismatch %dx%d != %dx%d",
			b.width, b.height, src.width, src.height))
	}
	copy(b.data, src.data)
}

// CopyBitmapRect copies srcRect of src so that its top-left corner lands at
// (dstX, dstY) in b. Portions falling outside either buffer are skipped.
func (b *PixelBuffer) CopyBitmapRect(src *PixelBuffer, dstX, dstY int, srcRect Rect) {
	orig := srcRect
	srcRect = srcRect.Clip(src.Bounds())
	if srcRect.IsEmpty() {
		return
	}
	// keep the destination aligned with whatever was trimmed from the source
	dstX += srcRect.Left - orig.Left
	dstY += srcRect.Top - orig.Top
	srcRect, dst := b.Bounds().ClipSourceDest(srcRect, RectWH(dstX, dstY, 0, 0))
	if dst.IsEmpty() {
		return
	}

	if dst.Left == 0 && dst.Top == 0 && srcRect.Left == 0 && srcRect.Top == 0 &&
		b.SameSize(src) && dst == b.Bounds() {
		copy(b.data, src.data)
		return
	}

	rowBytes := dst.Width() * BytesPerPixel
	for y := 0; y < dst.Height(); y++ {
		so := src.Offset(srcRect.Left, srcRect.Top+y)
		do := b.Offset(dst.Left, dst.Top+y)
		copy(b.data[do:do+rowBytes], src.data[so:so+rowBytes])
	}
}

// CopyRectFrom copies r from src into the same position in b.
func (b *PixelBuffer) CopyRectFrom(src *PixelBuffer, r Rect) {
	b.CopyBitmapRect(src, r.Left, r.Top, r)
}

// CopyAlphaFrom copies only the alpha channel of src within r.
func (b *PixelBuffer) CopyAlphaFrom(src *PixelBuffer, r Rect) {
	r = r.Clip(b.Bounds()).Clip(src.Bounds())
	for y := r.Top; y < r.Bottom; y++ {
		di := b.Offset(r.Left, y)
		si := src.Offset(r.Left, y)
		for x := r.Left; x < r.Right; x++ {
			b.data[di+ChannelA] = src.data[si+ChannelA]
			di += BytesPerPixel
			si += BytesPerPixel
		}
	}
}

// HasAlphaInRect reports whether any pixel in r has alpha below 255.
func (b *PixelBuffer) HasAlphaInRect(r Rect) bool {
	r = r.Clip(b.Bounds())
	for y := r.Top; y < r.Bottom; y++ {
		end := b.Offset(r.Right, y)
		for i := b.Offset(r.Left, y) + ChannelA; i < end; i += BytesPerPixel {
			if b.data[i] != 0xFF {
				return true
			}
		}
	}
	return false
}

// HasAlpha reports whether any pixel in the buffer has alpha below 255.
func (b *PixelBuffer) HasAlpha() bool {
	return b.HasAlphaInRect(b.Bounds())
}

// IsTransparentInRect reports whether every pixel in r has alpha 0.
func (b *PixelBuffer) IsTransparentInRect(r Rect) bool {
	return b.GetNonTransparentBounds(r).IsEmpty()
}

// GetNonTransparentBounds shrinks initial to the smallest rectangle that
// still encloses every pixel with non-zero alpha. The result is empty when
// all pixels in initial are fully transparent.
func (b *PixelBuffer) GetNonTransparentBounds(initial Rect) Rect {
	r := initial.Clip(b.Bounds())
	if r.IsEmpty() {
		return Rect{}
	}

	rowOpaque := func(y, left, right int) bool {
		for x := left; x < right; x++ {
			if b.data[b.Offset(x, y)+ChannelA] != 0 {
				return true
			}
		}
		return false
	}
	colOpaque := func(x, top, bottom int) bool {
		for y := top; y < bottom; y++ {
			if b.data[b.Offset(x, y)+ChannelA] != 0 {
				return true
			}
		}
		return false
	}

	for r.Top < r.Bottom && !rowOpaque(r.Top, r.Left, r.Right) {
		r.Top++
	}
	if r.Top == r.Bottom {
		return Rect{}
	}
	for !rowOpaque(r.Bottom-1, r.Left, r.Right) {
		r.Bottom--
	}
	for !colOpaque(r.Left, r.Top, r.Bottom) {
		r.Left++
	}
	for !colOpaque(r.Right-1, r.Top, r.Bottom) {
		r.Right--
	}
	return r
}

// FlipHorizontal mirrors the pixels of r left to right.
func (b *PixelBuffer) FlipHorizontal(r Rect) {
	r = r.Clip(b.Bounds())
	for y := r.Top; y < r.Bottom; y++ {
		for l, rt := r.Left, r.Right-1; l < rt; l, rt = l+1, rt-1 {
			li, ri := b.Offset(l, y), b.Offset(rt, y)
			for c := 0; c < BytesPerPixel; c++ {
				b.data[li+c], b.data[ri+c] = b.data[ri+c], b.data[li+c]
			}
		}
	}
}

// FlipVertical mirrors the rows of r top to bottom.
func (b *PixelBuffer) FlipVertical(r Rect) {
	r = r.Clip(b.Bounds())
	if r.IsEmpty() {
		return
	}
	tmp := make([]byte, r.Width()*BytesPerPixel)
	for t, bt := r.Top, r.Bottom-1; t < bt; t, bt = t+1, bt-1 {
		top := b.data[b.Offset(r.Left, t):b.Offset(r.Right, t)]
		bottom := b.data[b.Offset(r.Left, bt):b.Offset(r.Right, bt)]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// Equals reports whether b and o have identical size and pixels.
func (b *PixelBuffer) Equals(o *PixelBuffer) bool {
	if !b.SameSize(o) {
		return false
	}
	for i := range b.data {
		if b.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// ToNRGBA copies the buffer into a standard library image.
func (b *PixelBuffer) ToNRGBA() *stdimage.NRGBA {
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// FromNRGBA copies a standard library image of the same size into b.
func (b *PixelBuffer) FromNRGBA(img *stdimage.NRGBA) error {
	if img.Rect.Dx() != b.width || img.Rect.Dy() != b.height {
		return fmt.Errorf("image: FromNRGBA %v into %dx%d: %w", img.Rect, b.width, b.height, ErrInvalidDimensions)
	}
	rowBytes := b.width * BytesPerPixel
	for y := 0; y < b.height; y++ {
		so := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(b.data[y*rowBytes:(y+1)*rowBytes], img.Pix[so:so+rowBytes])
	}
	return nil
}
