package filter

import (
	"sync"

	"github.com/gogpu/ggpaint/internal/image"
)

// BoxBlur is a separable box filter.
// The horizontal and vertical passes are each run Iterations times; three
// iterations approximate a Gaussian.
type BoxBlur struct {
	// RadiusX is the horizontal radius in pixels. The window is 2*RadiusX+1 wide.
	RadiusX int

	// RadiusY is the vertical radius in pixels.
	RadiusY int

	// Iterations is the number of times both passes run. Values below 1 mean 1.
	Iterations int
}

// NewBoxBlur creates a box blur with equal radius in both directions.
func NewBoxBlur(radius, iterations int) *BoxBlur {
	return &BoxBlur{RadiusX: radius, RadiusY: radius, Iterations: iterations}
}

// Apply blurs r of buf in place. Samples outside r are not read: the edge
// pixels of r are repeated instead.
func (f *BoxBlur) Apply(buf *image.PixelBuffer, r image.Rect) {
	r = r.Clip(buf.Bounds())
	rx, ry := max(f.RadiusX, 0), max(f.RadiusY, 0)
	if r.IsEmpty() || (rx == 0 && ry == 0) {
		return
	}
	iterations := max(f.Iterations, 1)

	width, height := r.Width(), r.Height()
	work := getWorkBuffer(width * height * image.BytesPerPixel)
	defer putWorkBuffer(work)

	premultiply(buf, r, work)

	line := getWorkBuffer(max(width, height) * image.BytesPerPixel)
	defer putWorkBuffer(line)

	for it := 0; it < iterations; it++ {
		if rx > 0 {
			for y := 0; y < height; y++ {
				row := work[y*width*image.BytesPerPixel : (y+1)*width*image.BytesPerPixel]
				blurLine(row, line[:len(row)], width, image.BytesPerPixel, rx)
			}
		}
		if ry > 0 {
			for x := 0; x < width; x++ {
				blurLine(work[x*image.BytesPerPixel:], line[:height*image.BytesPerPixel],
					height, width*image.BytesPerPixel, ry)
			}
		}
	}

	unpremultiply(work, buf, r)
}

// blurLine runs one sliding-window pass over n pixels of data spaced stride
// values apart, using tmp as scratch for the source samples. The cost is
// linear in n whatever the radius.
func blurLine(data, tmp []uint32, n, stride, radius int) {
	for i := 0; i < n; i++ {
		copy(tmp[i*image.BytesPerPixel:(i+1)*image.BytesPerPixel], data[i*stride:i*stride+image.BytesPerPixel])
	}

	window := uint64(2*radius + 1)
	sample := func(i, c int) uint64 {
		i = min(max(i, 0), n-1)
		return uint64(tmp[i*image.BytesPerPixel+c])
	}

	for c := 0; c < image.BytesPerPixel; c++ {
		// seed the window around pixel 0; samples past either end repeat
		// the edge pixel, so those are added in one step each
		sum := uint64(radius) * sample(0, c)
		last := min(radius, n-1)
		for i := 0; i <= last; i++ {
			sum += sample(i, c)
		}
		if radius > n-1 {
			sum += uint64(radius-(n-1)) * sample(n-1, c)
		}
		for i := 0; i < n; i++ {
			data[i*stride+c] = uint32(sum / window)
			sum += sample(i+radius+1, c)
			sum -= sample(i-radius, c)
		}
	}
}

// premultiply copies r into work with color channels scaled by alpha.
func premultiply(buf *image.PixelBuffer, r image.Rect, work []uint32) {
	data := buf.Data()
	w := 0
	for y := r.Top; y < r.Bottom; y++ {
		i := buf.Offset(r.Left, y)
		for x := r.Left; x < r.Right; x++ {
			a := uint32(data[i+image.ChannelA])
			work[w+image.ChannelR] = uint32(data[i+image.ChannelR]) * a
			work[w+image.ChannelG] = uint32(data[i+image.ChannelG]) * a
			work[w+image.ChannelB] = uint32(data[i+image.ChannelB]) * a
			work[w+image.ChannelA] = a
			i += image.BytesPerPixel
			w += image.BytesPerPixel
		}
	}
}

// unpremultiply writes the blurred values back into r.
func unpremultiply(work []uint32, buf *image.PixelBuffer, r image.Rect) {
	data := buf.Data()
	w := 0
	for y := r.Top; y < r.Bottom; y++ {
		i := buf.Offset(r.Left, y)
		for x := r.Left; x < r.Right; x++ {
			a := work[w+image.ChannelA]
			if a == 0 {
				data[i+image.ChannelR], data[i+image.ChannelG], data[i+image.ChannelB] = 0, 0, 0
			} else {
				data[i+image.ChannelR] = uint8(min(work[w+image.ChannelR]/a, 255))
				data[i+image.ChannelG] = uint8(min(work[w+image.ChannelG]/a, 255))
				data[i+image.ChannelB] = uint8(min(work[w+image.ChannelB]/a, 255))
			}
			data[i+image.ChannelA] = uint8(a)
			i += image.BytesPerPixel
			w += image.BytesPerPixel
		}
	}
}

// workBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type workBuffer struct {
	data []uint32
}

var workBufferPool = sync.Pool{
	New: func() any {
		return &workBuffer{}
	},
}

// getWorkBuffer returns a zeroed slice of at least size elements.
func getWorkBuffer(size int) []uint32 {
	wrapper := workBufferPool.Get().(*workBuffer)
	if cap(wrapper.data) < size {
		wrapper.data = make([]uint32, size)
	}
	buf := wrapper.data[:size]
	clear(buf)
	return buf
}

// putWorkBuffer returns a slice obtained from getWorkBuffer.
func putWorkBuffer(buf []uint32) {
	// Only pool reasonably-sized buffers
	if cap(buf) <= 16*1024*1024 {
		workBufferPool.Put(&workBuffer{data: buf[:cap(buf)]})
	}
}
