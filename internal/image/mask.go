package image

import "fmt"

// MaskDepth is the bit depth of a MaskBuffer sample.
type MaskDepth uint8

// Supported mask depths.
const (
	MaskDepth8  MaskDepth = 8
	MaskDepth16 MaskDepth = 16
	MaskDepth32 MaskDepth = 32
)

// IsValid reports whether d is a supported depth.
func (d MaskDepth) IsValid() bool {
	return d == MaskDepth8 || d == MaskDepth16 || d == MaskDepth32
}

// Max returns the largest value representable at depth d.
func (d MaskDepth) Max() uint32 {
	switch d {
	case MaskDepth8:
		return 0xFF
	case MaskDepth16:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}

// MaskBuffer is a single-channel buffer with a configurable bit depth.
// A value of Depth().Max() is fully opaque, 0 is fully transparent.
type MaskBuffer struct {
	width  int
	height int
	depth  MaskDepth
	data   []uint32
}

// NewMaskBuffer allocates a mask with every sample set to 0.
func NewMaskBuffer(width, height int, depth MaskDepth) (*MaskBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !depth.IsValid() {
		return nil, fmt.Errorf("image: mask depth %d: %w", depth, ErrInvalidDepth)
	}
	return &MaskBuffer{
		width:  width,
		height: height,
		depth:  depth,
		data:   make([]uint32, width*height),
	}, nil
}

// Width returns the mask width.
func (m *MaskBuffer) Width() int { return m.width }

// Height returns the mask height.
func (m *MaskBuffer) Height() int { return m.height }

// Depth returns the bit depth of each sample.
func (m *MaskBuffer) Depth() MaskDepth { return m.depth }

// Bounds returns the rectangle covering the whole mask.
func (m *MaskBuffer) Bounds() Rect {
	return Rect{Right: m.width, Bottom: m.height}
}

// At returns the sample at (x, y), or 0 outside the mask.
func (m *MaskBuffer) At(x, y int) uint32 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set stores v at (x, y), saturating at the depth's maximum.
// Coordinates outside the mask are ignored.
func (m *MaskBuffer) Set(x, y int, v uint32) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = min(v, m.depth.Max())
}

// Fill sets every sample to v, saturating at the depth's maximum.
func (m *MaskBuffer) Fill(v uint32) {
	v = min(v, m.depth.Max())
	for i := range m.data {
		m.data[i] = v
	}
}

// FillRect sets every sample in r to v.
func (m *MaskBuffer) FillRect(r Rect, v uint32) {
	r = r.Clip(m.Bounds())
	v = min(v, m.depth.Max())
	for y := r.Top; y < r.Bottom; y++ {
		row := m.data[y*m.width+r.Left : y*m.width+r.Right]
		for i := range row {
			row[i] = v
		}
	}
}

// Clear sets every sample to 0.
func (m *MaskBuffer) Clear() {
	clear(m.data)
}

// Invert replaces every sample v with Max-v.
func (m *MaskBuffer) Invert() {
	hi := m.depth.Max()
	for i := range m.data {
		m.data[i] = hi - m.data[i]
	}
}

// Value8 returns sample i (row-major index) scaled to 0..255.
func (m *MaskBuffer) Value8(i int) uint32 {
	v := m.data[i]
	switch m.depth {
	case MaskDepth8:
		return v
	case MaskDepth16:
		return v * 255 / 0xFFFF
	default:
		return uint32(uint64(v) * 255 / 0xFFFFFFFF)
	}
}

// Clone creates a deep copy of the mask.
func (m *MaskBuffer) Clone() *MaskBuffer {
	data := make([]uint32, len(m.data))
	copy(data, m.data)
	return &MaskBuffer{width: m.width, height: m.height, depth: m.depth, data: data}
}
