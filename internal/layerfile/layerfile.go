// Package layerfile reads and writes single layer records.
//
// A record is laid out big-endian:
//
//	magic    [4]byte  "GGLR"
//	version  uint16   1
//	mode     uint16   blend mode ordinal
//	alpha    uint8    0..100
//	flags    uint8    bit 0 visible, bit 1 clipped
//	nameLen  uint32
//	name     [nameLen]byte, UTF-8
//	width    uint32
//	height   uint32
//	pixels   [width*height*4]byte, A R G B per pixel
//
// Framing of a whole document, masks and compression belong to the caller.
package layerfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/ggpaint/internal/blend"
	"github.com/gogpu/ggpaint/internal/image"
	"github.com/gogpu/ggpaint/internal/layer"
)

// Version is the record version written by Encode.
const Version = 1

// MaxNameLen bounds the name length accepted by Decode.
const MaxNameLen = 1 << 16

var magic = [4]byte{'G', 'G', 'L', 'R'}

// initialPixelCap caps the pixel storage reserved before any pixel data
// has been read.
const initialPixelCap = 1 << 20

const (
	flagVisible = 1 << iota
	flagClip
)

// Errors returned by Decode and WriteTo.
var (
	ErrBadMagic     = errors.New("layerfile: not a layer record")
	ErrVersion      = errors.New("layerfile: unsupported version")
	ErrSizeMismatch = errors.New("layerfile: layer size does not match document")
	ErrName         = errors.New("layerfile: invalid layer name")
	ErrPixelData    = errors.New("layerfile: pixel data does not match layer size")
)

// Record is the decoded content of one layer record.
type Record struct {
	BlendMode blend.Mode
	Alpha     int
	Visible   bool
	Clip      bool
	Name      string
	Width     int
	Height    int

	// Pixels holds RGBA bytes, converted from the ARGB wire order.
	Pixels []byte
}

type header struct {
	Magic   [4]byte
	Version uint16
	Mode    uint16
	Alpha   uint8
	Flags   uint8
}

// Option configures decoding.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that receives warnings about records that were
// decoded with substitutions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewRecord captures the properties and pixels of l. The pixels are copied.
func NewRecord(l *layer.Layer) *Record {
	buf := l.Image()
	return &Record{
		BlendMode: l.BlendMode(),
		Alpha:     l.Alpha(),
		Visible:   l.Visible(),
		Clip:      l.Clip(),
		Name:      l.Name(),
		Width:     buf.Width(),
		Height:    buf.Height(),
		Pixels:    bytes.Clone(buf.Data()),
	}
}

// Layer builds an unparented layer from the record.
func (r *Record) Layer() (*layer.Layer, error) {
	buf, err := image.FromRaw(r.Pixels, r.Width, r.Height)
	if err != nil {
		return nil, fmt.Errorf("layerfile: %w", err)
	}
	l := layer.NewLayerWithImage(r.Name, buf)
	l.SetBlendMode(r.BlendMode)
	l.SetAlpha(r.Alpha)
	l.SetVisible(r.Visible)
	l.SetClip(r.Clip)
	return l, nil
}

// Encode writes l as one record.
func Encode(w io.Writer, l *layer.Layer) error {
	return NewRecord(l).WriteTo(w)
}

// WriteTo writes the record. The name is normalized to NFC. The record is
// validated before anything is written, so a failed call leaves w untouched.
func (r *Record) WriteTo(w io.Writer) error {
	name := norm.NFC.String(r.Name)
	if len(name) > MaxNameLen {
		return fmt.Errorf("%w: %d bytes", ErrName, len(name))
	}
	if r.Width <= 0 || r.Height <= 0 || r.Width > image.MaxDimension || r.Height > image.MaxDimension {
		return fmt.Errorf("layerfile: %w: %dx%d", image.ErrInvalidDimensions, r.Width, r.Height)
	}
	if want := r.Width * r.Height * image.BytesPerPixel; len(r.Pixels) != want {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelData, len(r.Pixels), r.Width, r.Height)
	}

	var flags uint8
	if r.Visible {
		flags |= flagVisible
	}
	if r.Clip {
		flags |= flagClip
	}
	h := header{
		Magic:   magic,
		Version: Version,
		Mode:    uint16(r.BlendMode),
		Alpha:   uint8(min(max(r.Alpha, 0), 100)),
		Flags:   flags,
	}
	if err := binary.Write(w, binary.BigEndian, &h); err != nil {
		return fmt.Errorf("layerfile: write header: %w", err)
	}
	if err := writeUint32(w, len(name)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, name); err != nil {
		return fmt.Errorf("layerfile: write name: %w", err)
	}
	if err := writeUint32(w, r.Width); err != nil {
		return err
	}
	if err := writeUint32(w, r.Height); err != nil {
		return err
	}

	row := make([]byte, r.Width*image.BytesPerPixel)
	stride := r.Width * image.BytesPerPixel
	for y := range r.Height {
		rgbaToARGB(row, r.Pixels[y*stride:(y+1)*stride])
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("layerfile: write pixels: %w", err)
		}
	}
	return nil
}

// Decode reads one record and returns it as a layer. The record must
// describe a layer of exactly width x height pixels.
func Decode(r io.Reader, width, height int, opts ...Option) (*layer.Layer, error) {
	rec, err := ReadRecord(r, opts...)
	if err != nil {
		return nil, err
	}
	if rec.Width != width || rec.Height != height {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrSizeMismatch, rec.Width, rec.Height, width, height)
	}
	return rec.Layer()
}

// ReadRecord reads one record. Unknown blend modes decode as Normal and
// out-of-range alpha is clamped; both are logged as warnings.
func ReadRecord(r io.Reader, opts ...Option) (*Record, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("layerfile: read header: %w", err)
	}
	if h.Magic != magic {
		return nil, ErrBadMagic
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}

	nameLen, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if nameLen > MaxNameLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrName, nameLen)
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return nil, fmt.Errorf("layerfile: read name: %w", err)
	}
	if !utf8.Valid(nameBytes) {
		return nil, fmt.Errorf("%w: not UTF-8", ErrName)
	}
	name := norm.NFC.String(string(nameBytes))

	width, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	height, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || width > image.MaxDimension || height > image.MaxDimension {
		return nil, fmt.Errorf("layerfile: %w: %dx%d", image.ErrInvalidDimensions, width, height)
	}

	mode := blend.Mode(h.Mode)
	if !mode.HasOperator() {
		o.logger.Warn("layerfile: unknown blend mode, using normal",
			slog.String("layer", name), slog.Int("mode", int(h.Mode)))
		mode = blend.ModeNormal
	}
	alpha := int(h.Alpha)
	if alpha > 100 {
		o.logger.Warn("layerfile: alpha out of range",
			slog.String("layer", name), slog.Int("alpha", alpha))
		alpha = 100
	}

	// the header is untrusted: grow with the rows actually read
	stride := width * image.BytesPerPixel
	pixels := make([]byte, 0, min(stride*height, initialPixelCap))
	row := make([]byte, stride)
	for range height {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("layerfile: read pixels: %w", err)
		}
		n := len(pixels)
		pixels = append(pixels, row...)
		argbToRGBA(pixels[n:], row)
	}

	return &Record{
		BlendMode: mode,
		Alpha:     alpha,
		Visible:   h.Flags&flagVisible != 0,
		Clip:      h.Flags&flagClip != 0,
		Name:      name,
		Width:     width,
		Height:    height,
		Pixels:    pixels,
	}, nil
}

func writeUint32(w io.Writer, v int) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	if _, err := w.Write(b[:]); err != nil {
		return fmt.Errorf("layerfile: write: %w", err)
	}
	return nil
}

func readUint32(r io.Reader) (int, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("layerfile: read: %w", err)
	}
	return int(binary.BigEndian.Uint32(b[:])), nil
}

// rgbaToARGB converts one row from buffer order to wire order.
func rgbaToARGB(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+3], src[i], src[i+1], src[i+2]
	}
}

// argbToRGBA converts one row from wire order to buffer order.
func argbToRGBA(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+1], src[i+2], src[i+3], src[i]
	}
}
