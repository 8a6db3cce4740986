package image

import (
	"bytes"
	"errors"
	"fmt"
	stdimage "image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
)

// ErrEmptyData is returned when image data is empty.
var ErrEmptyData = errors.New("image: empty data")

// DecodeFile decodes the image file at path with whichever registered
// format matches its content.
func DecodeFile(path string) (stdimage.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := stdimage.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image: decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Decode decodes an image from r into a new PixelBuffer.
func Decode(r io.Reader) (*PixelBuffer, error) {
	img, _, err := stdimage.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img)
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (*PixelBuffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// FromStdImage converts any standard library image to a PixelBuffer of
// the same size. Premultiplied sources are converted to straight alpha.
func FromStdImage(img stdimage.Image) (*PixelBuffer, error) {
	bounds := img.Bounds()
	buf, err := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path: NRGBA already matches the buffer layout.
	if nrgba, ok := img.(*stdimage.NRGBA); ok {
		return buf, buf.FromNRGBA(nrgba)
	}

	dst := buf.ToNRGBA()
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return buf, buf.FromNRGBA(dst)
}

// EncodePNG writes the buffer as PNG.
func (b *PixelBuffer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToNRGBA()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// SavePNG saves the buffer as a PNG file.
func (b *PixelBuffer) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
