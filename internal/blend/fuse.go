package blend

import (
	"errors"
	"fmt"

	"github.com/gogpu/ggpaint/internal/image"
)

// ErrFusionAlpha is the panic value raised when a fusion with an opacity
// other than 100 is passed to an operator. Fold the opacity into the
// buffer with MultiplyAlphaBy first.
var ErrFusionAlpha = errors.New("blend: fusion alpha must be 100")

// Fusion is the accumulating image layers are blended onto.
// Alpha is the fusion's own opacity; the operators require it to be 100
// because the buffer's alpha channel alone describes coverage.
type Fusion struct {
	Image *image.PixelBuffer
	Alpha int
}

// NewFusion wraps buf as a fully opaque fusion.
func NewFusion(buf *image.PixelBuffer) *Fusion {
	return &Fusion{Image: buf, Alpha: 100}
}

func (f *Fusion) checkAlpha() {
	if f.Alpha != 100 {
		panic(fmt.Errorf("%w (got %d)", ErrFusionAlpha, f.Alpha))
	}
}

// variant selects one specialization of the driver loop.
type variant uint8

const (
	variantTransparentFusion variant = 1 << iota // fusion may contain alpha < 255
	variantPartialAlpha                          // layer opacity below 100
	variantMasked                                // per-pixel mask present

	variantCount = 1 << iota
)

func makeVariant(transparentFusion, partialAlpha, masked bool) variant {
	var v variant
	if transparentFusion {
		v |= variantTransparentFusion
	}
	if partialAlpha {
		v |= variantPartialAlpha
	}
	if masked {
		v |= variantMasked
	}
	return v
}

// String implements fmt.Stringer.
func (v variant) String() string {
	s := "opaqueFusion"
	if v&variantTransparentFusion != 0 {
		s = "transparentFusion"
	}
	if v&variantPartialAlpha != 0 {
		s += "WithLayerAlpha"
	}
	if v&variantMasked != 0 {
		s += "Masked"
	}
	return s
}

// fuseFunc blends r of top onto fusion. r is already clipped.
type fuseFunc func(fusion, top *image.PixelBuffer, opacity int32, r image.Rect, mask *image.MaskBuffer)

// fuseTable dispatches on (mode, variant) without string assembly.
var fuseTable [ModeCount][variantCount]fuseFunc

func init() {
	for m := range ModeCount {
		for v := range variant(variantCount) {
			fuseTable[m][v] = newFuseFunc(Mode(m), v)
		}
	}
}

// newFuseFunc binds a mode and variant to the matching driver loop.
func newFuseFunc(m Mode, v variant) fuseFunc {
	fn := channelFuncs[m]
	unrounded := m.UnroundedAlpha()
	masked := v&variantMasked != 0
	partial := v&variantPartialAlpha != 0

	if v&variantTransparentFusion != 0 {
		return func(fusion, top *image.PixelBuffer, opacity int32, r image.Rect, mask *image.MaskBuffer) {
			fuseTransparent(fn, unrounded, partial, masked, fusion, top, opacity, r, mask)
		}
	}
	return func(fusion, top *image.PixelBuffer, opacity int32, r image.Rect, mask *image.MaskBuffer) {
		fuseOpaque(fn, unrounded, partial, masked, fusion, top, opacity, r, mask)
	}
}

// pixelAlpha computes the kernel alpha (hundredths) for one top pixel.
// The branches depend only on loop invariants.
func pixelAlpha(pixel int32, opacity int32, unrounded, partial, masked bool, mask *image.MaskBuffer, idx int) int32 {
	switch {
	case !masked && !partial:
		return pixel * alphaScale
	case !masked:
		return layerAlpha(pixel, opacity, unrounded)
	case !partial:
		return maskedAlpha(pixel, int32(mask.Value8(idx)), 100, unrounded)
	default:
		return maskedAlpha(pixel, int32(mask.Value8(idx)), opacity, unrounded)
	}
}

// fuseOpaque is the driver for a fusion whose pixels are all opaque. The
// fusion alpha is never read or written.
func fuseOpaque(fn channelFunc, unrounded, partial, masked bool,
	fusion, top *image.PixelBuffer, opacity int32, r image.Rect, mask *image.MaskBuffer) {
	dst, src := fusion.Data(), top.Data()
	w := fusion.Width()

	for y := r.Top; y < r.Bottom; y++ {
		i := fusion.Offset(r.Left, y)
		idx := y*w + r.Left
		for x := r.Left; x < r.Right; x, i, idx = x+1, i+image.BytesPerPixel, idx+1 {
			alpha := pixelAlpha(int32(src[i+image.ChannelA]), opacity, unrounded, partial, masked, mask, idx)
			if alpha == 0 {
				continue
			}
			dst[i+image.ChannelR] = uint8(ontoOpaque(fn, int32(src[i+image.ChannelR]), int32(dst[i+image.ChannelR]), alpha))
			dst[i+image.ChannelG] = uint8(ontoOpaque(fn, int32(src[i+image.ChannelG]), int32(dst[i+image.ChannelG]), alpha))
			dst[i+image.ChannelB] = uint8(ontoOpaque(fn, int32(src[i+image.ChannelB]), int32(dst[i+image.ChannelB]), alpha))
		}
	}
}

// fuseTransparent is the general driver: it computes a new alpha for every
// touched fusion pixel.
func fuseTransparent(fn channelFunc, unrounded, partial, masked bool,
	fusion, top *image.PixelBuffer, opacity int32, r image.Rect, mask *image.MaskBuffer) {
	dst, src := fusion.Data(), top.Data()
	w := fusion.Width()

	for y := r.Top; y < r.Bottom; y++ {
		i := fusion.Offset(r.Left, y)
		idx := y*w + r.Left
		for x := r.Left; x < r.Right; x, i, idx = x+1, i+image.BytesPerPixel, idx+1 {
			alpha := pixelAlpha(int32(src[i+image.ChannelA]), opacity, unrounded, partial, masked, mask, idx)
			if alpha == 0 {
				continue
			}
			o := newOverlap(alpha, int32(dst[i+image.ChannelA]))
			if o.newAlpha > 0 {
				dst[i+image.ChannelR] = uint8(ontoTransparent(fn, int32(src[i+image.ChannelR]), int32(dst[i+image.ChannelR]), o))
				dst[i+image.ChannelG] = uint8(ontoTransparent(fn, int32(src[i+image.ChannelG]), int32(dst[i+image.ChannelG]), o))
				dst[i+image.ChannelB] = uint8(ontoTransparent(fn, int32(src[i+image.ChannelB]), int32(dst[i+image.ChannelB]), o))
			}
			dst[i+image.ChannelA] = uint8(o.newAlpha)
		}
	}
}

// FuseImageOntoImage blends r of top onto the fusion with the given layer
// opacity (0..100) and mode.
//
// fusionHasTransparency selects the general formula; pass false only when
// every fusion pixel in r is opaque. mask may be nil; when present it must
// match the fusion's dimensions. An opacity of 0 or less does nothing.
//
// It panics with ErrFusionAlpha when fusion.Alpha is not 100, and when mode
// has no operator.
func FuseImageOntoImage(fusion *Fusion, fusionHasTransparency bool, top *image.PixelBuffer,
	topAlpha int, mode Mode, r image.Rect, mask *image.MaskBuffer) {
	fusion.checkAlpha()
	if topAlpha <= 0 {
		return
	}
	if !mode.HasOperator() {
		panic(fmt.Sprintf("blend: mode %v has no operator", mode))
	}
	if !fusion.Image.SameSize(top) {
		panic(fmt.Sprintf("blend: layer %dx%d does not match fusion %dx%d",
			top.Width(), top.Height(), fusion.Image.Width(), fusion.Image.Height()))
	}

	if mask != nil && (mask.Width() != top.Width() || mask.Height() != top.Height()) {
		panic(fmt.Sprintf("blend: mask %dx%d does not match layer %dx%d",
			mask.Width(), mask.Height(), top.Width(), top.Height()))
	}

	r = r.Clip(fusion.Image.Bounds())
	if r.IsEmpty() {
		return
	}

	opacity := min(topAlpha, 100)
	v := makeVariant(fusionHasTransparency, opacity < 100, mask != nil)
	fuseTable[mode][v](fusion.Image, top, int32(opacity), r, mask)
}
