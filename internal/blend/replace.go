package blend

import "github.com/gogpu/ggpaint/internal/image"

// ReplaceOntoFusion overwrites r of the fusion with top, used to lay down the
// bottom-most layer of a composite without any blending math. At opacity
// 100 color and alpha are copied as is; otherwise the color is copied and
// the alpha is scaled by the opacity, rounded like the normal mode kernel.
// A nil mask means no mask.
func ReplaceOntoFusion(fusion *Fusion, top *image.PixelBuffer, topAlpha int, r image.Rect, mask *image.MaskBuffer) {
	fusion.checkAlpha()
	r = r.Clip(fusion.Image.Bounds())
	if r.IsEmpty() {
		return
	}
	if topAlpha <= 0 {
		fusion.Image.ClearRect(r, 0)
		return
	}
	opacity := int32(min(topAlpha, 100))

	if opacity == 100 && mask == nil {
		fusion.Image.CopyRectFrom(top, r)
		return
	}

	dst, src := fusion.Image.Data(), top.Data()
	w := fusion.Image.Width()
	for y := r.Top; y < r.Bottom; y++ {
		i := fusion.Image.Offset(r.Left, y)
		idx := y*w + r.Left
		for x := r.Left; x < r.Right; x, i, idx = x+1, i+image.BytesPerPixel, idx+1 {
			alpha := pixelAlpha(int32(src[i+image.ChannelA]), opacity, false, opacity < 100, mask != nil, mask, idx)
			copy(dst[i:i+image.ChannelA], src[i:i+image.ChannelA])
			dst[i+image.ChannelA] = uint8(alpha / alphaScale)
		}
	}
}

// ReplaceAlphaOntoFusion overwrites only the alpha channel of r with the
// alpha of top, optionally scaled by mask. Clipping groups use it to restore
// the base layer's footprint after each clipped layer is blended.
func ReplaceAlphaOntoFusion(fusion *Fusion, top *image.PixelBuffer, r image.Rect, mask *image.MaskBuffer) {
	fusion.checkAlpha()
	r = r.Clip(fusion.Image.Bounds())
	if r.IsEmpty() {
		return
	}
	if mask == nil {
		fusion.Image.CopyAlphaFrom(top, r)
		return
	}

	dst, src := fusion.Image.Data(), top.Data()
	w := fusion.Image.Width()
	for y := r.Top; y < r.Bottom; y++ {
		i := fusion.Image.Offset(r.Left, y)
		idx := y*w + r.Left
		for x := r.Left; x < r.Right; x, i, idx = x+1, i+image.BytesPerPixel, idx+1 {
			alpha := maskedAlpha(int32(src[i+image.ChannelA]), int32(mask.Value8(idx)), 100, false)
			dst[i+image.ChannelA] = uint8(alpha / alphaScale)
		}
	}
}

// MultiplyAlphaBy scales the alpha of every pixel by alpha percent.
// 0 clears the buffer and 100 leaves it unchanged.
func MultiplyAlphaBy(buf *image.PixelBuffer, alpha int) {
	MultiplyAlphaByRect(buf, alpha, buf.Bounds())
}

// MultiplyAlphaByRect is MultiplyAlphaBy restricted to r.
func MultiplyAlphaByRect(buf *image.PixelBuffer, alpha int, r image.Rect) {
	r = r.Clip(buf.Bounds())
	switch {
	case r.IsEmpty() || alpha >= 100:
		return
	case alpha <= 0:
		buf.ClearRect(r, 0)
		return
	}

	data := buf.Data()
	a := uint32(alpha)
	for y := r.Top; y < r.Bottom; y++ {
		end := buf.Offset(r.Right, y)
		for i := buf.Offset(r.Left, y) + image.ChannelA; i < end; i += image.BytesPerPixel {
			data[i] = uint8(uint32(data[i]) * a / 100)
		}
	}
}

// CopyAndMultiplyAlphaBy copies r of src into dst and scales the copied
// alpha by alpha percent in the same pass.
func CopyAndMultiplyAlphaBy(dst, src *image.PixelBuffer, alpha int, r image.Rect) {
	r = r.Clip(dst.Bounds()).Clip(src.Bounds())
	switch {
	case r.IsEmpty():
		return
	case alpha >= 100:
		if r == dst.Bounds() && dst.SameSize(src) {
			dst.CopyDataFrom(src)
		} else {
			dst.CopyRectFrom(src, r)
		}
		return
	case alpha <= 0:
		dst.ClearRect(r, 0)
		return
	}

	d, s := dst.Data(), src.Data()
	a := uint32(alpha)
	for y := r.Top; y < r.Bottom; y++ {
		di, si := dst.Offset(r.Left, y), src.Offset(r.Left, y)
		for x := r.Left; x < r.Right; x, di, si = x+1, di+image.BytesPerPixel, si+image.BytesPerPixel {
			copy(d[di:di+image.ChannelA], s[si:si+image.ChannelA])
			d[di+image.ChannelA] = uint8(uint32(s[si+image.ChannelA]) * a / 100)
		}
	}
}
