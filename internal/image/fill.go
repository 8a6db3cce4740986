package image

// FloodFill fills the 4-connected region around (x, y) with argb.
//
// A pixel belongs to the region when it matches the seed pixel: all four
// channels must be equal, except when the seed is fully transparent, in
// which case only alpha is compared so leftover color in erased areas is
// ignored. Seeds outside the buffer are ignored.
func (b *PixelBuffer) FloodFill(x, y int, argb uint32) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}

	seed := b.data[b.Offset(x, y) : b.Offset(x, y)+BytesPerPixel]
	sr, sg, sb, sa := seed[ChannelR], seed[ChannelG], seed[ChannelB], seed[ChannelA]
	alphaOnly := sa == 0

	visited := make([]uint64, (b.width*b.height+63)/64)
	matches := func(px, py int) bool {
		idx := py*b.width + px
		if visited[idx>>6]&(1<<(idx&63)) != 0 {
			return false
		}
		i := idx * BytesPerPixel
		if alphaOnly {
			return b.data[i+ChannelA] == 0
		}
		return b.data[i+ChannelR] == sr && b.data[i+ChannelG] == sg &&
			b.data[i+ChannelB] == sb && b.data[i+ChannelA] == sa
	}

	cr, cg, cb, ca := UnpackARGB(argb)
	type point struct{ x, y int }
	stack := []point{{x, y}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !matches(p.x, p.y) {
			continue
		}

		x1, x2 := p.x, p.x
		for x1 > 0 && matches(x1-1, p.y) {
			x1--
		}
		for x2 < b.width-1 && matches(x2+1, p.y) {
			x2++
		}

		spanAbove, spanBelow := false, false
		for px := x1; px <= x2; px++ {
			idx := p.y*b.width + px
			visited[idx>>6] |= 1 << (idx & 63)
			i := idx * BytesPerPixel
			b.data[i+ChannelR], b.data[i+ChannelG], b.data[i+ChannelB], b.data[i+ChannelA] = cr, cg, cb, ca

			if p.y > 0 {
				m := matches(px, p.y-1)
				if m && !spanAbove {
					stack = append(stack, point{px, p.y - 1})
				}
				spanAbove = m
			}
			if p.y < b.height-1 {
				m := matches(px, p.y+1)
				if m && !spanBelow {
					stack = append(stack, point{px, p.y + 1})
				}
				spanBelow = m
			}
		}
	}
}

// gradientScale is the fixed-point resolution of the gradient position.
const gradientScale = 1 << 16

// GradientFill draws a linear gradient from (fromX, fromY) colored fromARGB
// to (toX, toY) colored toARGB over r. Pixels before the start or past the
// end take the endpoint colors. With replace the gradient overwrites the
// pixels, otherwise it is alpha-blended over them. Identical endpoints
// leave the buffer untouched.
func (b *PixelBuffer) GradientFill(r Rect, fromX, fromY, toX, toY int, fromARGB, toARGB uint32, replace bool) {
	r = r.Clip(b.Bounds())
	vx, vy := int64(toX-fromX), int64(toY-fromY)
	length2 := vx*vx + vy*vy
	if r.IsEmpty() || length2 == 0 {
		return
	}

	r0, g0, b0, a0 := UnpackARGB(fromARGB)
	r1, g1, b1, a1 := UnpackARGB(toARGB)
	lerp := func(c0, c1 uint8, t int64) uint8 {
		return uint8((int64(c0)*(gradientScale-t) + int64(c1)*t) / gradientScale)
	}

	for y := r.Top; y < r.Bottom; y++ {
		i := b.Offset(r.Left, y)
		for x := r.Left; x < r.Right; x++ {
			proj := int64(x-fromX)*vx + int64(y-fromY)*vy
			t := min(max(proj*gradientScale/length2, 0), gradientScale)

			gr, gg, gb, ga := lerp(r0, r1, t), lerp(g0, g1, t), lerp(b0, b1, t), lerp(a0, a1, t)
			px := b.data[i : i+BytesPerPixel]
			if replace {
				px[ChannelR], px[ChannelG], px[ChannelB], px[ChannelA] = gr, gg, gb, ga
			} else {
				blendNormalPixel(px, gr, gg, gb, ga)
			}
			i += BytesPerPixel
		}
	}
}

// blendNormalPixel composites a straight-alpha color over px with the
// normal mode "over" arithmetic of the blend kernels: alpha in hundredths
// of a level, split into top-only, bottom-only and shared coverage.
func blendNormalPixel(px []byte, cr, cg, cb, ca uint8) {
	if ca == 0 {
		return
	}
	const full = 255 * 100
	a := int32(ca) * 100
	ba := int32(px[ChannelA])
	newAlpha := a/100 + ba - a*ba/full
	top := a*ba/full + a*(255-ba)/full
	bottom := (full - a) * ba / full

	mix := func(c uint8, d byte) byte {
		return byte(min((int32(c)*top+int32(d)*bottom)/newAlpha, 255))
	}
	px[ChannelR] = mix(cr, px[ChannelR])
	px[ChannelG] = mix(cg, px[ChannelG])
	px[ChannelB] = mix(cb, px[ChannelB])
	px[ChannelA] = byte(newAlpha)
}
