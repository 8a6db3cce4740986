package blend

import "math"

// Alpha values reach the kernels in hundredths of an alpha level so that
// layer opacity (a percentage) can be applied without losing precision.
const (
	alphaScale = 100
	alphaFull  = 255 * alphaScale // 25500
)

// clamp255 clamps an int32 to the byte range [0, 255].
func clamp255(x int32) int32 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// layerAlpha converts a pixel alpha (0..255) and a layer opacity (0..100)
// into the kernel's alpha in hundredths. Rounded modes snap the product to
// a whole alpha level, rounding halves up.
func layerAlpha(pixel, opacity int32, unrounded bool) int32 {
	a := pixel * opacity
	if unrounded {
		return a
	}
	return (a + alphaScale/2) / alphaScale * alphaScale
}

// maskedAlpha is layerAlpha with an additional 0..255 mask factor.
func maskedAlpha(pixel, mask, opacity int32, unrounded bool) int32 {
	a := pixel * mask * opacity
	if unrounded {
		return a / 255
	}
	return (a + alphaFull/2) / alphaFull * alphaScale
}

// Soft light lookup tables, filled once at package initialization.
var (
	softLightSquare [256]int32
	softLightRoot   [256]int32
)

func init() {
	for i := range 256 {
		softLightSquare[i] = int32(i * i / 255)
		softLightRoot[i] = int32(math.Sqrt(float64(i) * 255))
	}
}
