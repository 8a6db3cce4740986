package blend

// channelFunc is the per-channel blend function B(top, bottom) for the
// region where both layers cover. Inputs and output are 0..255.
type channelFunc func(top, bottom int32) int32

// channelFuncs is indexed by Mode. Every mode with an operator has an entry.
var channelFuncs = [ModeCount]channelFunc{
	ModeNormal:      blendNormal,
	ModeMultiply:    blendMultiply,
	ModeAdd:         blendAdd,
	ModeScreen:      blendScreen,
	ModeLighten:     blendLighten,
	ModeDarken:      blendDarken,
	ModeSubtract:    blendSubtract,
	ModeDodge:       blendDodge,
	ModeBurn:        blendBurn,
	ModeOverlay:     blendOverlay,
	ModeHardLight:   blendHardLight,
	ModeSoftLight:   blendSoftLight,
	ModeVividLight:  blendVividLight,
	ModeLinearLight: blendLinearLight,
	ModePinLight:    blendPinLight,
}

func blendNormal(top, _ int32) int32 {
	return top
}

func blendMultiply(top, bottom int32) int32 {
	return top * bottom / 255
}

func blendAdd(top, bottom int32) int32 {
	return min(top+bottom, 255)
}

// blendScreen: 1 - (1-S)*(1-D)
func blendScreen(top, bottom int32) int32 {
	return 255 - (255-top)*(255-bottom)/255
}

func blendLighten(top, bottom int32) int32 {
	return max(top, bottom)
}

func blendDarken(top, bottom int32) int32 {
	return min(top, bottom)
}

// blendSubtract darkens the bottom by the inverse of the top: S + D - 1.
func blendSubtract(top, bottom int32) int32 {
	return max(top+bottom-255, 0)
}

// blendDodge: D / (1 - S)
func blendDodge(top, bottom int32) int32 {
	if top == 255 {
		return 255
	}
	return min(bottom*255/(255-top), 255)
}

// blendBurn: 1 - (1 - D) / S
func blendBurn(top, bottom int32) int32 {
	if top == 0 {
		return 0
	}
	return 255 - min((255-bottom)*255/top, 255)
}

// blendOverlay is hard light with the layers swapped.
func blendOverlay(top, bottom int32) int32 {
	if bottom <= 127 {
		return 2 * top * bottom / 255
	}
	return 255 - 2*(255-top)*(255-bottom)/255
}

func blendHardLight(top, bottom int32) int32 {
	if top <= 127 {
		return 2 * top * bottom / 255
	}
	return 255 - 2*(255-top)*(255-bottom)/255
}

// blendSoftLight interpolates the bottom toward its square (dark tops) or
// its square root (light tops).
func blendSoftLight(top, bottom int32) int32 {
	if top <= 127 {
		return (2*top*bottom + softLightSquare[bottom]*(255-2*top)) / 255
	}
	return (softLightRoot[bottom]*(2*top-255) + 2*bottom*(255-top)) / 255
}

// blendVividLight is burn for dark tops and dodge for light tops, each with
// the top doubled.
func blendVividLight(top, bottom int32) int32 {
	if top <= 127 {
		if top == 0 {
			return 0
		}
		return max(255-(255-bottom)*255/(2*top), 0)
	}
	if top == 255 {
		return 255
	}
	return min(bottom*255/(2*(255-top)), 255)
}

// blendLinearLight: D + 2*S - 1
func blendLinearLight(top, bottom int32) int32 {
	return clamp255(bottom + 2*top - 255)
}

// blendPinLight is darken for dark tops and lighten for light tops.
func blendPinLight(top, bottom int32) int32 {
	if top <= 127 {
		return min(bottom, 2*top)
	}
	return max(bottom, 2*top-255)
}
