package ggpaint

import (
	"github.com/gogpu/ggpaint/internal/blend"
	"github.com/gogpu/ggpaint/internal/image"
	"github.com/gogpu/ggpaint/internal/layer"
)

// Aliases for the types callers handle directly.
type (
	// PixelBuffer is an RGBA image with straight alpha, 4 bytes per pixel.
	PixelBuffer = image.PixelBuffer

	// MaskBuffer is a single-channel layer mask.
	MaskBuffer = image.MaskBuffer

	// Rect is an integer rectangle with exclusive right and bottom edges.
	Rect = image.Rect

	// BlendMode selects the per-channel operator of a layer or group.
	BlendMode = blend.Mode

	// Layer is an image layer.
	Layer = layer.Layer

	// Group is a layer group.
	Group = layer.Group

	// Node is a Layer or a Group.
	Node = layer.Node
)

// Blend modes. The ordinals are stable and stored in layer records.
const (
	BlendNormal      = blend.ModeNormal
	BlendMultiply    = blend.ModeMultiply
	BlendAdd         = blend.ModeAdd
	BlendScreen      = blend.ModeScreen
	BlendLighten     = blend.ModeLighten
	BlendDarken      = blend.ModeDarken
	BlendSubtract    = blend.ModeSubtract
	BlendDodge       = blend.ModeDodge
	BlendBurn        = blend.ModeBurn
	BlendOverlay     = blend.ModeOverlay
	BlendHardLight   = blend.ModeHardLight
	BlendSoftLight   = blend.ModeSoftLight
	BlendVividLight  = blend.ModeVividLight
	BlendLinearLight = blend.ModeLinearLight
	BlendPinLight    = blend.ModePinLight
	BlendPassthrough = blend.ModePassthrough
)

// RectWH returns the rectangle at (x, y) with the given size.
func RectWH(x, y, w, h int) Rect {
	return image.RectWH(x, y, w, h)
}

// NewRect returns the rectangle with the given edges.
func NewRect(left, top, right, bottom int) Rect {
	return image.NewRect(left, top, right, bottom)
}

// ParseBlendMode returns the mode with the given name, as printed by
// BlendMode.String.
func ParseBlendMode(name string) (BlendMode, error) {
	return blend.ParseMode(name)
}
