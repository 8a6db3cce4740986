// Package blend implements the per-pixel blend operators used to composite
// layers onto a fusion buffer.
//
// Pixels are straight (non-premultiplied) 8-bit RGBA. All arithmetic is
// integer with truncating division so results are reproducible bit for bit
// across platforms; documents saved by one build must reload and flatten to
// identical pixels in another.
//
// Every blend mode is built from one channel function B(top, bottom) and two
// shared formulas: one for a fusion pixel known to be opaque and one for the
// general case that also computes the new alpha. The driver specializes the
// loop for four variants (opaque or transparent fusion, full or partial layer
// alpha), each optionally masked.
package blend

import (
	"fmt"
	"strings"
)

// Mode identifies a blend mode. The numeric values are stable and are
// written to documents.
type Mode uint8

// Blend modes. Passthrough is only valid on groups and has no operator.
const (
	ModeNormal Mode = iota
	ModeMultiply
	ModeAdd
	ModeScreen
	ModeLighten
	ModeDarken
	ModeSubtract
	ModeDodge
	ModeBurn
	ModeOverlay
	ModeHardLight
	ModeSoftLight
	ModeVividLight
	ModeLinearLight
	ModePinLight
	ModePassthrough
)

// ModeCount is the number of modes that have a pixel operator.
const ModeCount = int(ModePassthrough)

var modeNames = [...]string{
	ModeNormal:      "normal",
	ModeMultiply:    "multiply",
	ModeAdd:         "add",
	ModeScreen:      "screen",
	ModeLighten:     "lighten",
	ModeDarken:      "darken",
	ModeSubtract:    "subtract",
	ModeDodge:       "dodge",
	ModeBurn:        "burn",
	ModeOverlay:     "overlay",
	ModeHardLight:   "hardLight",
	ModeSoftLight:   "softLight",
	ModeVividLight:  "vividLight",
	ModeLinearLight: "linearLight",
	ModePinLight:    "pinLight",
	ModePassthrough: "passthrough",
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// IsValid reports whether m is a known mode, including Passthrough.
func (m Mode) IsValid() bool {
	return m <= ModePassthrough
}

// HasOperator reports whether m can be passed to FuseImageOntoImage.
func (m Mode) HasOperator() bool {
	return m < ModePassthrough
}

// UnroundedAlpha reports whether m consumes the exact product of pixel alpha
// and layer alpha rather than the product rounded to a whole alpha level.
func (m Mode) UnroundedAlpha() bool {
	switch m {
	case ModeMultiply, ModeAdd, ModeSubtract:
		return true
	default:
		return false
	}
}

// ParseMode looks up a mode by name, ignoring case.
func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(n, name) {
			return Mode(i), nil
		}
	}
	return ModeNormal, fmt.Errorf("blend: unknown mode %q", name)
}
