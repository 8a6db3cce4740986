package blend

import (
	"errors"
	"hash/fnv"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/ggpaint/internal/image"
)

// solid returns a w x h buffer filled with argb.
func solid(w, h int, argb uint32) *image.PixelBuffer {
	b := image.MustPixelBuffer(w, h)
	b.ClearAll(argb)
	return b
}

// noise returns a buffer of pseudo-random pixels. With opaque set every
// alpha is 255.
func noise(rng *rand.Rand, w, h int, opaque bool) *image.PixelBuffer {
	b := image.MustPixelBuffer(w, h)
	d := b.Data()
	for i := range d {
		d[i] = uint8(rng.IntN(256))
	}
	if opaque {
		for i := image.ChannelA; i < len(d); i += image.BytesPerPixel {
			d[i] = 255
		}
	}
	return b
}

func fullMask(w, h int, v uint32) *image.MaskBuffer {
	m, err := image.NewMaskBuffer(w, h, image.MaskDepth8)
	if err != nil {
		panic(err)
	}
	m.Fill(v)
	return m
}

func TestFuse_HalfBlueOverRed(t *testing.T) {
	for _, transparent := range []bool{false, true} {
		fusion := NewFusion(solid(1, 1, 0xFFFF0000))
		FuseImageOntoImage(fusion, transparent, solid(1, 1, 0xFF0000FF), 50, ModeNormal, fusion.Image.Bounds(), nil)

		r, g, b, a := image.UnpackARGB(fusion.Image.GetPixel(0, 0))
		if r != 127 || g != 0 || b != 128 || a != 255 {
			t.Errorf("transparent=%v: got (%d,%d,%d,%d), want (127,0,128,255)", transparent, r, g, b, a)
		}
	}
}

// Fixture values are pinned so a change to the integer formulas shows up
// as a test failure.
func TestFuse_Fixtures(t *testing.T) {
	const (
		top    = 0xFF6496C8 // (100,150,200,255)
		bottom = 0xFFC86432 // (200,100,50,255)
	)
	tests := []struct {
		mode        Mode
		alpha       int
		want        uint32
		wantGeneral uint32 // general formula result when it differs
	}{
		{ModeNormal, 100, 0xFF6496C8, 0},
		{ModeNormal, 50, 0xFF957D7D, 0},
		{ModeMultiply, 100, 0xFF4E3A27, 0},
		{ModeMultiply, 50, 0xFF8B4F2C, 0xFF8A4E2C},
		{ModeScreen, 100, 0xFFDEC0D3, 0},
		{ModeAdd, 100, 0xFFFFFAFA, 0},
		{ModeSubtract, 100, 0xFF2D0000, 0},
		{ModeLighten, 100, 0xFFC896C8, 0},
		{ModeDarken, 100, 0xFF646432, 0},
		{ModeOverlay, 100, 0xFFBD754E, 0},
		{ModeDodge, 100, 0xFFFFF2E7, 0},
		{ModeDodge, 50, 0xFFE3AB8C, 0},
		{ModeBurn, 100, 0xFF730000, 0},
		{ModeBurn, 50, 0xFF9D3118, 0},
		{ModeHardLight, 100, 0xFF9C80A7, 0},
		{ModeHardLight, 50, 0xFFB1726C, 0},
		{ModeSoftLight, 100, 0xFFBE6E55, 0},
		{ModeSoftLight, 50, 0xFFC26943, 0},
		{ModeVividLight, 100, 0xFFB97973, 0},
		{ModeVividLight, 50, 0xFFC06E52, 0},
		{ModeLinearLight, 100, 0xFF9191C3, 0},
		{ModeLinearLight, 50, 0xFFAC7A7A, 0},
		{ModePinLight, 100, 0xFFC86491, 0},
		{ModePinLight, 50, 0xFFC86461, 0},
	}
	for _, tt := range tests {
		for _, transparent := range []bool{false, true} {
			want := tt.want
			if transparent && tt.wantGeneral != 0 {
				want = tt.wantGeneral
			}
			fusion := NewFusion(solid(2, 2, bottom))
			FuseImageOntoImage(fusion, transparent, solid(2, 2, top), tt.alpha, tt.mode, fusion.Image.Bounds(), nil)
			if got := fusion.Image.GetPixel(1, 1); got != want {
				t.Errorf("%v@%d transparent=%v: got %#08x, want %#08x", tt.mode, tt.alpha, transparent, got, want)
			}
		}
	}
}

// (100,150,200) at alpha 192 over (200,100,50) at alpha 128.
func TestFuse_TransparentFixtures(t *testing.T) {
	tests := []struct {
		mode Mode
		want uint32
	}{
		{ModeNormal, 0xE0708DB1},
		{ModeMultiply, 0xE067666C},
		{ModeAdd, 0xE0B3B8C6},
		{ModeScreen, 0xE0A59FB6},
		{ModeLighten, 0xE09B8DB1},
		{ModeDarken, 0xE0707871},
		{ModeSubtract, 0xE0594D5B},
		{ModeDodge, 0xE0B3B5BE},
		{ModeBurn, 0xE0774D5B},
		{ModeOverlay, 0xE0977F7D},
		{ModeHardLight, 0xE08884A3},
		{ModeSoftLight, 0xE0977C80},
		{ModeVividLight, 0xE095818D},
		{ModeLinearLight, 0xE0848BAF},
		{ModePinLight, 0xE09B7899},
	}
	for _, tt := range tests {
		fusion := NewFusion(solid(1, 1, 0x80C86432))
		FuseImageOntoImage(fusion, true, solid(1, 1, 0xC06496C8), 100, tt.mode, fusion.Image.Bounds(), nil)
		if got := fusion.Image.GetPixel(0, 0); got != tt.want {
			t.Errorf("%v: got %#08x, want %#08x", tt.mode, got, tt.want)
		}
	}
}

// edgeValues are the channel and alpha levels where truncation and the
// 127/128 mode branches change behavior.
var edgeValues = []uint8{0, 1, 2, 127, 128, 129, 253, 254, 255}

// edgeGrid returns a top and a bottom buffer that together hold every
// combination of edgeValues for top color, top alpha, bottom color and
// bottom alpha. A pixel of color v is (v, 255-v, v).
func edgeGrid() (top, bottom *image.PixelBuffer) {
	n := len(edgeValues)
	top = image.MustPixelBuffer(n*n, n*n)
	bottom = image.MustPixelBuffer(n*n, n*n)
	for ti, tc := range edgeValues {
		for tai, ta := range edgeValues {
			x := ti*n + tai
			for bi, bc := range edgeValues {
				for bai, ba := range edgeValues {
					y := bi*n + bai
					top.SetPixel(x, y, image.PackARGB(tc, 255-tc, tc, ta))
					bottom.SetPixel(x, y, image.PackARGB(bc, 255-bc, bc, ba))
				}
			}
		}
	}
	return top, bottom
}

// TestFuse_EdgeGridDigests pins the transparent fusion output of every mode
// over the full edge grid, at full and half layer alpha. The digest is
// FNV-1a over the resulting RGBA bytes.
func TestFuse_EdgeGridDigests(t *testing.T) {
	tests := []struct {
		mode          Mode
		full, halfway uint64
	}{
		{ModeNormal, 0x25e453c3dfac86d8, 0x123d073133ddb01d},
		{ModeMultiply, 0xb2410ecdd9a9d913, 0xd043cc071a71364a},
		{ModeAdd, 0x9c0a08dc7f748649, 0x8903f5b4a9e3edc7},
		{ModeScreen, 0xb98717066ae1e7e3, 0x2d8db99e857da062},
		{ModeLighten, 0x1b44d404faed67ac, 0xd338fe46aa83debf},
		{ModeDarken, 0x57f48a565738615c, 0xc0771841bb1e6005},
		{ModeSubtract, 0x31a090ed1a05fad7, 0x20c1cfece514d0c0},
		{ModeDodge, 0x29e95cca51751e9a, 0xdf1b0631075bd9ca},
		{ModeBurn, 0xbcaabd14dde752d0, 0x30c81d19a69db722},
		{ModeOverlay, 0xc973793f2713b04e, 0x80c341b99163ed73},
		{ModeHardLight, 0xf37fb24b1d401186, 0x6b8744dc8d3d9409},
		{ModeSoftLight, 0x61ac14e1166ceaba, 0x897cd868dae7b5a3},
		{ModeVividLight, 0x819d95aecca38818, 0x317a6163770a19cf},
		{ModeLinearLight, 0x1caffb927f01fa36, 0x88babf4ac50e4db9},
		{ModePinLight, 0x782d31997ed0b96d, 0xb83f9f3eed8e5305},
	}
	top, bottom := edgeGrid()
	for _, tt := range tests {
		for _, c := range []struct {
			alpha int
			want  uint64
		}{{100, tt.full}, {50, tt.halfway}} {
			fusion := NewFusion(bottom.Clone())
			FuseImageOntoImage(fusion, true, top, c.alpha, tt.mode, fusion.Image.Bounds(), nil)

			h := fnv.New64a()
			h.Write(fusion.Image.Data())
			if got := h.Sum64(); got != c.want {
				t.Errorf("%v@%d: digest %#016x, want %#016x", tt.mode, c.alpha, got, c.want)
			}
		}
	}
}

func TestFuse_TransparentFusion(t *testing.T) {
	fusion := NewFusion(solid(1, 1, 0x800000FF))
	FuseImageOntoImage(fusion, true, solid(1, 1, 0x80FF0000), 100, ModeNormal, fusion.Image.Bounds(), nil)

	if got, want := fusion.Image.GetPixel(0, 0), image.PackARGB(168, 0, 83, 192); got != want {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestFuse_OntoEmptyKeepsTop(t *testing.T) {
	for m := ModeNormal; m < ModePassthrough; m++ {
		fusion := NewFusion(solid(1, 1, 0x00636363))
		FuseImageOntoImage(fusion, true, solid(1, 1, 0xC80A141E), 100, m, fusion.Image.Bounds(), nil)
		if got := fusion.Image.GetPixel(0, 0); got != 0xC80A141E {
			t.Errorf("%v: got %#08x, want the top pixel", m, got)
		}
	}
}

func TestFuse_OpaqueAndTransparentAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const w, h = 16, 8

	for m := ModeNormal; m < ModePassthrough; m++ {
		alphas := []int{100}
		if !m.UnroundedAlpha() {
			alphas = append(alphas, 37, 50, 1)
		}
		for _, alpha := range alphas {
			bottom := noise(rng, w, h, true)
			top := noise(rng, w, h, false)

			opaque := NewFusion(bottom.Clone())
			general := NewFusion(bottom.Clone())
			FuseImageOntoImage(opaque, false, top, alpha, m, opaque.Image.Bounds(), nil)
			FuseImageOntoImage(general, true, top, alpha, m, general.Image.Bounds(), nil)

			if !opaque.Image.Equals(general.Image) {
				t.Errorf("%v@%d: opaque and general formulas disagree", m, alpha)
			}
		}
	}
}

func TestFuse_FullyOpaqueNormalReplaces(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	top := noise(rng, 8, 8, true)
	for _, transparent := range []bool{false, true} {
		fusion := NewFusion(noise(rng, 8, 8, !transparent))
		FuseImageOntoImage(fusion, transparent, top, 100, ModeNormal, fusion.Image.Bounds(), nil)
		if !fusion.Image.Equals(top) {
			t.Errorf("transparent=%v: normal at full alpha should copy the top", transparent)
		}
	}
}

func TestFuse_NoOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	bottom := noise(rng, 8, 8, false)

	tests := []struct {
		name  string
		top   *image.PixelBuffer
		alpha int
		mask  *image.MaskBuffer
	}{
		{"transparent layer", solid(8, 8, 0x00FFFFFF), 100, nil},
		{"zero alpha", noise(rng, 8, 8, true), 0, nil},
		{"negative alpha", noise(rng, 8, 8, true), -5, nil},
		{"zero mask", noise(rng, 8, 8, true), 100, fullMask(8, 8, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for m := ModeNormal; m < ModePassthrough; m++ {
				fusion := NewFusion(bottom.Clone())
				FuseImageOntoImage(fusion, true, tt.top, tt.alpha, m, fusion.Image.Bounds(), tt.mask)
				if !fusion.Image.Equals(bottom) {
					t.Errorf("%v changed the fusion", m)
				}
			}
		})
	}
}

func TestFuse_FullMaskIsNeutral(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	mask := fullMask(12, 6, 255)

	for m := ModeNormal; m < ModePassthrough; m++ {
		for _, alpha := range []int{100, 63} {
			for _, transparent := range []bool{false, true} {
				bottom := noise(rng, 12, 6, !transparent)
				top := noise(rng, 12, 6, false)

				plain := NewFusion(bottom.Clone())
				masked := NewFusion(bottom.Clone())
				FuseImageOntoImage(plain, transparent, top, alpha, m, plain.Image.Bounds(), nil)
				FuseImageOntoImage(masked, transparent, top, alpha, m, masked.Image.Bounds(), mask)

				if !plain.Image.Equals(masked.Image) {
					t.Errorf("%v@%d transparent=%v: full mask changed the result", m, alpha, transparent)
				}
			}
		}
	}
}

func TestFuse_HalfMask(t *testing.T) {
	fusion := NewFusion(solid(1, 1, 0xFFFF0000))
	FuseImageOntoImage(fusion, false, solid(1, 1, 0xFF0000FF), 100, ModeNormal, fusion.Image.Bounds(), fullMask(1, 1, 128))
	if got, want := fusion.Image.GetPixel(0, 0), image.PackARGB(127, 0, 128, 255); got != want {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestFuse_AlphaNeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	for m := ModeNormal; m < ModePassthrough; m++ {
		bottom := noise(rng, 16, 16, false)
		top := noise(rng, 16, 16, false)
		fusion := NewFusion(bottom.Clone())
		FuseImageOntoImage(fusion, true, top, 71, m, fusion.Image.Bounds(), nil)

		before, after := bottom.Data(), fusion.Image.Data()
		for i := image.ChannelA; i < len(after); i += image.BytesPerPixel {
			if after[i] < before[i] {
				t.Fatalf("%v: alpha at byte %d dropped from %d to %d", m, i, before[i], after[i])
			}
		}
	}
}

func TestFuse_RestrictedToRect(t *testing.T) {
	fusion := NewFusion(solid(4, 4, 0xFF000000))
	FuseImageOntoImage(fusion, false, solid(4, 4, 0xFFFFFFFF), 100, ModeNormal, image.NewRect(1, 1, 3, 10), nil)

	for y := range 4 {
		for x := range 4 {
			want := uint32(0xFF000000)
			if x >= 1 && x < 3 && y >= 1 {
				want = 0xFFFFFFFF
			}
			if got := fusion.Image.GetPixel(x, y); got != want {
				t.Errorf("pixel(%d,%d) = %#08x, want %#08x", x, y, got, want)
			}
		}
	}
}

func TestFuse_Panics(t *testing.T) {
	tests := []struct {
		name  string
		run   func()
		isErr error
	}{
		{
			name: "fusion alpha",
			run: func() {
				f := &Fusion{Image: solid(1, 1, 0), Alpha: 50}
				FuseImageOntoImage(f, true, solid(1, 1, 0), 100, ModeNormal, f.Image.Bounds(), nil)
			},
			isErr: ErrFusionAlpha,
		},
		{
			name: "passthrough",
			run: func() {
				f := NewFusion(solid(1, 1, 0))
				FuseImageOntoImage(f, true, solid(1, 1, 0), 100, ModePassthrough, f.Image.Bounds(), nil)
			},
		},
		{
			name: "size mismatch",
			run: func() {
				f := NewFusion(solid(2, 2, 0))
				FuseImageOntoImage(f, true, solid(1, 1, 0), 100, ModeNormal, f.Image.Bounds(), nil)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				if tt.isErr != nil {
					err, ok := r.(error)
					if !ok || !errors.Is(err, tt.isErr) {
						t.Errorf("panic value = %v, want %v", r, tt.isErr)
					}
				}
			}()
			tt.run()
		})
	}
}

func TestVariant_String(t *testing.T) {
	tests := []struct {
		v    variant
		want string
	}{
		{makeVariant(false, false, false), "opaqueFusion"},
		{makeVariant(true, false, false), "transparentFusion"},
		{makeVariant(true, true, true), "transparentFusionWithLayerAlphaMasked"},
		{makeVariant(false, true, false), "opaqueFusionWithLayerAlpha"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
