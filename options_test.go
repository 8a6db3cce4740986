package ggpaint

import (
	"log/slog"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.requireOpaque || o.hasBackground || o.logger != nil {
		t.Errorf("defaultOptions() = %+v, want zero configuration", o)
	}
}

func TestArtworkOptions(t *testing.T) {
	l := slog.New(slog.DiscardHandler)
	o := defaultOptions()
	for _, opt := range []ArtworkOption{
		WithRequireOpaqueFusion(true),
		WithBackground(0xFF112233),
		WithLogger(l),
	} {
		opt(&o)
	}
	if !o.requireOpaque {
		t.Error("requireOpaque not set")
	}
	if !o.hasBackground || o.background != 0xFF112233 {
		t.Errorf("background = %#08x (set=%v)", o.background, o.hasBackground)
	}
	if o.logger != l {
		t.Error("logger not set")
	}
}

func TestWithRequireOpaqueFusion(t *testing.T) {
	tests := []struct {
		name    string
		require bool
		want    uint8
	}{
		{"document alpha folded on copy", false, 127},
		{"composited at full alpha", true, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := NewArtwork(2, 2, WithRequireOpaqueFusion(tt.require))
			if err != nil {
				t.Fatal(err)
			}
			l, _ := art.AddLayer("l")
			l.Image().ClearAll(0xFFFFFFFF)
			art.InvalidateRect(l, art.Bounds())
			art.SetLayerAlpha(l, 50)

			if a := uint8(art.Fusion().GetPixel(0, 0) >> 24); a != tt.want {
				t.Errorf("alpha = %d, want %d", a, tt.want)
			}
		})
	}
}
