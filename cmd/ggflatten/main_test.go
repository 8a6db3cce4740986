package main

import (
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/ggpaint"
	"github.com/gogpu/ggpaint/internal/layer"
	"github.com/gogpu/ggpaint/internal/layerfile"
)

func TestParseLayerArg(t *testing.T) {
	tests := []struct {
		arg     string
		want    layerArg
		wantErr bool
	}{
		{arg: "a.png", want: layerArg{path: "a.png", mode: ggpaint.BlendNormal, alpha: 100}},
		{arg: "a.png:multiply", want: layerArg{path: "a.png", mode: ggpaint.BlendMultiply, alpha: 100}},
		{arg: "a.png:screen:40", want: layerArg{path: "a.png", mode: ggpaint.BlendScreen, alpha: 40}},
		{arg: "a.png::40", want: layerArg{path: "a.png", mode: ggpaint.BlendNormal, alpha: 40}},
		{arg: `C:\art\a.png`, want: layerArg{path: `C:\art\a.png`, mode: ggpaint.BlendNormal, alpha: 100}},
		{arg: `C:\art\a.png:multiply`, want: layerArg{path: `C:\art\a.png`, mode: ggpaint.BlendMultiply, alpha: 100}},
		{arg: "d:/a.png:screen:40", want: layerArg{path: "d:/a.png", mode: ggpaint.BlendScreen, alpha: 40}},
		{arg: "", wantErr: true},
		{arg: "a.png:nope", wantErr: true},
		{arg: "a.png:normal:101", wantErr: true},
		{arg: "a.png:normal:x", wantErr: true},
		{arg: "a.png:normal:50:extra", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseLayerArg(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsRecord(t *testing.T) {
	for path, want := range map[string]bool{
		"a.gglr":     true,
		"dir/B.GGLR": true,
		"a.png":      false,
		"gglr":       false,
	} {
		if got := isRecord(path); got != want {
			t.Errorf("isRecord(%q) = %v, want %v", path, got, want)
		}
	}
}

func writePNG(t *testing.T, dir string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, "layer.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeRecord(t *testing.T, dir string, l *layer.Layer) string {
	t.Helper()
	path := filepath.Join(dir, "layer.gglr")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := layerfile.Encode(f, l); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocumentSize(t *testing.T) {
	dir := t.TempDir()
	pngPath := writePNG(t, dir, 5, 3, color.NRGBA{A: 255})
	l, err := layer.NewLayer("rec", 7, 2)
	if err != nil {
		t.Fatal(err)
	}
	recPath := writeRecord(t, dir, l)

	tests := []struct {
		name         string
		path         string
		width        int
		height       int
		wantW, wantH int
	}{
		{"png", pngPath, 0, 0, 5, 3},
		{"record", recPath, 0, 0, 7, 2},
		{"override", pngPath, 10, 20, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := documentSize(layerArg{path: tt.path}, tt.width, tt.height)
			if err != nil {
				t.Fatal(err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}

	if _, _, err := documentSize(layerArg{path: filepath.Join(dir, "missing.png")}, 0, 0); err == nil {
		t.Error("missing file should fail")
	}
}

func TestAddLayer(t *testing.T) {
	dir := t.TempDir()
	pngPath := writePNG(t, dir, 4, 4, color.NRGBA{R: 255, A: 255})

	l, err := layer.NewLayer("blue", 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	l.Image().ClearAll(0xFF0000FF)
	l.SetAlpha(50)
	recPath := writeRecord(t, dir, l)

	art, err := ggpaint.NewArtwork(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	logger := ggpaint.Logger()
	if err := addLayer(art, layerArg{path: pngPath, mode: ggpaint.BlendNormal, alpha: 100}, logger); err != nil {
		t.Fatal(err)
	}
	if err := addLayer(art, layerArg{path: recPath}, logger); err != nil {
		t.Fatal(err)
	}

	layers := art.Layers()
	if len(layers) != 2 || layers[0].Name() != "layer.png" || layers[1].Name() != "blue" {
		t.Fatalf("layers = %v", layers)
	}
	if art.ActiveLayer() != layers[1] {
		t.Error("record layer should be active")
	}
	if got := art.Fusion().GetPixel(1, 1); got != 0xFF7F0080 {
		t.Errorf("pixel = %#08x, want 0xFF7F0080", got)
	}
}
