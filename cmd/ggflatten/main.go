// Command ggflatten stacks image files as layers and writes the flattened
// result as PNG.
//
// Usage:
//
//	ggflatten -o out.png [-opaque] [-v] base.png overlay.jpg:multiply:60 art.gglr
//
// Each argument is path[:mode[:alpha]]. Bottom layer first. PNG, JPEG, GIF,
// BMP and TIFF files are decoded and scaled to the document size; files
// ending in .gglr are read as layer records and keep their own properties.
package main

import (
	"errors"
	"flag"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/gogpu/ggpaint"
	"github.com/gogpu/ggpaint/internal/image"
	"github.com/gogpu/ggpaint/internal/layerfile"
)

// layerArg is one parsed command line layer argument.
type layerArg struct {
	path  string
	mode  ggpaint.BlendMode
	alpha int
}

func parseLayerArg(arg string) (layerArg, error) {
	la := layerArg{mode: ggpaint.BlendNormal, alpha: 100}
	drive, rest := splitDrive(arg)
	parts := strings.Split(rest, ":")
	la.path = drive + parts[0]
	if la.path == "" {
		return la, errors.New("empty path")
	}
	if len(parts) > 3 {
		return la, fmt.Errorf("%q: want path[:mode[:alpha]]", arg)
	}
	if len(parts) > 1 && parts[1] != "" {
		m, err := ggpaint.ParseBlendMode(parts[1])
		if err != nil {
			return la, err
		}
		la.mode = m
	}
	if len(parts) > 2 {
		a, err := strconv.Atoi(parts[2])
		if err != nil || a < 0 || a > 100 {
			return la, fmt.Errorf("%q: alpha must be 0..100", parts[2])
		}
		la.alpha = a
	}
	return la, nil
}

// splitDrive separates a Windows drive prefix such as "C:" so its colon is
// not read as a field separator.
func splitDrive(arg string) (drive, rest string) {
	if len(arg) >= 3 && arg[1] == ':' && (arg[2] == '\\' || arg[2] == '/') {
		if c := arg[0] | 0x20; c >= 'a' && c <= 'z' {
			return arg[:2], arg[2:]
		}
	}
	return "", arg
}

func isRecord(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gglr")
}

// documentSize picks the size of the first layer unless overridden.
func documentSize(first layerArg, width, height int) (int, int, error) {
	if width > 0 && height > 0 {
		return width, height, nil
	}
	if isRecord(first.path) {
		f, err := os.Open(first.path)
		if err != nil {
			return 0, 0, err
		}
		defer f.Close()
		rec, err := layerfile.ReadRecord(f)
		if err != nil {
			return 0, 0, err
		}
		return rec.Width, rec.Height, nil
	}
	img, err := image.DecodeFile(first.path)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

func addLayer(art *ggpaint.Artwork, la layerArg, logger *slog.Logger) error {
	if isRecord(la.path) {
		f, err := os.Open(la.path)
		if err != nil {
			return err
		}
		defer f.Close()
		l, err := layerfile.Decode(f, art.Width(), art.Height(), layerfile.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("%s: %w", la.path, err)
		}
		if err := art.Root().Add(l); err != nil {
			return err
		}
		art.StructureChanged()
		return art.SetActiveLayer(l)
	}

	img, err := image.DecodeFile(la.path)
	if err != nil {
		return err
	}
	l, err := art.AddLayer(filepath.Base(la.path))
	if err != nil {
		return err
	}
	if err := art.ImportImage(l, img); err != nil {
		return err
	}
	art.SetLayerBlendMode(l, la.mode)
	art.SetLayerAlpha(l, la.alpha)
	return nil
}

func main() {
	var (
		output  = flag.String("o", "flat.png", "output PNG file")
		width   = flag.Int("width", 0, "document width (default: first layer)")
		height  = flag.Int("height", 0, "document height (default: first layer)")
		opaque  = flag.Bool("opaque", false, "force a fully composited result")
		verbose = flag.Bool("v", false, "log blend tree activity to stderr")
	)
	flag.Parse()

	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ggpaint.SetLogger(logger)
	}

	if flag.NArg() == 0 {
		log.Fatal("no layers given")
	}
	layerArgs := make([]layerArg, 0, flag.NArg())
	for _, arg := range flag.Args() {
		la, err := parseLayerArg(arg)
		if err != nil {
			log.Fatalf("layer %s: %v", arg, err)
		}
		layerArgs = append(layerArgs, la)
	}

	w, h, err := documentSize(layerArgs[0], *width, *height)
	if err != nil {
		log.Fatalf("Failed to size document: %v", err)
	}
	art, err := ggpaint.NewArtwork(w, h, ggpaint.WithRequireOpaqueFusion(*opaque))
	if err != nil {
		log.Fatalf("Failed to create artwork: %v", err)
	}
	for _, la := range layerArgs {
		if err := addLayer(art, la, logger); err != nil {
			log.Fatalf("Failed to add layer: %v", err)
		}
	}

	if err := art.Fusion().SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Flattened %d layers to %s (%dx%d)\n", len(layerArgs), *output, w, h)
}
