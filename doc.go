// Package ggpaint is the compositing core of a layered raster painting
// application.
//
// # Overview
//
// An Artwork owns a tree of image layers and groups. Each node has an
// opacity (0-100), a blend mode, a visibility flag and a clip-to-below flag;
// groups may use pass-through blending. Artwork.Fusion flattens the tree
// into a single RGBA image, recompositing only the regions reported dirty
// since the previous call.
//
// # Quick Start
//
//	art, _ := ggpaint.NewArtwork(640, 480, ggpaint.WithBackground(0xFFFFFFFF))
//	ink, _ := art.AddLayer("ink")
//	art.SetLayerBlendMode(ink, ggpaint.BlendMultiply)
//	ink.Image().ClearRect(ggpaint.RectWH(10, 10, 100, 100), 0xFF3366CC)
//	art.InvalidateRect(ink, ggpaint.RectWH(10, 10, 100, 100))
//	flat := art.Fusion()
//
// # Pixel Arithmetic
//
// Blending is integer-only with truncating division, so the flattened
// output is identical on every platform. Blend mode ordinals are stable and
// match the values stored in documents.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Artwork, type aliases for buffers, rects, layers and modes
//   - internal/image: PixelBuffer, MaskBuffer, Rect, scratch buffer Pool
//   - internal/blend: blend operator library and dispatch
//   - internal/layer: layer and group tree
//   - internal/blendtree: incremental composite plan
//   - internal/filter: box blur
//   - internal/layerfile: single layer record codec
//
// # Concurrency
//
// An Artwork and everything it owns must be used from one goroutine. Long
// operations run to completion; callers wanting responsiveness should
// invalidate and flatten sub-rectangles and yield between calls.
package ggpaint

// Version is the current version of the library.
const Version = "0.1.0"
