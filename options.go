package ggpaint

import "log/slog"

// ArtworkOption configures an Artwork during creation.
//
// Example:
//
//	art, err := ggpaint.NewArtwork(800, 600,
//	    ggpaint.WithBackground(0xFFFFFFFF),
//	    ggpaint.WithRequireOpaqueFusion(true))
type ArtworkOption func(*artworkOptions)

// artworkOptions holds optional configuration for Artwork creation.
type artworkOptions struct {
	requireOpaque bool
	background    uint32
	hasBackground bool
	logger        *slog.Logger
}

// defaultOptions returns the default artwork options.
func defaultOptions() artworkOptions {
	return artworkOptions{
		logger: nil, // Will be set to Logger() if nil
	}
}

// WithRequireOpaqueFusion forces the flattened image to go through a final
// composite step at full opacity, so Fusion never carries a separate
// document-level alpha.
func WithRequireOpaqueFusion(require bool) ArtworkOption {
	return func(o *artworkOptions) {
		o.requireOpaque = require
	}
}

// WithBackground fills the first layer of a new document with an ARGB color.
func WithBackground(argb uint32) ArtworkOption {
	return func(o *artworkOptions) {
		o.background = argb
		o.hasBackground = true
	}
}

// WithLogger sets the logger for one artwork instead of the package logger.
func WithLogger(l *slog.Logger) ArtworkOption {
	return func(o *artworkOptions) {
		o.logger = l
	}
}
