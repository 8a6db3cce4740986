package blendtree

import "log/slog"

// Option configures a Tree during creation.
type Option func(*options)

type options struct {
	requireOpaque bool
	logger        *slog.Logger
}

func defaultOptions() options {
	return options{logger: slog.New(slog.DiscardHandler)}
}

// WithRequireOpaqueFusion makes Blend always end with a composite step at
// alpha 100, so the result's own alpha can be ignored by the caller.
func WithRequireOpaqueFusion(require bool) Option {
	return func(o *options) {
		o.requireOpaque = require
	}
}

// WithLogger sets the logger for build diagnostics. Nil keeps the default,
// which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
