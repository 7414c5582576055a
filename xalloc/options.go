package xalloc

import (
	"io"
	"log/slog"
)

type options struct {
	cascade           bool
	log               *slog.Logger
	panicOnCorruption bool
}

// Option configures a Dispatcher.
type Option func(*options)

// WithCascade lets an allocation whose class is exhausted fall through to the
// next larger classes, smallest first. Off by default so routing stays fixed.
func WithCascade() Option {
	return func(o *options) { o.cascade = true }
}

// WithLogger routes dispatcher diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithPanicOnCorruption makes invalid pointers and invalid frees panic.
func WithPanicOnCorruption() Option {
	return func(o *options) { o.panicOnCorruption = true }
}

func defaultOptions() options {
	return options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
