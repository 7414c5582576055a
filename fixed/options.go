package fixed

import (
	"io"
	"log/slog"

	"github.com/joshuapare/fbpool/internal/arena"
)

type options struct {
	log               *slog.Logger
	storage           arena.Mode
	panicOnCorruption bool
}

// Option configures a Pool at construction time.
type Option func(*options)

// WithLogger routes pool diagnostics to l. Pools are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMappedStorage reserves the pool outside the Go heap with an anonymous
// mapping. When lock is set the pages are also pinned with mlock. Platforms
// without mappings fall back to heap storage.
func WithMappedStorage(lock bool) Option {
	return func(o *options) {
		o.storage = arena.Mapped
		if lock {
			o.storage = arena.MappedLocked
		}
	}
}

// WithPanicOnCorruption makes invalid and double frees panic instead of
// returning an error.
func WithPanicOnCorruption() Option {
	return func(o *options) { o.panicOnCorruption = true }
}

func defaultOptions() options {
	return options{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		storage: arena.Heap,
	}
}
