// Package arena reserves the contiguous backing storage a pool carves into
// slots. Storage is reserved once and never grown.
package arena

import (
	"errors"
	"fmt"
)

// Mode selects where a region's bytes come from.
type Mode uint8

const (
	// Heap backs the region with a Go byte slice.
	Heap Mode = iota
	// Mapped backs the region with an anonymous private mapping outside the
	// Go heap. Falls back to Heap where mappings are unavailable.
	Mapped
	// MappedLocked is Mapped plus mlock, so every page is resident before the
	// first allocation and never paged out.
	MappedLocked
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case Heap:
		return "heap"
	case Mapped:
		return "mmap"
	case MappedLocked:
		return "mlock"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode maps a configuration name onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "heap":
		return Heap, nil
	case "mmap":
		return Mapped, nil
	case "mlock":
		return MappedLocked, nil
	default:
		return Heap, fmt.Errorf("arena: unknown storage mode %q", s)
	}
}

// ErrSize indicates a non-positive region size.
var ErrSize = errors.New("arena: size must be greater than zero")

// Region is a reserved block of memory.
type Region struct {
	buf     []byte
	mapped  bool
	locked  bool
	release func([]byte) error
}

// Alloc reserves size bytes using mode. The returned bytes are zeroed.
func Alloc(size int, mode Mode) (*Region, error) {
	if size <= 0 {
		return nil, ErrSize
	}
	if mode == Heap {
		return &Region{buf: make([]byte, size)}, nil
	}
	return mapRegion(size, mode == MappedLocked)
}

// Bytes returns the whole region. It is nil after Release.
func (r *Region) Bytes() []byte { return r.buf }

// Len returns the region size in bytes.
func (r *Region) Len() int { return len(r.buf) }

// Mapped reports whether the region lives outside the Go heap.
func (r *Region) Mapped() bool { return r.mapped }

// Locked reports whether the region's pages are pinned in memory.
func (r *Region) Locked() bool { return r.locked }

// Release returns the region to the operating system. Heap regions are left
// to the garbage collector. Calling Release twice is a no-op.
func (r *Region) Release() error {
	buf := r.buf
	r.buf = nil
	if buf == nil || r.release == nil {
		return nil
	}
	return r.release(buf)
}
