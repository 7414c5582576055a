//go:build unix

package arena

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// mapRegion reserves an anonymous private mapping of size bytes.
func mapRegion(size int, lock bool) (*Region, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}
	r := &Region{buf: buf, mapped: true, release: unmap}
	if lock {
		if err := unix.Mlock(buf); err != nil {
			_ = unix.Munmap(buf)
			return nil, fmt.Errorf("arena: mlock %d bytes: %w", size, err)
		}
		r.locked = true
	}
	return r, nil
}

func unmap(buf []byte) error {
	err := unix.Munmap(buf)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
