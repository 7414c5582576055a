//go:build !unix

package arena

// mapRegion falls back to the Go heap where anonymous mappings are not
// available. The region reports Mapped() == false so callers can tell.
func mapRegion(size int, _ bool) (*Region, error) {
	return &Region{buf: make([]byte, size)}, nil
}
