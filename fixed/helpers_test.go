package fixed

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// newTestPool creates and initializes a heap-backed pool.
func newTestPool(t testing.TB, blockSize, capacity int, opts ...Option) *Pool {
	t.Helper()
	p, err := New("test", blockSize, capacity, opts...)
	require.NoError(t, err)
	require.NoError(t, p.Init())
	return p
}

// requireInvariant checks InUse + free-list length == Capacity and the full
// header walk.
func requireInvariant(t testing.TB, p *Pool) {
	t.Helper()
	require.Equal(t, p.Capacity(), p.InUse()+p.FreeLen(), "in use + free list must equal capacity")
	require.NoError(t, p.Verify())
}

// addr returns the address of the first byte of b.
func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
