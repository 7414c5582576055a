package xalloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/fbpool/fixed"
)

// newTestPools creates and initializes one pool per size, all with the same
// capacity.
func newTestPools(t testing.TB, capacity int, sizes ...int) []*fixed.Pool {
	t.Helper()
	pools := make([]*fixed.Pool, 0, len(sizes))
	for _, sz := range sizes {
		p, err := fixed.New("test", sz, capacity)
		require.NoError(t, err)
		require.NoError(t, p.Init())
		pools = append(pools, p)
	}
	return pools
}

// newTestDispatcher builds a dispatcher with 2048- and 4096-byte classes.
func newTestDispatcher(t testing.TB, capacity int, opts ...Option) (*Dispatcher, []*fixed.Pool) {
	t.Helper()
	pools := newTestPools(t, capacity, 2048, 4096)
	d, err := New(pools, opts...)
	require.NoError(t, err)
	return d, pools
}

func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func requireInvariants(t testing.TB, d *Dispatcher) {
	t.Helper()
	require.NoError(t, d.Verify())
	for _, p := range d.Pools() {
		require.Equal(t, p.Capacity(), p.InUse()+p.FreeLen(), "pool %q", p.Name())
	}
}
