package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapRegion(t *testing.T) {
	r, err := Alloc(4096, Heap)
	require.NoError(t, err)
	require.Equal(t, 4096, r.Len())
	require.False(t, r.Mapped())
	require.False(t, r.Locked())
	for _, b := range r.Bytes() {
		require.Zero(t, b)
	}

	require.NoError(t, r.Release())
	require.Nil(t, r.Bytes())
	require.NoError(t, r.Release(), "second release is a no-op")
}

func TestAllocRejectsEmpty(t *testing.T) {
	_, err := Alloc(0, Heap)
	require.ErrorIs(t, err, ErrSize)

	_, err = Alloc(-1, Mapped)
	require.ErrorIs(t, err, ErrSize)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Heap, Mapped, MappedLocked} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}

	got, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, Heap, got)

	_, err = ParseMode("swap")
	require.Error(t, err)
}
