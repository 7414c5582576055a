package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotStride(t *testing.T) {
	tests := []struct {
		usable int
		want   int
	}{
		{1, 16},
		{4, 16},
		{8, 16},
		{9, 24},
		{16, 24},
		{2048, 2056},
		{4096, 4104},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, SlotStride(tt.usable), "usable=%d", tt.usable)
		require.Zero(t, SlotStride(tt.usable)%SlotAlignment)
	}
}

func TestHeaderEncoding(t *testing.T) {
	slot := make([]byte, SlotStride(16))

	PutHeader(slot, Header{Owner: 0xDEADBEEF, Used: true})
	require.Equal(t, []byte{0x0C, 0xB1, FlagUsed, 0x00, 0xEF, 0xBE, 0xAD, 0xDE}, slot[:HeaderSize])

	h, err := ReadHeader(slot)
	require.NoError(t, err)
	require.Equal(t, Header{Owner: 0xDEADBEEF, Used: true}, h)

	PutHeader(slot, Header{})
	h, err = ReadHeader(slot)
	require.NoError(t, err)
	require.False(t, h.Used)
	require.Zero(t, h.Owner)
}

func TestReadHeaderRejectsGarbage(t *testing.T) {
	_, err := ReadHeader(make([]byte, HeaderSize))
	require.ErrorIs(t, err, ErrBadMagic)

	_, err = ReadHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestLinkLivesInPayload(t *testing.T) {
	slot := make([]byte, SlotStride(8))
	PutHeader(slot, Header{})
	PutLink(slot, 42)

	require.Equal(t, uint32(42), ReadLink(slot))
	h, err := ReadHeader(slot)
	require.NoError(t, err)
	require.False(t, h.Used, "link must not disturb the header")
}
