// Package format describes the in-memory layout of a pool slot: the 8-byte
// block header that precedes every payload and the free-list link stored in
// the payload of a free slot.
package format

const (
	// HeaderMagic marks the start of every slot header.
	// Layout (little-endian):
	//   0x00  0x0C 0xB1
	HeaderMagic uint16 = 0xB10C

	// HeaderSize is the number of bytes reserved in front of every payload.
	//
	//	Offset  Size  Description
	//	0x00    2     Magic (HeaderMagic)
	//	0x02    1     Flags (FlagUsed)
	//	0x03    1     Reserved, always zero
	//	0x04    4     Owner pool identifier (0 while free)
	HeaderSize = 8

	// LinkSize is the size of the next-free slot index stored in the first
	// bytes of a free payload.
	LinkSize = 4

	// SlotAlignment is the alignment of every slot and therefore every payload.
	SlotAlignment = 8

	// SlotAlignmentMask is SlotAlignment-1, used for rounding.
	SlotAlignmentMask = SlotAlignment - 1

	// NoSlot terminates the free list.
	NoSlot uint32 = 0xFFFFFFFF

	// MaxSlots bounds the slot count: every index must stay below NoSlot.
	MaxSlots uint32 = NoSlot
)

// Header field offsets.
const (
	headerMagicOffset = 0x00
	headerFlagsOffset = 0x02
	headerOwnerOffset = 0x04
)

// Header flag bits.
const (
	// FlagUsed is set while the block is handed out to a caller.
	FlagUsed uint8 = 1 << 0
)
