package format

import "fmt"

// Header is the decoded form of a slot header.
type Header struct {
	Owner uint32 // Identifier of the pool that handed the block out
	Used  bool   // True while the block belongs to a caller
}

// PutHeader encodes h at the start of slot. Reserved bytes are cleared.
func PutHeader(slot []byte, h Header) {
	putU16(slot, headerMagicOffset, HeaderMagic)
	var flags uint8
	if h.Used {
		flags |= FlagUsed
	}
	slot[headerFlagsOffset] = flags
	slot[headerFlagsOffset+1] = 0
	putU32(slot, headerOwnerOffset, h.Owner)
}

// ReadHeader decodes the header at the start of slot.
func ReadHeader(slot []byte) (Header, error) {
	if len(slot) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	if m := readU16(slot, headerMagicOffset); m != HeaderMagic {
		return Header{}, fmt.Errorf("header: %w (0x%04X)", ErrBadMagic, m)
	}
	return Header{
		Owner: readU32(slot, headerOwnerOffset),
		Used:  slot[headerFlagsOffset]&FlagUsed != 0,
	}, nil
}

// PutLink stores the next free slot index in the payload of slot.
func PutLink(slot []byte, next uint32) {
	putU32(slot, HeaderSize, next)
}

// ReadLink returns the next free slot index stored in the payload of slot.
func ReadLink(slot []byte) uint32 {
	return readU32(slot, HeaderSize)
}
