package format

import "encoding/binary"

// Header fields and free-list links are stored little-endian on every host,
// so the magic reads 0C B1 in a dump of any slot.

func putU16(slot []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(slot[off:off+2], v)
}

func putU32(slot []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(slot[off:off+4], v)
}

func readU16(slot []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(slot[off : off+2])
}

func readU32(slot []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(slot[off : off+4])
}
