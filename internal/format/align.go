package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + SlotAlignmentMask) & ^SlotAlignmentMask
}

// SlotStride returns the distance in bytes between two consecutive slots of a
// pool whose callers may use usable bytes per block. Every slot carries a
// header and enough payload to hold a free-list link.
//
// Example:
//
//	SlotStride(1)    = 16   // 8 header + 4 link, aligned
//	SlotStride(16)   = 24
//	SlotStride(2048) = 2056
func SlotStride(usable int) int {
	return Align8(HeaderSize + max(usable, LinkSize))
}
