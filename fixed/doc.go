// Package fixed provides a fixed-block memory pool: one statically sized array
// of equal-size slots handed out and reclaimed in O(1).
//
// # Overview
//
// A Pool reserves capacity × stride bytes once, at construction, and never
// grows. Each slot starts with an 8-byte header followed by the payload the
// caller sees:
//
//	Slot layout:
//	  0x00  header (magic, used flag, owner pool id)
//	  0x08  payload (BlockSize bytes, rounded so the next slot is 8-aligned)
//
// Free slots are chained through their own payload: the first four payload
// bytes hold the index of the next free slot. No side storage is allocated for
// the free list.
//
// # Usage Example
//
//	p, err := fixed.New("frames", 256, 1024)
//	if err != nil {
//	    return err
//	}
//	if err := p.Init(); err != nil {
//	    return err
//	}
//
//	buf, err := p.Alloc()
//	if errors.Is(err, fixed.ErrOutOfBlocks) {
//	    // capacity exhausted; nothing grows behind your back
//	}
//	copy(buf, frame)
//
//	err = p.Free(buf)
//
// # Lifecycle
//
// New reserves storage; Init links every slot into the free list and must be
// called exactly once before Alloc or Free. A second Init is rejected with
// ErrAlreadyInitialized and leaves the pool untouched.
//
// # Corruption Guards
//
// Free validates that the slice points at a payload inside this pool and that
// the block is currently in use. A rejected Free never touches the free list,
// so a double free cannot poison later allocations. Rejections are returned as
// ErrInvalidFree or ErrDoubleFree; with WithPanicOnCorruption they panic
// instead.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must serialize access
// externally.
package fixed
