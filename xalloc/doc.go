// Package xalloc composes fixed-block pools into a variable-size allocator.
//
// # Overview
//
// A Dispatcher owns an ordered list of fixed.Pool values, one per size class,
// sorted strictly ascending by usable block size. Every request is routed to
// the smallest class whose usable size covers it, so the same request size
// always lands in the same pool.
//
// # Operations
//
//   - Alloc(size): smallest sufficient class, or ErrInvalidSize
//   - Free(b): owner resolved from the block header, or ErrInvalidPointer
//   - Realloc(b, n): in place when n fits the current class, otherwise move
//   - Calloc(num, size): overflow-checked, zero-filled
//
// # Usage Example
//
//	small, _ := fixed.New("2k", 2048, 10000)
//	large, _ := fixed.New("4k", 4096, 10000)
//	if err := fixed.InitAll(small, large); err != nil {
//	    return err
//	}
//	d, err := xalloc.New([]*fixed.Pool{small, large})
//	if err != nil {
//	    return err
//	}
//
//	buf, err := d.Alloc(3000) // served by the 4k class
//	if err != nil {
//	    return err
//	}
//	buf, err = d.Realloc(buf, 3500) // same block, no copy
//	err = d.Free(buf)
//
// # Exhaustion Policy
//
// When the selected class is empty the dispatcher fails with ErrOutOfMemory.
// It does not fall back to a larger class unless WithCascade is given, and it
// never falls back to the Go heap. Size pool capacities for the worst case.
//
// # Size Classes
//
// SizeClassConfig generates class tables (linear small steps followed by
// geometric growth) for NewGeometric:
//
//	ConfigEmbedded:  16 - 128 step 16, then ×2 up to 4 KB  (13 classes)
//	ConfigBalanced:  16 - 512 step 16, then ×1.5 up to 16 KB (41 classes)
//	ConfigCoarse:    32 - 512 step 32, then ×2 up to 16 KB   (21 classes)
//
// # Thread Safety
//
// Dispatchers are not thread-safe. Callers must serialize access externally,
// for example with a mutex around every call.
package xalloc
