package xalloc

import "errors"

var (
	// ErrInvalidSize indicates a zero, negative, overflowing, or oversized
	// request.
	ErrInvalidSize = errors.New("xalloc: invalid size")

	// ErrOutOfMemory indicates the selected size class has no free blocks.
	ErrOutOfMemory = errors.New("xalloc: out of memory")

	// ErrInvalidPointer indicates a slice that does not resolve to a block of
	// any pool in this dispatcher.
	ErrInvalidPointer = errors.New("xalloc: invalid pointer")

	// ErrNoPools indicates a dispatcher was constructed without pools.
	ErrNoPools = errors.New("xalloc: no pools")

	// ErrUnsorted indicates the pools are not strictly ascending by block size.
	ErrUnsorted = errors.New("xalloc: pools not sorted by ascending block size")

	// ErrNotReady indicates a pool that has not been initialized.
	ErrNotReady = errors.New("xalloc: pool not initialized")
)
