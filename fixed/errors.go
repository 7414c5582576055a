package fixed

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBlocks indicates the free list is empty.
	ErrOutOfBlocks = errors.New("fixed: out of blocks")

	// ErrInvalidFree indicates Free was given a slice that is not a live
	// payload of this pool.
	ErrInvalidFree = errors.New("fixed: invalid free")

	// ErrDoubleFree indicates Free was given a block that is already free.
	// It wraps ErrInvalidFree.
	ErrDoubleFree = fmt.Errorf("%w: block already free", ErrInvalidFree)

	// ErrNotInitialized indicates Alloc or Free was called before Init.
	ErrNotInitialized = errors.New("fixed: pool not initialized")

	// ErrAlreadyInitialized indicates Init was called more than once.
	ErrAlreadyInitialized = errors.New("fixed: pool already initialized")

	// ErrBadConfig indicates an unusable block size or capacity.
	ErrBadConfig = errors.New("fixed: bad pool configuration")

	// ErrCorrupt indicates the free list or a header no longer matches the
	// pool's accounting.
	ErrCorrupt = errors.New("fixed: pool corrupt")
)
