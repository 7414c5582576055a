package xalloc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"slices"

	"github.com/joshuapare/fbpool/fixed"
)

// Dispatcher routes variable-size requests to the smallest sufficient pool.
type Dispatcher struct {
	pools []*fixed.Pool // Strictly ascending by BlockSize
	sizes []int         // sizes[i] == pools[i].BlockSize(), for binary search

	cascade           bool
	log               *slog.Logger
	panicOnCorruption bool

	stats dispatcherStats
}

// New composes already-initialized pools, sorted strictly ascending by block
// size, into a Dispatcher. The slice is copied; the order is fixed for the
// dispatcher's lifetime.
func New(pools []*fixed.Pool, opts ...Option) (*Dispatcher, error) {
	if len(pools) == 0 {
		return nil, ErrNoPools
	}
	sizes := make([]int, len(pools))
	for i, p := range pools {
		if p == nil {
			return nil, fmt.Errorf("%w: class %d is nil", ErrNotReady, i)
		}
		if !p.Initialized() {
			return nil, fmt.Errorf("%w: class %d (%q)", ErrNotReady, i, p.Name())
		}
		sizes[i] = p.BlockSize()
		if i > 0 && sizes[i] <= sizes[i-1] {
			return nil, fmt.Errorf("%w: class %d (%q, %d bytes) follows %d bytes",
				ErrUnsorted, i, p.Name(), sizes[i], sizes[i-1])
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d := &Dispatcher{
		pools:             slices.Clone(pools),
		sizes:             sizes,
		cascade:           o.cascade,
		log:               o.log,
		panicOnCorruption: o.panicOnCorruption,
	}
	d.log.Debug("dispatcher ready",
		"classes", len(sizes),
		"smallest", sizes[0],
		"largest", sizes[len(sizes)-1],
		"cascade", d.cascade)
	return d, nil
}

// Alloc returns a block of at least size bytes from the smallest class that
// fits. The slice has len size and cap equal to the class's usable size.
func (d *Dispatcher) Alloc(size int) ([]byte, error) {
	d.stats.allocCalls++
	sc, err := d.classIndex(size)
	if err != nil {
		d.stats.invalidSize++
		return nil, err
	}
	return d.allocFrom(sc, size)
}

// Free returns b to the pool that owns it.
func (d *Dispatcher) Free(b []byte) error {
	d.stats.freeCalls++
	p, err := d.owner(b)
	if err != nil {
		return d.corrupt(err)
	}
	if err := p.Free(b); err != nil {
		return d.corrupt(err)
	}
	return nil
}

// Realloc resizes the block b to newSize bytes.
//
//   - b == nil behaves as Alloc(newSize)
//   - newSize == 0 frees b and returns nil
//   - newSize within b's class returns the same block, resliced, without copying
//   - otherwise a block is allocated from a larger class, the old contents are
//     copied, and b is freed
//
// On failure b is left allocated and unchanged.
func (d *Dispatcher) Realloc(b []byte, newSize int) ([]byte, error) {
	if b == nil {
		return d.Alloc(newSize)
	}
	if newSize < 0 {
		d.stats.invalidSize++
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSize, newSize)
	}
	if newSize == 0 {
		return nil, d.Free(b)
	}

	p, err := d.owner(b)
	if err != nil {
		return nil, d.corrupt(err)
	}
	old, err := p.Payload(b)
	if err != nil {
		return nil, d.corrupt(err)
	}
	if newSize <= len(old) {
		d.stats.reallocInPlace++
		return old[:newSize], nil
	}

	nb, err := d.Alloc(newSize)
	if err != nil {
		return nil, err
	}
	copy(nb, old) // min(len(old), newSize) bytes
	if err := p.Free(old); err != nil {
		return nil, d.corrupt(err)
	}
	d.stats.reallocMoved++
	return nb, nil
}

// Calloc allocates room for num elements of size bytes each and zero-fills the
// whole usable region of the block.
func (d *Dispatcher) Calloc(num, size int) ([]byte, error) {
	if num < 0 || size < 0 {
		d.stats.invalidSize++
		return nil, fmt.Errorf("%w: calloc(%d, %d)", ErrInvalidSize, num, size)
	}
	hi, total := bits.Mul64(uint64(num), uint64(size))
	if hi != 0 || total > math.MaxInt {
		d.stats.invalidSize++
		return nil, fmt.Errorf("%w: calloc(%d, %d) overflows", ErrInvalidSize, num, size)
	}
	b, err := d.Alloc(int(total))
	if err != nil {
		return nil, err
	}
	clear(b[:cap(b)])
	return b, nil
}

// ClassFor returns the pool that serves requests of size bytes.
func (d *Dispatcher) ClassFor(size int) (*fixed.Pool, error) {
	sc, err := d.classIndex(size)
	if err != nil {
		return nil, err
	}
	return d.pools[sc], nil
}

// UsableSize returns the usable size of the class that owns b.
func (d *Dispatcher) UsableSize(b []byte) (int, error) {
	p, err := d.owner(b)
	if err != nil {
		return 0, err
	}
	return p.BlockSize(), nil
}

// Pools returns the size classes in ascending order.
func (d *Dispatcher) Pools() []*fixed.Pool {
	return slices.Clone(d.pools)
}

// MaxSize returns the largest request the dispatcher can serve.
func (d *Dispatcher) MaxSize() int {
	return d.sizes[len(d.sizes)-1]
}

// Verify checks the invariants of every pool.
func (d *Dispatcher) Verify() error {
	var errs []error
	for _, p := range d.pools {
		if err := p.Verify(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every pool's storage. The dispatcher is unusable afterwards.
func (d *Dispatcher) Close() error {
	var errs []error
	for _, p := range d.pools {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// classIndex returns the index of the smallest class whose usable size is at
// least size.
func (d *Dispatcher) classIndex(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidSize, size)
	}
	// Binary search: first class with sizes[i] >= size
	sc, _ := slices.BinarySearch(d.sizes, size)
	if sc == len(d.sizes) {
		return 0, fmt.Errorf("%w: %d bytes exceeds largest class (%d bytes)",
			ErrInvalidSize, size, d.sizes[len(d.sizes)-1])
	}
	return sc, nil
}

// allocFrom allocates from class sc, or from sc and every larger class in
// turn when cascading is enabled.
func (d *Dispatcher) allocFrom(sc, size int) ([]byte, error) {
	last := sc
	if d.cascade {
		last = len(d.pools) - 1
	}

	var lastErr error
	for i := sc; i <= last; i++ {
		b, err := d.pools[i].Alloc()
		if err == nil {
			if i != sc {
				d.stats.cascades++
				d.log.Debug("allocation cascaded",
					"size", size,
					"class", d.sizes[sc],
					"served_by", d.sizes[i])
			}
			return b[:size], nil
		}
		if !errors.Is(err, fixed.ErrOutOfBlocks) {
			return nil, err
		}
		lastErr = err
	}

	d.stats.outOfMemory++
	d.log.Warn("size class exhausted",
		"size", size,
		"class", d.sizes[sc],
		"pool", d.pools[sc].Name(),
		"cascade", d.cascade)
	return nil, fmt.Errorf("%w: %d bytes: %w", ErrOutOfMemory, size, lastErr)
}

// owner resolves the pool that handed out b. The slice must point into one of
// the dispatcher's pools, and a live block's header must carry that pool's
// owner tag.
func (d *Dispatcher) owner(b []byte) (*fixed.Pool, error) {
	for _, p := range d.pools {
		if !p.Contains(b) {
			continue
		}
		h, err := p.Lookup(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPointer, err)
		}
		if h.Used && h.Owner != p.ID() {
			return nil, fmt.Errorf("%w: owner tag %d does not match pool %q",
				ErrInvalidPointer, h.Owner, p.Name())
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: not owned by any size class", ErrInvalidPointer)
}

// corrupt records a corruption-class failure.
func (d *Dispatcher) corrupt(err error) error {
	d.stats.corruptions++
	d.log.Error("dispatcher rejected pointer", "error", err)
	if d.panicOnCorruption {
		panic(err)
	}
	return err
}
