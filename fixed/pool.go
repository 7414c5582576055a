package fixed

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/fbpool/internal/arena"
	"github.com/joshuapare/fbpool/internal/format"
)

// lastID hands out process-unique owner identifiers. Zero is never used so a
// cleared header can't be mistaken for an owned block.
var lastID atomic.Uint32

// Pool is a fixed array of equal-size blocks with an intrusive free list.
type Pool struct {
	name     string
	id       uint32
	usable   int // Bytes visible to the caller per block
	stride   int // Distance between slot starts (header + payload, 8-aligned)
	capacity int

	region *arena.Region
	mem    []byte

	head  uint32 // First free slot, format.NoSlot when exhausted
	inUse int
	ready bool

	stats poolStats

	log               *slog.Logger
	panicOnCorruption bool
}

// New declares a pool of capacity blocks, each with blockSize usable bytes.
// Backing storage is reserved immediately and never resized; call Init before
// the first Alloc.
func New(name string, blockSize, capacity int, opts ...Option) (*Pool, error) {
	if blockSize <= 0 || capacity <= 0 {
		return nil, fmt.Errorf("%w: pool %q: block size %d, capacity %d",
			ErrBadConfig, name, blockSize, capacity)
	}
	if uint64(capacity) >= uint64(format.MaxSlots) {
		return nil, fmt.Errorf("%w: pool %q: capacity %d exceeds %d",
			ErrBadConfig, name, capacity, format.MaxSlots-1)
	}
	stride := format.SlotStride(blockSize)
	if capacity > int(^uint(0)>>1)/stride {
		return nil, fmt.Errorf("%w: pool %q: %d × %d bytes overflows",
			ErrBadConfig, name, capacity, stride)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	region, err := arena.Alloc(capacity*stride, o.storage)
	if err != nil {
		return nil, fmt.Errorf("pool %q: %w", name, err)
	}

	return &Pool{
		name:              name,
		id:                lastID.Add(1),
		usable:            blockSize,
		stride:            stride,
		capacity:          capacity,
		region:            region,
		mem:               region.Bytes(),
		head:              format.NoSlot,
		log:               o.log,
		panicOnCorruption: o.panicOnCorruption,
	}, nil
}

// Init links every slot into the free list. It must be called exactly once.
func (p *Pool) Init() error {
	if p.ready {
		p.log.Warn("pool initialized twice", "pool", p.name)
		return fmt.Errorf("pool %q: %w", p.name, ErrAlreadyInitialized)
	}
	if p.mem == nil {
		return fmt.Errorf("pool %q: %w: storage released", p.name, ErrNotInitialized)
	}

	for i := range p.capacity {
		s := p.slot(uint32(i))
		format.PutHeader(s, format.Header{})
		next := uint32(i + 1)
		if i == p.capacity-1 {
			next = format.NoSlot
		}
		format.PutLink(s, next)
	}
	p.head = 0
	p.inUse = 0
	p.stats = poolStats{}
	p.ready = true

	p.log.Debug("pool initialized",
		"pool", p.name,
		"id", p.id,
		"block_size", p.usable,
		"stride", p.stride,
		"capacity", p.capacity,
		"bytes", len(p.mem),
		"mapped", p.region.Mapped())
	return nil
}

// InitAll initializes each pool in order, stopping at the first failure.
func InitAll(pools ...*Pool) error {
	for _, p := range pools {
		if err := p.Init(); err != nil {
			return err
		}
	}
	return nil
}

// Alloc pops the head of the free list and returns its payload. The slice has
// len and cap equal to BlockSize.
func (p *Pool) Alloc() ([]byte, error) {
	if !p.ready {
		return nil, fmt.Errorf("pool %q: %w", p.name, ErrNotInitialized)
	}
	if p.head == format.NoSlot {
		p.stats.failures++
		p.log.Warn("pool exhausted", "pool", p.name, "capacity", p.capacity)
		return nil, fmt.Errorf("pool %q: %w", p.name, ErrOutOfBlocks)
	}

	idx := p.head
	s := p.slot(idx)
	next := format.ReadLink(s)
	if next != format.NoSlot && int(next) >= p.capacity {
		// A freed block was written through after Free.
		return nil, p.corrupt(fmt.Errorf("%w: slot %d links to %d", ErrCorrupt, idx, next))
	}
	if h, err := format.ReadHeader(s); err != nil || h.Used {
		return nil, p.corrupt(fmt.Errorf("%w: free-list slot %d is not free", ErrCorrupt, idx))
	}

	p.head = next
	format.PutHeader(s, format.Header{Owner: p.id, Used: true})
	p.inUse++
	p.stats.allocs++
	p.stats.highWater = max(p.stats.highWater, p.inUse)
	return p.payload(idx), nil
}

// Free returns the block whose payload is b to the head of the free list.
// Slices that are not a live payload of this pool are rejected without
// touching the free list.
func (p *Pool) Free(b []byte) error {
	if !p.ready {
		return fmt.Errorf("pool %q: %w", p.name, ErrNotInitialized)
	}
	idx, err := p.index(b)
	if err != nil {
		return p.corrupt(err)
	}

	s := p.slot(idx)
	h, err := format.ReadHeader(s)
	if err != nil {
		return p.corrupt(fmt.Errorf("%w: %w", ErrInvalidFree, err))
	}
	if !h.Used {
		return p.corrupt(fmt.Errorf("%w: slot %d", ErrDoubleFree, idx))
	}
	if h.Owner != p.id {
		return p.corrupt(fmt.Errorf("%w: slot %d owned by %d", ErrInvalidFree, idx, h.Owner))
	}

	format.PutHeader(s, format.Header{})
	format.PutLink(s, p.head)
	p.head = idx
	p.inUse--
	p.stats.frees++
	return nil
}

// Header describes the block header in front of a payload.
type Header = format.Header

// Lookup decodes the header in front of payload b.
func (p *Pool) Lookup(b []byte) (Header, error) {
	idx, err := p.index(b)
	if err != nil {
		return Header{}, err
	}
	h, err := format.ReadHeader(p.slot(idx))
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidFree, err)
	}
	return h, nil
}

// Payload returns the full usable region of the live block that b points at.
func (p *Pool) Payload(b []byte) ([]byte, error) {
	h, err := p.Lookup(b)
	if err != nil {
		return nil, err
	}
	if !h.Used {
		return nil, fmt.Errorf("%w: block is free", ErrInvalidFree)
	}
	idx, _ := p.index(b)
	return p.payload(idx), nil
}

// Contains reports whether b points into this pool's storage. It does not
// check that b starts at a payload boundary.
func (p *Pool) Contains(b []byte) bool {
	if cap(b) == 0 || len(p.mem) == 0 {
		return false
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.mem)))
	return addr >= base && addr < base+uintptr(len(p.mem))
}

// Close releases mapped storage. The pool is unusable afterwards.
func (p *Pool) Close() error {
	p.ready = false
	p.mem = nil
	p.head = format.NoSlot
	return p.region.Release()
}

// Name returns the pool's declared name.
func (p *Pool) Name() string { return p.name }

// ID returns the owner identifier stamped into every block this pool hands out.
func (p *Pool) ID() uint32 { return p.id }

// BlockSize returns the usable bytes per block.
func (p *Pool) BlockSize() int { return p.usable }

// Stride returns the bytes each block occupies including its header.
func (p *Pool) Stride() int { return p.stride }

// Capacity returns the total number of blocks.
func (p *Pool) Capacity() int { return p.capacity }

// InUse returns the number of blocks currently handed out.
func (p *Pool) InUse() int { return p.inUse }

// Available returns the number of blocks on the free list.
func (p *Pool) Available() int { return p.capacity - p.inUse }

// Initialized reports whether Init has run.
func (p *Pool) Initialized() bool { return p.ready }

// index maps a payload slice back to its slot index.
func (p *Pool) index(b []byte) (uint32, error) {
	if !p.Contains(b) {
		return 0, fmt.Errorf("%w: pointer outside pool %q", ErrInvalidFree, p.name)
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.mem)))
	rel := int(addr-base) - format.HeaderSize
	if rel < 0 || rel%p.stride != 0 {
		return 0, fmt.Errorf("%w: pointer not at a block start in pool %q", ErrInvalidFree, p.name)
	}
	return uint32(rel / p.stride), nil
}

func (p *Pool) slot(idx uint32) []byte {
	off := int(idx) * p.stride
	return p.mem[off : off+p.stride]
}

func (p *Pool) payload(idx uint32) []byte {
	start := int(idx)*p.stride + format.HeaderSize
	end := start + p.usable
	return p.mem[start:end:end]
}

// corrupt records a corruption-class rejection.
func (p *Pool) corrupt(err error) error {
	p.stats.corruptions++
	err = fmt.Errorf("pool %q: %w", p.name, err)
	p.log.Error("pool corruption guard tripped", "pool", p.name, "error", err)
	if p.panicOnCorruption {
		panic(err)
	}
	return err
}
