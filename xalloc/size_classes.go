package xalloc

import (
	"fmt"
	"math"

	"github.com/joshuapare/fbpool/fixed"
	"github.com/joshuapare/fbpool/internal/format"
)

// SizeClassConfig defines a size class strategy: linear steps for small
// requests, geometric growth above that.
type SizeClassConfig struct {
	// Name for this configuration, used as the pool name prefix.
	Name string

	// Small classes (linear increments)
	SmallMin       int // Smallest class
	SmallMax       int // Last linear class
	SmallIncrement int // Step between linear classes

	// Medium/Large classes (geometric growth)
	MediumMax    int     // Largest class
	GrowthFactor float64 // Ratio between consecutive classes above SmallMax
}

// Predefined configurations.
var (
	// ConfigEmbedded: few classes for small-footprint targets.
	// 16-128 step 16 (8 classes) + 256-4K doubling (5 classes) = 13 total.
	ConfigEmbedded = SizeClassConfig{
		Name:           "embedded",
		SmallMin:       16,
		SmallMax:       128,
		SmallIncrement: 16,
		MediumMax:      4096,
		GrowthFactor:   2.0,
	}

	// ConfigBalanced: fine small steps, moderate growth.
	// 16-512 step 16 (32 classes) + 512-16K ×1.5 (9 classes) = 41 total.
	ConfigBalanced = SizeClassConfig{
		Name:           "balanced",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// ConfigCoarse: fewer classes, more internal fragmentation.
	// 32-512 step 32 (16 classes) + 512-16K doubling (5 classes) = 21 total.
	ConfigCoarse = SizeClassConfig{
		Name:           "coarse",
		SmallMin:       32,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}
)

// Validate reports whether the configuration can produce a class table.
func (c SizeClassConfig) Validate() error {
	switch {
	case c.SmallMin <= 0:
		return fmt.Errorf("%w: size classes %q: SmallMin must be positive", ErrInvalidSize, c.Name)
	case c.SmallIncrement <= 0:
		return fmt.Errorf("%w: size classes %q: SmallIncrement must be positive", ErrInvalidSize, c.Name)
	case c.SmallMax < c.SmallMin:
		return fmt.Errorf("%w: size classes %q: SmallMax below SmallMin", ErrInvalidSize, c.Name)
	case c.MediumMax < c.SmallMax:
		return fmt.Errorf("%w: size classes %q: MediumMax below SmallMax", ErrInvalidSize, c.Name)
	case c.MediumMax > c.SmallMax && c.GrowthFactor <= 1:
		return fmt.Errorf("%w: size classes %q: GrowthFactor must exceed 1", ErrInvalidSize, c.Name)
	}
	return nil
}

// Sizes computes the ascending usable sizes of every class. Sizes are 8-byte
// aligned and strictly increasing.
func (c SizeClassConfig) Sizes() []int {
	sizes := make([]int, 0, 64)
	push := func(n int) {
		n = format.Align8(n)
		if len(sizes) == 0 || n > sizes[len(sizes)-1] {
			sizes = append(sizes, n)
		}
	}

	// Phase 1: Small classes (linear increments)
	size := c.SmallMin
	for ; size <= c.SmallMax; size += c.SmallIncrement {
		push(size)
	}

	// Phase 2: Medium/Large classes (geometric growth)
	size = c.SmallMax
	for size < c.MediumMax {
		next := format.Align8(int(math.Ceil(float64(size) * c.GrowthFactor)))
		if next <= size {
			next = size + format.SlotAlignment // Ensure progress
		}
		next = min(next, c.MediumMax)
		push(next)
		size = next
	}
	return sizes
}

// NewGeometric builds one pool of capacity blocks per class in cfg,
// initializes them, and composes them into a Dispatcher. poolOpts apply to
// every pool.
func NewGeometric(cfg SizeClassConfig, capacity int, poolOpts []fixed.Option, opts ...Option) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sizes := cfg.Sizes()
	pools := make([]*fixed.Pool, 0, len(sizes))
	fail := func(err error) (*Dispatcher, error) {
		for _, p := range pools {
			_ = p.Close()
		}
		return nil, err
	}
	for _, sz := range sizes {
		p, err := fixed.New(fmt.Sprintf("%s-%d", cfg.Name, sz), sz, capacity, poolOpts...)
		if err != nil {
			return fail(err)
		}
		pools = append(pools, p)
		if err := p.Init(); err != nil {
			return fail(err)
		}
	}
	d, err := New(pools, opts...)
	if err != nil {
		return fail(err)
	}
	return d, nil
}
