// Package bench times an allocator through a fixed churn pattern: a half-size
// fill, an interleaved release, a full-size fill on top, then a full drain.
// The same pattern runs against the Go heap, a single pool, and the
// dispatcher so their numbers can be compared directly.
package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/joshuapare/fbpool/fixed"
	"github.com/joshuapare/fbpool/xalloc"
)

// Default workload sizes.
const (
	DefaultBlocks       = 10000
	DefaultMaxBlockSize = 4096
)

// ErrParams indicates a workload that cannot run.
var ErrParams = errors.New("bench: invalid parameters")

// Allocator is the surface the harness drives.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte) error
}

// Params sizes the workload.
type Params struct {
	Blocks       int // Blocks allocated per fill phase
	MaxBlockSize int // The first fill uses half of this
}

// DefaultParams returns the standard workload.
func DefaultParams() Params {
	return Params{Blocks: DefaultBlocks, MaxBlockSize: DefaultMaxBlockSize}
}

// PeakBlocks returns the most blocks live at once during a run. Pool
// capacities must cover it.
func (p Params) PeakBlocks() int {
	return p.Blocks/2 + p.Blocks
}

func (p Params) validate() error {
	if p.Blocks <= 0 || p.MaxBlockSize < 2 {
		return fmt.Errorf("%w: blocks %d, max block size %d", ErrParams, p.Blocks, p.MaxBlockSize)
	}
	return nil
}

// Phase is one timed step of a run.
type Phase struct {
	Name     string        `json:"name"`
	Ops      int           `json:"ops"`
	Duration time.Duration `json:"duration_ns"`
}

// Result holds the timing of one run.
type Result struct {
	Name   string        `json:"name"`
	Phases []Phase       `json:"phases"`
	Total  time.Duration `json:"total_ns"`
}

// Run drives a through the workload. Any allocation or free failure aborts
// the run; blocks still live at that point are not reclaimed.
func Run(name string, a Allocator, p Params) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}

	first := make([][]byte, p.Blocks)
	second := make([][]byte, p.Blocks)
	res := Result{Name: name, Phases: make([]Phase, 0, 5)}

	timed := func(phase string, ops int, fn func() error) error {
		start := time.Now()
		err := fn()
		d := time.Since(start)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", name, phase, err)
		}
		res.Phases = append(res.Phases, Phase{Name: phase, Ops: ops, Duration: d})
		res.Total += d
		return nil
	}

	half := p.MaxBlockSize / 2
	evens := (p.Blocks + 1) / 2
	odds := p.Blocks / 2

	steps := []struct {
		name string
		ops  int
		fn   func() error
	}{
		{"alloc half", p.Blocks, func() error { return fill(a, first, half) }},
		{"free even", evens, func() error { return release(a, first, 0) }},
		{"alloc full", p.Blocks, func() error { return fill(a, second, p.MaxBlockSize) }},
		{"free odd", odds, func() error { return release(a, first, 1) }},
		{"free reverse", p.Blocks, func() error { return drain(a, second) }},
	}
	for _, s := range steps {
		if err := timed(s.name, s.ops, s.fn); err != nil {
			return res, err
		}
	}
	return res, nil
}

func fill(a Allocator, dst [][]byte, size int) error {
	for i := range dst {
		b, err := a.Alloc(size)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		dst[i] = b
	}
	return nil
}

// release frees every other block starting at from.
func release(a Allocator, blocks [][]byte, from int) error {
	for i := from; i < len(blocks); i += 2 {
		if err := a.Free(blocks[i]); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		blocks[i] = nil
	}
	return nil
}

func drain(a Allocator, blocks [][]byte) error {
	for i := len(blocks) - 1; i >= 0; i-- {
		if err := a.Free(blocks[i]); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		blocks[i] = nil
	}
	return nil
}

type heapAllocator struct{}

// Heap returns an Allocator backed by make. Free drops nothing; the garbage
// collector reclaims blocks once the harness forgets them.
func Heap() Allocator { return heapAllocator{} }

func (heapAllocator) Alloc(size int) ([]byte, error) { return make([]byte, size), nil }
func (heapAllocator) Free([]byte) error              { return nil }

type poolAllocator struct{ p *fixed.Pool }

// Pool adapts a single fixed pool. Requests larger than its block size fail
// with xalloc.ErrInvalidSize.
func Pool(p *fixed.Pool) Allocator { return poolAllocator{p: p} }

func (a poolAllocator) Alloc(size int) ([]byte, error) {
	if size <= 0 || size > a.p.BlockSize() {
		return nil, fmt.Errorf("%w: %d bytes in pool %q", xalloc.ErrInvalidSize, size, a.p.Name())
	}
	b, err := a.p.Alloc()
	if err != nil {
		return nil, err
	}
	return b[:size], nil
}

func (a poolAllocator) Free(b []byte) error { return a.p.Free(b) }

// Dispatcher adapts a size-class dispatcher.
func Dispatcher(d *xalloc.Dispatcher) Allocator { return d }
