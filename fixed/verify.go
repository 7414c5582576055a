package fixed

import (
	"fmt"

	"github.com/joshuapare/fbpool/internal/format"
)

// Verify walks the free list and every header and checks that they agree with
// the pool's accounting:
//
//   - every link stays in range and the list has no cycle
//   - every slot on the free list has a free header
//   - every other slot has a used header owned by this pool
//   - InUse + free-list length == Capacity
//
// It is O(Capacity) and meant for tests and diagnostics.
func (p *Pool) Verify() error {
	if !p.ready {
		return fmt.Errorf("pool %q: %w", p.name, ErrNotInitialized)
	}

	onList := make([]bool, p.capacity)
	freeLen := 0
	for idx := p.head; idx != format.NoSlot; {
		if int(idx) >= p.capacity {
			return fmt.Errorf("pool %q: %w: link %d out of range", p.name, ErrCorrupt, idx)
		}
		if onList[idx] {
			return fmt.Errorf("pool %q: %w: free list cycles at slot %d", p.name, ErrCorrupt, idx)
		}
		onList[idx] = true
		freeLen++
		idx = format.ReadLink(p.slot(idx))
	}

	for i := range p.capacity {
		h, err := format.ReadHeader(p.slot(uint32(i)))
		if err != nil {
			return fmt.Errorf("pool %q: %w: slot %d: %w", p.name, ErrCorrupt, i, err)
		}
		switch {
		case onList[i] && h.Used:
			return fmt.Errorf("pool %q: %w: slot %d on free list but marked used", p.name, ErrCorrupt, i)
		case !onList[i] && !h.Used:
			return fmt.Errorf("pool %q: %w: slot %d leaked (free but unlinked)", p.name, ErrCorrupt, i)
		case h.Used && h.Owner != p.id:
			return fmt.Errorf("pool %q: %w: slot %d owned by %d", p.name, ErrCorrupt, i, h.Owner)
		}
	}

	if p.inUse+freeLen != p.capacity {
		return fmt.Errorf("pool %q: %w: in use %d + free %d != capacity %d",
			p.name, ErrCorrupt, p.inUse, freeLen, p.capacity)
	}
	return nil
}

// FreeLen counts the free list by walking it. It stops after Capacity links
// so a corrupt list cannot loop forever.
func (p *Pool) FreeLen() int {
	n := 0
	for idx := p.head; idx != format.NoSlot && int(idx) < p.capacity && n <= p.capacity; n++ {
		idx = format.ReadLink(p.slot(idx))
	}
	return n
}
