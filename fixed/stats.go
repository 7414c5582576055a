package fixed

// poolStats holds internal pool counters.
type poolStats struct {
	allocs      int // Successful Alloc calls
	frees       int // Successful Free calls
	failures    int // Alloc calls that found the free list empty
	corruptions int // Rejected frees and free-list inconsistencies
	highWater   int // Peak blocks in use since Init
}

// Stats is a point-in-time snapshot of a pool's usage.
type Stats struct {
	Name        string `json:"name"`
	ID          uint32 `json:"id"`
	BlockSize   int    `json:"block_size"`
	Stride      int    `json:"stride"`
	Capacity    int    `json:"capacity"`
	InUse       int    `json:"in_use"`
	Free        int    `json:"free"`
	HighWater   int    `json:"high_water"`
	Allocs      int    `json:"allocs"`
	Frees       int    `json:"frees"`
	Failures    int    `json:"failures"`
	Corruptions int    `json:"corruptions"`
	Bytes       int    `json:"bytes"`
	Mapped      bool   `json:"mapped"`
	Locked      bool   `json:"locked"`
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Name:        p.name,
		ID:          p.id,
		BlockSize:   p.usable,
		Stride:      p.stride,
		Capacity:    p.capacity,
		InUse:       p.inUse,
		Free:        p.capacity - p.inUse,
		HighWater:   p.stats.highWater,
		Allocs:      p.stats.allocs,
		Frees:       p.stats.frees,
		Failures:    p.stats.failures,
		Corruptions: p.stats.corruptions,
		Bytes:       p.capacity * p.stride,
		Mapped:      p.region.Mapped(),
		Locked:      p.region.Locked(),
	}
}

// Utilization returns the fraction of blocks in use, from 0 to 1.
func (s Stats) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.InUse) / float64(s.Capacity)
}
