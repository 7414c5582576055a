package xalloc

import "github.com/joshuapare/fbpool/fixed"

// dispatcherStats holds internal dispatcher counters.
type dispatcherStats struct {
	allocCalls     int // Total Alloc() calls, including those made by Realloc/Calloc
	freeCalls      int // Total Free() calls
	invalidSize    int // Requests rejected for size
	outOfMemory    int // Requests whose class (and cascade) was exhausted
	cascades       int // Requests served by a larger class than selected
	reallocInPlace int // Reallocs that kept the same block
	reallocMoved   int // Reallocs that copied into a larger class
	corruptions    int // Rejected pointers and frees
}

// Stats is a point-in-time snapshot of a dispatcher and its classes.
type Stats struct {
	Classes []fixed.Stats `json:"classes"`

	AllocCalls     int `json:"alloc_calls"`
	FreeCalls      int `json:"free_calls"`
	InvalidSize    int `json:"invalid_size"`
	OutOfMemory    int `json:"out_of_memory"`
	Cascades       int `json:"cascades"`
	ReallocInPlace int `json:"realloc_in_place"`
	ReallocMoved   int `json:"realloc_moved"`
	Corruptions    int `json:"corruptions"`

	InUse int `json:"in_use"` // Blocks in use across all classes
	Bytes int `json:"bytes"`  // Reserved backing storage across all classes
}

// Stats returns a snapshot of the dispatcher's counters and every class.
func (d *Dispatcher) Stats() Stats {
	s := Stats{
		Classes:        make([]fixed.Stats, 0, len(d.pools)),
		AllocCalls:     d.stats.allocCalls,
		FreeCalls:      d.stats.freeCalls,
		InvalidSize:    d.stats.invalidSize,
		OutOfMemory:    d.stats.outOfMemory,
		Cascades:       d.stats.cascades,
		ReallocInPlace: d.stats.reallocInPlace,
		ReallocMoved:   d.stats.reallocMoved,
		Corruptions:    d.stats.corruptions,
	}
	for _, p := range d.pools {
		ps := p.Stats()
		s.Classes = append(s.Classes, ps)
		s.InUse += ps.InUse
		s.Bytes += ps.Bytes
	}
	return s
}
