package config

import (
	"fmt"
	"slices"

	"github.com/joshuapare/fbpool/xalloc"
)

// fixedPresets are hand-written layouts.
var fixedPresets = map[string][]PoolSpec{
	// bm: two large classes sized for bulk buffers.
	"bm": {
		{Name: "bm-2048", BlockSize: 2048, Capacity: 10000},
		{Name: "bm-4096", BlockSize: 4096, Capacity: 10000},
	},
	// small: object-sized classes for structs and short strings.
	"small": {
		{Name: "small-16", BlockSize: 16, Capacity: 64},
		{Name: "small-32", BlockSize: 32, Capacity: 64},
		{Name: "small-64", BlockSize: 64, Capacity: 32},
		{Name: "small-128", BlockSize: 128, Capacity: 32},
		{Name: "small-256", BlockSize: 256, Capacity: 16},
	},
}

// generatedPresets derive their classes from a size class strategy and use
// the layout's Capacity for every class.
var generatedPresets = map[string]xalloc.SizeClassConfig{
	xalloc.ConfigEmbedded.Name: xalloc.ConfigEmbedded,
	xalloc.ConfigBalanced.Name: xalloc.ConfigBalanced,
	xalloc.ConfigCoarse.Name:   xalloc.ConfigCoarse,
}

// PresetNames lists every known preset in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(fixedPresets)+len(generatedPresets))
	for n := range fixedPresets {
		names = append(names, n)
	}
	for n := range generatedPresets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// PresetPools expands a preset into pool specs. capacity only applies to
// generated presets.
func PresetPools(name string, capacity int) ([]PoolSpec, error) {
	if specs, ok := fixedPresets[name]; ok {
		return slices.Clone(specs), nil
	}
	cfg, ok := generatedPresets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q (known: %v)", ErrInvalid, name, PresetNames())
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: preset %q needs a positive capacity", ErrInvalid, name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	sizes := cfg.Sizes()
	specs := make([]PoolSpec, 0, len(sizes))
	for _, sz := range sizes {
		specs = append(specs, PoolSpec{
			Name:      fmt.Sprintf("%s-%d", cfg.Name, sz),
			BlockSize: sz,
			Capacity:  capacity,
		})
	}
	return specs, nil
}
