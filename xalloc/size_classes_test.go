package xalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetSizes(t *testing.T) {
	tests := []struct {
		cfg   SizeClassConfig
		count int
		first int
		last  int
	}{
		{ConfigEmbedded, 13, 16, 4096},
		{ConfigBalanced, 41, 16, 16384},
		{ConfigCoarse, 21, 32, 16384},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Name, func(t *testing.T) {
			require.NoError(t, tt.cfg.Validate())
			sizes := tt.cfg.Sizes()
			require.Len(t, sizes, tt.count)
			assert.Equal(t, tt.first, sizes[0])
			assert.Equal(t, tt.last, sizes[len(sizes)-1])
			for i := 1; i < len(sizes); i++ {
				require.Greater(t, sizes[i], sizes[i-1], "sizes must be strictly ascending")
				require.Zero(t, sizes[i]%8, "sizes must be 8-byte aligned")
			}
		})
	}
}

func TestEmbeddedSizes(t *testing.T) {
	want := []int{16, 32, 48, 64, 80, 96, 112, 128, 256, 512, 1024, 2048, 4096}
	assert.Equal(t, want, ConfigEmbedded.Sizes())
}

func TestSizesTinyGrowthStillProgresses(t *testing.T) {
	cfg := SizeClassConfig{
		Name:           "tiny",
		SmallMin:       8,
		SmallMax:       8,
		SmallIncrement: 8,
		MediumMax:      64,
		GrowthFactor:   1.01,
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{8, 16, 24, 32, 40, 48, 56, 64}, cfg.Sizes())
}

func TestSizeClassValidate(t *testing.T) {
	bad := []SizeClassConfig{
		{Name: "min", SmallMin: 0, SmallMax: 8, SmallIncrement: 8, MediumMax: 8},
		{Name: "inc", SmallMin: 8, SmallMax: 8, SmallIncrement: 0, MediumMax: 8},
		{Name: "max", SmallMin: 16, SmallMax: 8, SmallIncrement: 8, MediumMax: 16},
		{Name: "medium", SmallMin: 8, SmallMax: 64, SmallIncrement: 8, MediumMax: 32},
		{Name: "growth", SmallMin: 8, SmallMax: 64, SmallIncrement: 8, MediumMax: 128, GrowthFactor: 1},
	}
	for _, cfg := range bad {
		require.ErrorIs(t, cfg.Validate(), ErrInvalidSize, cfg.Name)
	}
}

func TestNewGeometric(t *testing.T) {
	d, err := NewGeometric(ConfigEmbedded, 8, nil)
	require.NoError(t, err)

	pools := d.Pools()
	require.Len(t, pools, 13)
	assert.Equal(t, "embedded-16", pools[0].Name())
	assert.Equal(t, "embedded-4096", pools[12].Name())

	p, err := d.ClassFor(100)
	require.NoError(t, err)
	assert.Equal(t, 112, p.BlockSize())

	_, err = NewGeometric(SizeClassConfig{Name: "broken"}, 8, nil)
	require.ErrorIs(t, err, ErrInvalidSize)
}
