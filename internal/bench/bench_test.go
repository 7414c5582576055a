package bench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/fbpool/fixed"
	"github.com/joshuapare/fbpool/xalloc"
)

var small = Params{Blocks: 64, MaxBlockSize: 256}

func newPool(t *testing.T, blockSize, capacity int) *fixed.Pool {
	t.Helper()
	p, err := fixed.New("bench", blockSize, capacity)
	require.NoError(t, err)
	require.NoError(t, p.Init())
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func requirePhases(t *testing.T, res Result, p Params) {
	t.Helper()
	require.Len(t, res.Phases, 5)
	names := make([]string, 0, len(res.Phases))
	var sum int64
	for _, ph := range res.Phases {
		names = append(names, ph.Name)
		sum += int64(ph.Duration)
	}
	assert.Equal(t, []string{"alloc half", "free even", "alloc full", "free odd", "free reverse"}, names)
	assert.Equal(t, p.Blocks, res.Phases[0].Ops)
	assert.Equal(t, res.Phases[1].Ops+res.Phases[3].Ops, p.Blocks)
	assert.Equal(t, sum, int64(res.Total))
}

func TestRun_Heap(t *testing.T) {
	res, err := Run("heap", Heap(), small)
	require.NoError(t, err)
	assert.Equal(t, "heap", res.Name)
	requirePhases(t, res, small)
}

func TestRun_Pool(t *testing.T) {
	p := newPool(t, small.MaxBlockSize, small.PeakBlocks())

	res, err := Run("pool", Pool(p), small)
	require.NoError(t, err)
	requirePhases(t, res, small)
	assert.Equal(t, 0, p.InUse())
	require.NoError(t, p.Verify())

	st := p.Stats()
	assert.Equal(t, small.PeakBlocks(), st.HighWater)
	assert.EqualValues(t, 2*small.Blocks, st.Allocs)
}

func TestRun_Dispatcher(t *testing.T) {
	half := newPool(t, small.MaxBlockSize/2, small.Blocks)
	full := newPool(t, small.MaxBlockSize, small.Blocks)
	d, err := xalloc.New([]*fixed.Pool{half, full})
	require.NoError(t, err)

	res, err := Run("dispatcher", Dispatcher(d), small)
	require.NoError(t, err)
	requirePhases(t, res, small)
	assert.Equal(t, 0, half.InUse())
	assert.Equal(t, 0, full.InUse())
	assert.Equal(t, small.Blocks, half.Stats().HighWater)
	assert.Equal(t, small.Blocks, full.Stats().HighWater)
}

func TestRun_OddBlockCount(t *testing.T) {
	p := Params{Blocks: 7, MaxBlockSize: 64}
	pool := newPool(t, 64, p.PeakBlocks())

	res, err := Run("odd", Pool(pool), p)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Phases[1].Ops)
	assert.Equal(t, 3, res.Phases[3].Ops)
	assert.Equal(t, 0, pool.InUse())
}

func TestRun_PoolTooSmall(t *testing.T) {
	p := newPool(t, small.MaxBlockSize, small.Blocks)

	res, err := Run("short", Pool(p), small)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fixed.ErrOutOfBlocks))
	assert.Contains(t, err.Error(), "alloc full")
	assert.Len(t, res.Phases, 2)
}

func TestRun_BlockTooLarge(t *testing.T) {
	p := newPool(t, small.MaxBlockSize/2, small.PeakBlocks())

	_, err := Run("narrow", Pool(p), small)
	require.ErrorIs(t, err, xalloc.ErrInvalidSize)
}

func TestRun_InvalidParams(t *testing.T) {
	for _, p := range []Params{{}, {Blocks: 1, MaxBlockSize: 1}, {Blocks: -1, MaxBlockSize: 64}} {
		_, err := Run("bad", Heap(), p)
		require.ErrorIs(t, err, ErrParams)
	}
}

func BenchmarkRun_Pool(b *testing.B) {
	p, err := fixed.New("bench", DefaultMaxBlockSize, DefaultParams().PeakBlocks())
	require.NoError(b, err)
	require.NoError(b, p.Init())
	defer p.Close()

	a := Pool(p)
	for b.Loop() {
		if _, err := Run("pool", a, DefaultParams()); err != nil {
			b.Fatal(err)
		}
	}
}
