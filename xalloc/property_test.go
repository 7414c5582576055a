package xalloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRandomTrafficKeepsInvariants drives a mixed Alloc/Realloc/Calloc/Free
// workload and checks every class after each step. Each live block carries a
// fill byte so overlapping blocks or lost copies show up as content changes.
func TestRandomTrafficKeepsInvariants(t *testing.T) {
	d, err := NewGeometric(ConfigEmbedded, 16, nil)
	require.NoError(t, err)

	type block struct {
		buf  []byte
		fill byte
	}
	rng := rand.New(rand.NewSource(7)) // Fixed seed for reproducibility
	var live []block

	fill := func(b []byte, v byte) {
		for i := range b {
			b[i] = v
		}
	}
	check := func(step int) {
		for _, blk := range live {
			for i, v := range blk.buf {
				require.Equal(t, blk.fill, v, "step %d: byte %d of live block", step, i)
			}
		}
	}

	for step := range 1500 {
		switch op := rng.Intn(10); {
		case op < 4: // Alloc
			b, err := d.Alloc(1 + rng.Intn(d.MaxSize()))
			if err != nil {
				require.ErrorIs(t, err, ErrOutOfMemory, "step %d", step)
				break
			}
			v := byte(step)
			fill(b, v)
			live = append(live, block{b, v})

		case op < 5: // Calloc
			b, err := d.Calloc(1+rng.Intn(8), 1+rng.Intn(256))
			if err != nil {
				require.ErrorIs(t, err, ErrOutOfMemory, "step %d", step)
				break
			}
			live = append(live, block{b, 0})

		case op < 7: // Realloc
			if len(live) == 0 {
				break
			}
			j := rng.Intn(len(live))
			n := 1 + rng.Intn(d.MaxSize())
			b, err := d.Realloc(live[j].buf, n)
			if err != nil {
				require.ErrorIs(t, err, ErrOutOfMemory, "step %d", step)
				break
			}
			keep := min(n, len(live[j].buf))
			for i := range keep {
				require.Equal(t, live[j].fill, b[i], "step %d: realloc lost byte %d", step, i)
			}
			v := byte(step)
			fill(b, v)
			live[j] = block{b, v}

		default: // Free
			if len(live) == 0 {
				break
			}
			j := rng.Intn(len(live))
			require.NoError(t, d.Free(live[j].buf), "step %d", step)
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		if step%50 == 0 {
			check(step)
		}
		require.Equal(t, len(live), d.Stats().InUse, "step %d", step)
		requireInvariants(t, d)
	}
	check(-1)
}
