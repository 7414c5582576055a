package fixed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRandomAllocFreeKeepsInvariants performs random alloc/free (including
// rejected double frees) and validates the pool after every step.
func TestRandomAllocFreeKeepsInvariants(t *testing.T) {
	const capacity = 64
	p := newTestPool(t, 40, capacity)

	rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility
	live := make([][]byte, 0, capacity)
	var freed [][]byte

	for i := range 2000 {
		switch op := rng.Intn(5); {
		case op < 2: // Allocate
			b, err := p.Alloc()
			if len(live) == capacity {
				require.ErrorIs(t, err, ErrOutOfBlocks, "step %d", i)
				break
			}
			require.NoError(t, err, "step %d", i)
			b[0] = byte(i)
			live = append(live, b)

		case op < 4: // Free
			if len(live) == 0 {
				break
			}
			j := rng.Intn(len(live))
			require.NoError(t, p.Free(live[j]), "step %d", i)
			freed = append(freed, live[j])
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]

		default: // Free something already freed, unless it was reused
			if len(freed) == 0 {
				break
			}
			b := freed[rng.Intn(len(freed))]
			h, err := p.Lookup(b)
			require.NoError(t, err)
			if !h.Used {
				require.ErrorIs(t, p.Free(b), ErrDoubleFree, "step %d", i)
			}
		}

		require.Equal(t, len(live), p.InUse(), "step %d", i)
		requireInvariant(t, p)
	}
}
