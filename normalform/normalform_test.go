package normalform_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/affrel/normalform"
	"github.com/katalvlaran/affrel/ring"
)

func mustRing(t *testing.T, w int) *ring.Ring {
	t.Helper()
	r, err := ring.New(w)
	require.NoError(t, err)
	return r
}

// requireNormal checks T·A·S = D and the shape of D.
func requireNormal(t *testing.T, r *ring.Ring, a *ring.Matrix, f *normalform.Form) {
	t.Helper()
	ta, err := r.Mul(f.T, a)
	require.NoError(t, err)
	tas, err := r.Mul(ta, f.S)
	require.NoError(t, err)
	require.True(t, tas.Equal(f.D), "T·A·S != D\nA:\n%s%s", a, f)

	k := f.D.Rows()
	prev, zeros := 0, false
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i != j {
				require.Zero(t, f.D.Elem(i, j), "off-diagonal D[%d][%d]", i, j)
			}
		}
		x := f.D.Elem(i, i)
		if x == 0 {
			zeros = true
			continue
		}
		require.False(t, zeros, "nonzero diagonal after a zero:\n%s", f.D)
		v := r.Valuation(x)
		require.Equal(t, r.Pow2(v), x, "diagonal D[%d][%d] is not a power of two", i, i)
		require.GreaterOrEqual(t, v, prev, "diagonal valuations decrease:\n%s", f.D)
		prev = v
	}
}

func TestNormalize_UpperTriangular(t *testing.T) {
	r := mustRing(t, 8)
	a, err := r.FromRows([][]int64{{1, 4, 2}, {0, 6, 7}, {0, 0, 3}})
	require.NoError(t, err)
	orig := a.Clone()

	f, err := normalform.Normalize(r, a)
	require.NoError(t, err)
	requireNormal(t, r, a, f)
	assert.True(t, a.Equal(orig), "input was modified")

	// det A = 18 = 2·9, so exactly one factor of two survives.
	assert.Equal(t, []int{0, 0, 1}, f.Ranks())
	assert.Equal(t, 3, f.Rank())
}

func TestNormalize_Singular(t *testing.T) {
	r := mustRing(t, 4)
	a, err := r.FromRows([][]int64{{2, 4}, {4, 8}})
	require.NoError(t, err)

	f, err := normalform.Normalize(r, a)
	require.NoError(t, err)
	requireNormal(t, r, a, f)
	assert.Equal(t, []int{1, 4}, f.Ranks())
	assert.Equal(t, 1, f.Rank())
}

func TestNormalize_Zero(t *testing.T) {
	r := mustRing(t, 8)
	a, err := ring.NewMatrix(3, 3)
	require.NoError(t, err)

	f, err := normalform.Normalize(r, a)
	require.NoError(t, err)
	id, err := r.Identity(3)
	require.NoError(t, err)
	assert.True(t, f.T.Equal(id))
	assert.True(t, f.S.Equal(id))
	assert.Equal(t, 0, f.Rank())
}

func TestNormalize_Errors(t *testing.T) {
	r := mustRing(t, 8)
	_, err := normalform.Normalize(r, nil)
	require.ErrorIs(t, err, ring.ErrNilMatrix)

	a, err := ring.NewMatrix(2, 3)
	require.NoError(t, err)
	_, err = normalform.Normalize(r, a)
	require.ErrorIs(t, err, normalform.ErrNonSquare)
}

func TestNormalize_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, w := range []int{1, 3, 8, 64} {
		r := mustRing(t, w)
		for trial := 0; trial < 40; trial++ {
			k := 1 + rng.Intn(5)
			rows := make([][]int64, k)
			for i := range rows {
				rows[i] = make([]int64, k)
				for j := range rows[i] {
					// Bias towards even entries so valuations vary.
					rows[i][j] = int64(rng.Intn(16)) << uint(rng.Intn(3))
				}
			}
			a, err := r.FromRows(rows)
			require.NoError(t, err)
			t.Run(fmt.Sprintf("w=%d/%d", w, trial), func(t *testing.T) {
				f, err := normalform.Normalize(r, a)
				require.NoError(t, err)
				requireNormal(t, r, a, f)
			})
		}
	}
}
