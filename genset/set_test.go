package genset_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/affrel/genset"
	"github.com/katalvlaran/affrel/ring"
)

func mustRing(t *testing.T, w int) *ring.Ring {
	t.Helper()
	r, err := ring.New(w)
	require.NoError(t, err)
	return r
}

func lead(r *ring.Ring, coords ...int64) genset.LeadVector {
	return genset.NewLeadVector(r.Vec(coords...))
}

// stored flattens the set for cmp.Diff.
func stored(s *genset.Set) []ring.Vector {
	var out []ring.Vector
	for _, g := range s.Vectors() {
		out = append(out, g.Vector())
	}
	return out
}

// requireCanonical checks the structural invariants every Insert preserves.
func requireCanonical(t *testing.T, s *genset.Set) {
	t.Helper()
	prev := genset.NoLead
	for _, g := range s.Vectors() {
		require.False(t, g.IsZero(), "zero vector stored")
		require.Greater(t, g.Index(), prev, "leading indices not strictly ascending: %s", s)
		prev = g.Index()
	}
	require.LessOrEqual(t, s.Len(), s.Dim())
}

// span enumerates the Z-module generated by gens by closing {0} under
// addition of each generator. Only usable for tiny rings.
func span(r *ring.Ring, dim int, gens []ring.Vector) map[string]bool {
	zero := make(ring.Vector, dim)
	seen := map[string]bool{zero.String(): true}
	queue := []ring.Vector{zero}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, g := range gens {
			next := make(ring.Vector, dim)
			for i := range next {
				next[i] = r.Add(cur[i], g[i])
			}
			if k := next.String(); !seen[k] {
				seen[k] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

func TestLeadVector(t *testing.T) {
	r := mustRing(t, 8)
	lv := lead(r, 0, 0, 6, 1)
	assert.Equal(t, 2, lv.Index())
	assert.Equal(t, uint64(6), lv.Entry())
	assert.False(t, lv.IsZero())

	src := r.Vec(0, 3)
	lv = genset.NewLeadVector(src)
	src[1] = 9 // the LeadVector keeps its own copy
	assert.Equal(t, uint64(3), lv.Entry())
	out := lv.Vector()
	out[1] = 11
	assert.Equal(t, uint64(3), lv.At(1))

	z := lead(r, 0, 0, 0)
	assert.True(t, z.IsZero())
	assert.Equal(t, genset.NoLead, z.Index())
	assert.Equal(t, uint64(0), z.Entry())
}

func TestInsert_ZeroIsNoop(t *testing.T) {
	r := mustRing(t, 8)
	s := genset.New(r, 3)
	assert.False(t, s.Insert(lead(r, 0, 0, 0)))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "{}", s.String())
}

func TestInsert_Idempotent(t *testing.T) {
	r := mustRing(t, 8)
	s := genset.New(r, 3)
	require.True(t, s.Insert(lead(r, 0, 1, 0)))
	before := stored(s)
	require.False(t, s.Insert(lead(r, 0, 1, 0)))
	if diff := cmp.Diff(before, stored(s)); diff != "" {
		t.Fatalf("second insert changed the set (-before +after):\n%s", diff)
	}
}

func TestInsert_SameLeadCombines(t *testing.T) {
	r := mustRing(t, 4)
	s := genset.New(r, 3)
	require.True(t, s.Insert(lead(r, 0, 2, 0)))
	// 6 = 3·2 lies in the span of 2; nothing new is learned.
	assert.False(t, s.Insert(lead(r, 0, 6, 0)))

	vecs := s.Vectors()
	require.Len(t, vecs, 1)
	assert.Equal(t, 1, vecs[0].Index())
	assert.GreaterOrEqual(t, r.Valuation(vecs[0].Entry()), 1)
	assert.True(t, s.Contains(r.Vec(0, 2, 0)))
	assert.True(t, s.Contains(r.Vec(0, 6, 0)))
	assert.False(t, s.Contains(r.Vec(0, 1, 0)))
	requireCanonical(t, s)
}

func TestInsert_LowerValuationEvicts(t *testing.T) {
	r := mustRing(t, 4)
	s := genset.New(r, 3)
	require.True(t, s.Insert(lead(r, 0, 4, 1)))
	require.True(t, s.Insert(lead(r, 0, 2, 0)))

	// The odd-cofactor-2 vector takes index 1; the resolvent of the evicted
	// (0,4,1) is 1·(0,4,1) - 2·(0,2,0) = (0,0,1).
	want := []ring.Vector{r.Vec(0, 2, 0), r.Vec(0, 0, 1)}
	if diff := cmp.Diff(want, stored(s)); diff != "" {
		t.Fatalf("stored vectors mismatch (-want +got):\n%s", diff)
	}
	requireCanonical(t, s)
}

func TestInsert_EvenCompanionAtEnd(t *testing.T) {
	r := mustRing(t, 3)
	s := genset.New(r, 2)
	// (2, 1): leading entry 2 = 2^1, companion 2^(3-1)·(2,1) = (0, 4).
	require.True(t, s.Insert(lead(r, 2, 1)))
	want := []ring.Vector{r.Vec(2, 1), r.Vec(0, 4)}
	if diff := cmp.Diff(want, stored(s)); diff != "" {
		t.Fatalf("stored vectors mismatch (-want +got):\n%s", diff)
	}
	// 4·(2,1) = (0,4) is a member, and the companion makes it reducible.
	assert.True(t, s.Contains(r.Vec(0, 4)))
	assert.False(t, s.Insert(lead(r, 0, 4)))
}

func TestInsert_InFront(t *testing.T) {
	r := mustRing(t, 8)
	s := genset.New(r, 3)
	require.True(t, s.Insert(lead(r, 0, 0, 1)))
	require.True(t, s.Insert(lead(r, 1, 0, 0)))
	require.True(t, s.Insert(lead(r, 0, 1, 0)))
	idx := []int{}
	for _, g := range s.Vectors() {
		idx = append(idx, g.Index())
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestInsert_DimensionMismatchPanics(t *testing.T) {
	r := mustRing(t, 8)
	s := genset.New(r, 3)
	assert.Panics(t, func() { s.Insert(lead(r, 1, 0)) })
}

// TestInsert_RandomPreservesSpan compares the span of the stored vectors with
// the span of everything inserted, by brute force over Z/8 and Z/4.
func TestInsert_RandomPreservesSpan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, w := range []int{2, 3} {
		r := mustRing(t, w)
		const dim = 3
		for trial := 0; trial < 60; trial++ {
			s := genset.New(r, dim)
			var inserted []ring.Vector
			for k := 0; k < 1+rng.Intn(5); k++ {
				v := make(ring.Vector, dim)
				for i := range v {
					v[i] = uint64(rng.Intn(1 << uint(w)))
				}
				before := len(span(r, dim, stored(s)))
				changed := s.Insert(genset.NewLeadVector(v))
				inserted = append(inserted, v)
				requireCanonical(t, s)

				got := span(r, dim, stored(s))
				want := span(r, dim, inserted)
				require.Equal(t, want, got, "w=%d trial=%d after inserting %s:\n%s", w, trial, v, s)
				if !changed {
					require.Equal(t, before, len(got), "Insert returned false but the span grew")
				}
			}
		}
	}
}
