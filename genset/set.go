// SPDX-License-Identifier: MIT

// Package genset maintains generating sets of submodules of (Z/2^w)^k in the
// leading-index-unique form built by incremental Howell-style reduction.
//
// What
//
//   - Set keeps at most k LeadVectors sorted strictly ascending by leading
//     index, never two with the same index and never the zero vector.
//   - Insert adds a vector and reports whether the spanned submodule grew.
//
// Why
//
//	Z/2^w has zero divisors, so a vector with an even leading entry 2^r·d
//	also contributes 2^(w-r)·v, whose leading coordinate vanishes. Gaussian
//	elimination over a field never sees that "even companion"; Insert adds it
//	explicitly, and combines same-index vectors with valuation-weighted
//	resolvents instead of division.
//
// Complexity (k = vector length)
//
//   - Insert: O(k) recursive steps, each O(k) arithmetic, so O(k^2) per call.
package genset

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/katalvlaran/affrel/ring"
)

// Set is a generating set attached to one program point.
// It is not safe for concurrent mutation.
type Set struct {
	r    *ring.Ring
	dim  int
	vecs []LeadVector // sorted by idx, unique idx, no zero vector
}

// New returns an empty Set for vectors of length dim over r.
func New(r *ring.Ring, dim int) *Set {
	return &Set{r: r, dim: dim, vecs: make([]LeadVector, 0, dim)}
}

// Dim returns the vector length.
func (s *Set) Dim() int { return s.dim }

// Len returns the number of stored vectors (at most Dim).
func (s *Set) Len() int { return len(s.vecs) }

// Vectors returns the stored vectors in ascending leading-index order.
func (s *Set) Vectors() []LeadVector {
	out := make([]LeadVector, len(s.vecs))
	copy(out, s.vecs)
	return out
}

// Insert adds v to the set and reports whether the spanned submodule changed.
//
// Implementation:
//   - Zero vector: no-op, false.
//   - No stored vector with leading index ≥ v's: add v's even companion (if
//     its leading entry is even), then store v. True.
//   - A stored vector g shares v's leading index: if g's leading valuation is
//     larger, g is evicted and v takes its slot (with its companion); then the
//     pair is combined into the resolvent d_a·b - 2^(r_b-r_a)·d_b·a, whose
//     leading index is strictly larger, and the resolvent is inserted
//     recursively. True if the eviction or the recursion changed the set.
//   - The first stored vector has a larger leading index: v is inserted in
//     front of it. True.
//
// Recursion depth is bounded by Dim because every recursive call inserts a
// vector with a strictly larger leading index.
//
// Insert panics if len(v) != Dim; vectors of another shape can only come
// from a programming error.
func (s *Set) Insert(v LeadVector) bool {
	if v.Len() != s.dim {
		panic(fmt.Errorf("genset: Insert: len(v)=%d, dim=%d: %w", v.Len(), s.dim, ring.ErrDimensionMismatch))
	}
	if v.IsZero() {
		return false
	}

	i := s.position(v.idx)
	switch {
	case i == len(s.vecs):
		s.addCompanion(v)
		s.place(v)
		return true

	case s.vecs[i].idx == v.idx:
		return s.absorb(i, v)

	default:
		s.vecs = slices.Insert(s.vecs, i, v)
		return true
	}
}

// absorb combines v with the stored vector at position i, which has the same
// leading index.
func (s *Set) absorb(i int, v LeadVector) bool {
	changed := false

	a, b := s.vecs[i], v
	ra, da := s.r.Reduce(a.entry)
	rb, db := s.r.Reduce(b.entry)
	if ra > rb {
		s.vecs = slices.Delete(s.vecs, i, i+1)
		s.addCompanion(v)
		s.place(v)
		changed = true

		a, b = b, a
		ra, rb = rb, ra
		da, db = db, da
	}

	// ra ≤ rb: a stays, b is reduced against it.
	x := s.r.MulElem(s.r.Pow2(rb-ra), db)
	res := NewLeadVector(s.r.Combine(da, b.v, x, a.v))
	if !res.IsZero() && s.Insert(res) {
		changed = true
	}

	return changed
}

// addCompanion inserts 2^(w-r)·v when v's leading entry is 2^r·d with r > 0.
func (s *Set) addCompanion(v LeadVector) {
	if v.entry == 0 || v.entry&1 == 1 {
		return
	}
	r, _ := s.r.Reduce(v.entry)
	c := NewLeadVector(s.r.Scale(v.v, s.r.Pow2(s.r.Width()-r)))
	if !c.IsZero() {
		s.Insert(c)
	}
}

// position returns the index of the first stored vector whose leading index
// is ≥ idx, or len(s.vecs).
func (s *Set) position(idx int) int {
	i := slices.IndexFunc(s.vecs, func(g LeadVector) bool { return g.idx >= idx })
	if i < 0 {
		return len(s.vecs)
	}
	return i
}

// place stores v at its sorted position. The caller guarantees that no
// stored vector shares v's leading index.
func (s *Set) place(v LeadVector) {
	i := s.position(v.idx)
	if i < len(s.vecs) && s.vecs[i].idx == v.idx {
		panic(fmt.Sprintf("genset: leading index %d already occupied", v.idx))
	}
	s.vecs = slices.Insert(s.vecs, i, v)
}

// Contains reports whether v reduces to zero against the stored vectors:
// repeatedly cancel v's leading coordinate with the stored vector of the same
// leading index. A true result always means v lies in the span; members whose
// reduction needs a torsion generator that is not stored report false.
// Contains does not modify the set.
func (s *Set) Contains(v ring.Vector) bool {
	if len(v) != s.dim {
		return false
	}
	cur := NewLeadVector(v)
	for !cur.IsZero() {
		i := s.position(cur.idx)
		if i == len(s.vecs) || s.vecs[i].idx != cur.idx {
			return false
		}
		g := s.vecs[i]
		rg, dg := s.r.Reduce(g.entry)
		rv, dv := s.r.Reduce(cur.entry)
		if rv < rg {
			return false
		}
		inv, err := s.r.Inverse(dg)
		if err != nil {
			return false
		}
		// cur - 2^(rv-rg)·dv·dg⁻¹·g cancels the leading coordinate exactly.
		c := s.r.MulElem(s.r.MulElem(s.r.Pow2(rv-rg), dv), inv)
		cur = NewLeadVector(s.r.Combine(1, cur.v, c, g.v))
	}
	return true
}

// String lists the stored vectors one per line.
func (s *Set) String() string {
	if len(s.vecs) == 0 {
		return "{}"
	}
	var sb strings.Builder
	for _, g := range s.vecs {
		fmt.Fprintf(&sb, "%s\n", g)
	}
	return sb.String()
}
