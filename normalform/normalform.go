// SPDX-License-Identifier: MIT

// Package normalform computes a Smith-style diagonal normal form of square
// matrices over Z/2^w by pivoted row and column elimination.
//
// It uses the same valuation-weighted resolvent as genset.Set.Insert, applied
// to a whole matrix at once, and serves as a batch cross-check of that
// reduction algebra.
//
// Errors:
//
//	ErrNonSquare      - the input matrix is not square.
//	ring.ErrNilMatrix - the input matrix is nil.
package normalform

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/affrel/ring"
)

// ErrNonSquare indicates a non-square input matrix.
var ErrNonSquare = errors.New("normalform: matrix is not square")

// Form is the result of Normalize: T·A·S = D with D diagonal.
type Form struct {
	// D is diagonal; its nonzero entries are powers of two in non-decreasing
	// order, followed by zeros.
	D *ring.Matrix
	// T accumulates the row operations.
	T *ring.Matrix
	// S accumulates the column operations.
	S *ring.Matrix

	r *ring.Ring
}

// Ranks returns the 2-adic valuation of every diagonal entry of D; a zero
// entry reports the ring width.
func (f *Form) Ranks() []int {
	k := f.D.Rows()
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = f.r.Valuation(f.D.Elem(i, i))
	}
	return out
}

// Rank returns the number of nonzero diagonal entries of D.
func (f *Form) Rank() int {
	n := 0
	for i := 0; i < f.D.Rows(); i++ {
		if f.D.Elem(i, i) != 0 {
			n++
		}
	}
	return n
}

// String renders D, T and S under labelled headers.
func (f *Form) String() string {
	return fmt.Sprintf("D:\n%sT:\n%sS:\n%s", f.D, f.T, f.S)
}

// Normalize reduces A to diagonal form.
//
// Implementation, for each diagonal position di:
//   - Stage 1: pick the nonzero entry of minimum valuation among rows and
//     columns ≥ di (first in row-major order on ties); stop if none is left.
//   - Stage 2: swap it onto (di, di).
//   - Stage 3: clear column di below the pivot with row operations
//     row_i ← d_p·row_i − 2^(r_i−r_p)·d_i·row_di, recorded in T.
//   - Stage 4: clear row di right of the pivot with the matching column
//     operations, recorded in S.
//   - Stage 5: scale row di by d_p⁻¹ so the pivot becomes 2^r_p.
//
// Every entry left in the trailing block keeps valuation ≥ r_p, so the
// diagonal is non-decreasing in valuation.
//
// A is not modified.
//
// Complexity: O(k^3) ring operations.
func Normalize(r *ring.Ring, a *ring.Matrix) (*Form, error) {
	if a == nil {
		return nil, fmt.Errorf("normalform: %w", ring.ErrNilMatrix)
	}
	if !a.IsSquare() {
		rows, cols := a.Shape()
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquare, rows, cols)
	}
	k := a.Rows()
	t, err := r.Identity(k)
	if err != nil {
		return nil, fmt.Errorf("normalform: %w", err)
	}
	s := t.Clone()
	n := &normalizer{r: r, d: a.Clone(), t: t, s: s, k: k}

	for di := 0; di < k; di++ {
		pi, pj, ok := n.pivot(di)
		if !ok {
			break
		}
		n.d.SwapRows(di, pi)
		n.t.SwapRows(di, pi)
		n.d.SwapCols(di, pj)
		n.s.SwapCols(di, pj)

		rp, dp := r.Reduce(n.d.Elem(di, di))
		n.clearColumn(di, rp, dp)
		n.clearRow(di, rp, dp)

		inv, err := r.Inverse(dp)
		if err != nil {
			return nil, fmt.Errorf("normalform: pivot (%d,%d): %w", di, di, err)
		}
		n.scaleRow(n.d, di, inv)
		n.scaleRow(n.t, di, inv)
	}

	return &Form{D: n.d, T: n.t, S: n.s, r: r}, nil
}

type normalizer struct {
	r       *ring.Ring
	d, t, s *ring.Matrix
	k       int
}

// pivot finds the minimum-valuation nonzero entry in the trailing block.
func (n *normalizer) pivot(di int) (int, int, bool) {
	best, bi, bj := n.r.Width()+1, -1, -1
	for i := di; i < n.k; i++ {
		for j := di; j < n.k; j++ {
			x := n.d.Elem(i, j)
			if x == 0 {
				continue
			}
			if v := n.r.Valuation(x); v < best {
				best, bi, bj = v, i, j
			}
		}
	}
	return bi, bj, bi >= 0
}

func (n *normalizer) clearColumn(di, rp int, dp uint64) {
	for i := di + 1; i < n.k; i++ {
		x := n.d.Elem(i, di)
		if x == 0 {
			continue
		}
		ri, dx := n.r.Reduce(x)
		c := n.r.MulElem(n.r.Pow2(ri-rp), dx)
		n.rowOp(n.d, i, di, dp, c)
		n.rowOp(n.t, i, di, dp, c)
	}
}

func (n *normalizer) clearRow(di, rp int, dp uint64) {
	for j := di + 1; j < n.k; j++ {
		x := n.d.Elem(di, j)
		if x == 0 {
			continue
		}
		rj, dx := n.r.Reduce(x)
		c := n.r.MulElem(n.r.Pow2(rj-rp), dx)
		n.colOp(n.d, j, di, dp, c)
		n.colOp(n.s, j, di, dp, c)
	}
}

// rowOp sets row i of m to a·row_i − c·row_p.
func (n *normalizer) rowOp(m *ring.Matrix, i, p int, a, c uint64) {
	for j := 0; j < m.Cols(); j++ {
		v := n.r.Sub(n.r.MulElem(a, m.Elem(i, j)), n.r.MulElem(c, m.Elem(p, j)))
		m.SetElem(i, j, v)
	}
}

// colOp sets column j of m to a·col_j − c·col_p.
func (n *normalizer) colOp(m *ring.Matrix, j, p int, a, c uint64) {
	for i := 0; i < m.Rows(); i++ {
		v := n.r.Sub(n.r.MulElem(a, m.Elem(i, j)), n.r.MulElem(c, m.Elem(i, p)))
		m.SetElem(i, j, v)
	}
}

func (n *normalizer) scaleRow(m *ring.Matrix, i int, c uint64) {
	for j := 0; j < m.Cols(); j++ {
		m.SetElem(i, j, n.r.MulElem(c, m.Elem(i, j)))
	}
}
