// SPDX-License-Identifier: MIT

// Package ring - matrix kernels modulo 2^w.
//
// Determinism & Policy:
//   - Every intermediate sum is reduced by the ring mask; no overflow survives.
//   - Loop orders are fixed (i-k-j for products) and never depend on values.
//   - Shape violations return ErrDimensionMismatch; none of these kernels panic.

package ring

import "fmt"

const (
	opIdentity = "Identity"
	opMatVec   = "MatVec"
	opMul      = "Mul"
	opFromRows = "FromRows"
)

// Identity returns the k×k identity matrix.
// Complexity: O(k^2) zeroing + O(k) diagonal writes.
func (r *Ring) Identity(k int) (*Matrix, error) {
	m, err := NewMatrix(k, k)
	if err != nil {
		return nil, ringErrorf(opIdentity, err)
	}
	for i := 0; i < k; i++ {
		m.set(i, i, 1)
	}

	return m, nil
}

// MatVec applies m to the row vector v: out[j] = Σ_i v[i]·m[i][j] mod 2^w.
//
// Inputs:
//   - m: rows×cols matrix; v: vector of length rows.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(v) != rows).
//
// Complexity:
//   - Time O(rows*cols), Space O(cols).
func (r *Ring) MatVec(m *Matrix, v Vector) (Vector, error) {
	if m == nil {
		return nil, ringErrorf(opMatVec, ErrNilMatrix)
	}
	if len(v) != m.r {
		return nil, ringErrorf(opMatVec, fmt.Errorf("len(v)=%d, rows=%d: %w", len(v), m.r, ErrDimensionMismatch))
	}
	out := make(Vector, m.c)
	for i := 0; i < m.r; i++ {
		vi := v[i] & r.mask
		if vi == 0 {
			continue
		}
		row := m.data[i*m.c : (i+1)*m.c]
		for j, mij := range row {
			out[j] = (out[j] + vi*mij) & r.mask
		}
	}

	return out, nil
}

// Mul returns the product a·b mod 2^w.
//
// Under the row-vector convention of MatVec, Mul(a, b) is "apply a, then b":
// MatVec(Mul(a, b), v) == MatVec(b, MatVec(a, v)).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func (r *Ring) Mul(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, ringErrorf(opMul, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, ringErrorf(opMul, fmt.Errorf("%dx%d · %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch))
	}
	res, err := NewMatrix(a.r, b.c)
	if err != nil {
		return nil, ringErrorf(opMul, err)
	}
	var i, j, k int
	for i = 0; i < a.r; i++ {
		for k = 0; k < a.c; k++ {
			av := a.at(i, k)
			if av == 0 {
				continue // skip zero
			}
			for j = 0; j < b.c; j++ {
				res.data[i*b.c+j] = (res.data[i*b.c+j] + av*b.at(k, j)) & r.mask
			}
		}
	}

	return res, nil
}

// FromRows builds a matrix from signed row literals, normalizing entries into
// the ring. All rows must have the same positive length.
func (r *Ring) FromRows(rows [][]int64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ringErrorf(opFromRows, ErrInvalidDimensions)
	}
	m, err := NewMatrix(len(rows), len(rows[0]))
	if err != nil {
		return nil, ringErrorf(opFromRows, err)
	}
	for i, row := range rows {
		if len(row) != m.c {
			return nil, ringErrorf(opFromRows, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), m.c, ErrDimensionMismatch))
		}
		for j, x := range row {
			m.set(i, j, r.Norm(x))
		}
	}

	return m, nil
}
