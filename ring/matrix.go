// SPDX-License-Identifier: MIT

// Package ring - Matrix storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a flat row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep loop orders fixed so every dump and product is reproducible.
//
// Complexity quicksheet:
//   - NewMatrix: O(r*c) zero-init; At/Set: O(1); Clone/Equal: O(r*c).

package ring

import (
	"fmt"
	"strings"
)

const (
	ctxAt  = "At"
	ctxSet = "Set"
	ctxRow = "Row"
)

// matrixErrorf wraps an error with the Matrix method and coordinates.
func matrixErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Matrix.%s(%d,%d): %w", method, row, col, err)
}

// Matrix is a dense rows×cols matrix of ring elements.
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - Entries are stored as given; the Ring kernels keep them masked to w bits.
type Matrix struct {
	r, c int
	data []uint64
}

var _ fmt.Stringer = (*Matrix)(nil)

// NewMatrix creates a rows×cols zero matrix.
// Returns ErrInvalidDimensions unless rows > 0 and cols > 0.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Matrix{r: rows, c: cols, data: make([]uint64, rows*cols)}, nil
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.r }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call.
func (m *Matrix) Shape() (rows, cols int) { return m.r, m.c }

// IsSquare reports Rows() == Cols().
func (m *Matrix) IsSquare() bool { return m.r == m.c }

func (m *Matrix) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return row*m.c + col, nil
}

// At returns the entry at (row, col) or ErrOutOfRange.
func (m *Matrix) At(row, col int) (uint64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, matrixErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns ErrOutOfRange.
func (m *Matrix) Set(row, col int, v uint64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return matrixErrorf(ctxSet, row, col, err)
	}
	m.data[off] = v

	return nil
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) (Vector, error) {
	if i < 0 || i >= m.r {
		return nil, matrixErrorf(ctxRow, i, 0, ErrOutOfRange)
	}
	out := make(Vector, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out, nil
}

// at and set are the unchecked accessors used by in-package kernels and by
// callers that already validated the shape.
func (m *Matrix) at(i, j int) uint64     { return m.data[i*m.c+j] }
func (m *Matrix) set(i, j int, v uint64) { m.data[i*m.c+j] = v }

// Elem returns m[i][j] without the error plumbing of At. An index outside the
// matrix panics like a slice index; use it in loops whose bounds come from
// Rows/Cols.
func (m *Matrix) Elem(i, j int) uint64 { return m.at(i, j) }

// SetElem is the unchecked counterpart of Set.
func (m *Matrix) SetElem(i, j int, v uint64) { m.set(i, j, v) }

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	cp := make([]uint64, len(m.data))
	copy(cp, m.data)

	return &Matrix{r: m.r, c: m.c, data: cp}
}

// Equal reports whether o has the same shape and entries.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.r != o.r || m.c != o.c {
		return false
	}
	for k := range m.data {
		if m.data[k] != o.data[k] {
			return false
		}
	}

	return true
}

// SwapRows exchanges rows i and k in place.
func (m *Matrix) SwapRows(i, k int) {
	if i == k {
		return
	}
	for j := 0; j < m.c; j++ {
		m.data[i*m.c+j], m.data[k*m.c+j] = m.data[k*m.c+j], m.data[i*m.c+j]
	}
}

// SwapCols exchanges columns j and k in place.
func (m *Matrix) SwapCols(j, k int) {
	if j == k {
		return
	}
	for i := 0; i < m.r; i++ {
		m.data[i*m.c+j], m.data[i*m.c+k] = m.data[i*m.c+k], m.data[i*m.c+j]
	}
}

// String renders one bracketed line per row, for diagnostics.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString("[")
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%d", m.at(i, j))
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
