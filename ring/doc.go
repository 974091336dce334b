// SPDX-License-Identifier: MIT

// Package ring implements exact arithmetic over the residue ring Z/2^w.
//
// What
//
//   - Ring carries the word size w and the lowest-set-bit lookup table used by
//     Reduce to split a value into 2^r · d with d odd (its 2-adic valuation).
//   - Matrix is a dense row-major matrix of ring elements; Vector is a plain
//     []uint64 whose length is the augmented state size n+1.
//   - Identity, MatVec and Mul are the matrix kernels shared by the transition
//     builder, the generator sets and the normal-form routine.
//
// Why
//
//	Machine integers wrap modulo 2^w. Z/2^w is not a field: every even value is
//	a zero divisor, so elimination must reason about valuations instead of
//	dividing. Everything in this package stays exact; there is no floating
//	point and no big-integer fallback.
//
// Conventions
//
//   - Elements are uint64 masked to w bits, 1 ≤ w ≤ 64. Wrapping uint64
//     arithmetic followed by the mask is exactly arithmetic modulo 2^w.
//   - MatVec treats its vector as a row vector: out[j] = Σ_i v[i]·M[i][j].
//     A transition matrix therefore has one column per assigned variable and
//     the constant offset lives in row 0.
//
// Errors
//
//	ErrBadWidth          - w outside [1, 64].
//	ErrInvalidDimensions - non-positive matrix shape.
//	ErrOutOfRange        - At/Set index outside the matrix.
//	ErrDimensionMismatch - incompatible operand shapes (a programming error).
//	ErrNotInvertible     - Inverse called with an even element.
package ring
