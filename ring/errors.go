// SPDX-License-Identifier: MIT

package ring

import (
	"errors"
	"fmt"
)

// Sentinel errors for ring arithmetic. Every message is prefixed with "ring:".
var (
	// ErrBadWidth indicates a word size outside [1, MaxWidth].
	ErrBadWidth = errors.New("ring: word size out of range")

	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("ring: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("ring: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes, e.g. MatVec
	// with len(v) != Rows or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("ring: dimension mismatch")

	// ErrNilMatrix indicates that a nil *Matrix was passed.
	ErrNilMatrix = errors.New("ring: nil matrix")

	// ErrNotInvertible indicates an attempt to invert an even element.
	ErrNotInvertible = errors.New("ring: element is not a unit")
)

// ringErrorf tags err with the operation that detected it.
func ringErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
