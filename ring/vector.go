package ring

import (
	"fmt"
	"strings"
)

// Vector is an element of (Z/2^w)^k. Index 0 is the constant slot; index i
// (1 ≤ i ≤ n) belongs to the i-th tracked variable.
type Vector []uint64

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// IsZero reports whether every coordinate is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Equal reports coordinate-wise equality.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders v as "(a, b, c)".
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprint(x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Vec builds a Vector from signed coordinates, normalizing each into the ring.
func (r *Ring) Vec(coords ...int64) Vector {
	out := make(Vector, len(coords))
	for i, c := range coords {
		out[i] = r.Norm(c)
	}
	return out
}

// Scale returns c·v.
func (r *Ring) Scale(v Vector, c uint64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = (x * c) & r.mask
	}
	return out
}

// Combine returns ca·a - cb·b, the shape shared by every elimination step in
// this module. It panics with ErrDimensionMismatch when the lengths differ.
func (r *Ring) Combine(ca uint64, a Vector, cb uint64, b Vector) Vector {
	if len(a) != len(b) {
		panic(ringErrorf("Combine", ErrDimensionMismatch))
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = (ca*a[i] - cb*b[i]) & r.mask
	}
	return out
}
