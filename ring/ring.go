// SPDX-License-Identifier: MIT

package ring

import "fmt"

// MaxWidth is the largest supported word size. Elements are stored in uint64.
const MaxWidth = 64

// Ring is the residue ring Z/2^w together with the lookup table used to
// compute 2-adic valuations in constant time.
//
// A Ring is immutable after New and safe for concurrent use.
type Ring struct {
	w     int    // word size in bits
	mask  uint64 // 2^w - 1
	prime int    // table modulus; 2^0..2^(w-1) are distinct modulo prime
	log2  []int  // log2[(2^i) % prime] = i
}

// New returns the ring Z/2^w.
//
// Implementation:
//   - Stage 1: validate 1 ≤ w ≤ MaxWidth; else ErrBadWidth.
//   - Stage 2: pick the smallest prime p ≥ w under which the powers
//     2^0, 2^1, ..., 2^(w-1) are pairwise distinct modulo p.
//   - Stage 3: fill log2 so that log2[2^i mod p] = i.
//
// Complexity:
//   - Time O(p·√p) for the prime search (p is tiny), Space O(p).
func New(w int) (*Ring, error) {
	if w <= 0 || w > MaxWidth {
		return nil, fmt.Errorf("%w: %d", ErrBadWidth, w)
	}
	mask := ^uint64(0)
	if w < MaxWidth {
		mask = uint64(1)<<uint(w) - 1
	}
	p := tablePrime(w)
	log2 := make([]int, p)
	x := 1 % p
	for i := 0; i < w; i++ {
		log2[x] = i
		x = (x * 2) % p
	}

	return &Ring{w: w, mask: mask, prime: p, log2: log2}, nil
}

// tablePrime returns the smallest prime p ≥ w such that 2 has multiplicative
// order at least w modulo p. A plain "smallest prime ≥ w" is not enough:
// for w = 7 the prime 7 maps both 2^0 and 2^3 to 1.
func tablePrime(w int) int {
	p := w
	if p < 2 {
		p = 2
	}
	for ; ; p++ {
		if isPrime(p) && distinctPowers(p, w) {
			return p
		}
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}

	return true
}

func distinctPowers(p, w int) bool {
	seen := make([]bool, p)
	x := 1 % p
	for i := 0; i < w; i++ {
		if seen[x] {
			return false
		}
		seen[x] = true
		x = (x * 2) % p
	}

	return true
}

// Width returns w.
func (r *Ring) Width() int { return r.w }

// Mask returns 2^w - 1, the largest element.
func (r *Ring) Mask() uint64 { return r.mask }

// Prime returns the modulus of the valuation lookup table.
func (r *Ring) Prime() int { return r.prime }

// Reduce splits v into its 2-adic valuation r and cofactor d such that
// v ≡ d·2^r (mod 2^w). For odd v it returns (0, v); for nonzero v the
// cofactor is odd. Reduce(0) returns (w, 0); callers filter zero first.
//
// The lowest set bit v & -v is a power of two 2^r; r is recovered from the
// table at index 2^r mod p (a discrete-log form of the de Bruijn trick).
func (r *Ring) Reduce(v uint64) (int, uint64) {
	v &= r.mask
	if v == 0 {
		return r.w, 0
	}
	if v&1 == 1 {
		return 0, v
	}
	low := v & (^v + 1)
	k := r.log2[low%uint64(r.prime)]

	return k, v >> uint(k)
}

// Valuation returns only the exponent part of Reduce.
func (r *Ring) Valuation(v uint64) int {
	k, _ := r.Reduce(v)
	return k
}

// Norm maps a signed integer into [0, 2^w). Negative values wrap as they do
// in two's complement machine arithmetic.
func (r *Ring) Norm(c int64) uint64 { return uint64(c) & r.mask }

// Signed returns the two's complement reading of v in w bits.
func (r *Ring) Signed(v uint64) int64 {
	v &= r.mask
	if r.w < MaxWidth && v>>(uint(r.w)-1) == 1 {
		return int64(v) - int64(uint64(1)<<uint(r.w))
	}
	return int64(v)
}

// Add returns a + b mod 2^w.
func (r *Ring) Add(a, b uint64) uint64 { return (a + b) & r.mask }

// Sub returns a - b mod 2^w.
func (r *Ring) Sub(a, b uint64) uint64 { return (a - b) & r.mask }

// MulElem returns a · b mod 2^w.
func (r *Ring) MulElem(a, b uint64) uint64 { return (a * b) & r.mask }

// Neg returns -a mod 2^w.
func (r *Ring) Neg(a uint64) uint64 { return (0 - a) & r.mask }

// Pow2 returns 2^k mod 2^w, which is zero for k ≥ w.
func (r *Ring) Pow2(k int) uint64 {
	if k < 0 || k >= r.w {
		return 0
	}
	return uint64(1) << uint(k)
}

// Inverse returns the multiplicative inverse of an odd element.
// Newton's iteration x ← x(2 - dx) doubles the number of correct low bits;
// x = d is already correct to 3 bits, so five steps cover 64 bits.
func (r *Ring) Inverse(d uint64) (uint64, error) {
	d &= r.mask
	if d&1 == 0 {
		return 0, ringErrorf("Inverse", ErrNotInvertible)
	}
	x := d
	for i := 0; i < 5; i++ {
		x *= 2 - d*x
	}

	return x & r.mask, nil
}

// String implements fmt.Stringer.
func (r *Ring) String() string { return fmt.Sprintf("Z/2^%d", r.w) }
