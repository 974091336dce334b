package genset

import (
	"fmt"

	"github.com/katalvlaran/affrel/ring"
)

// NoLead is the leading index of the zero vector.
const NoLead = -1

// LeadVector is an immutable vector together with its leading index (the
// position of its first nonzero coordinate) and leading entry (the value
// there). The zero vector has index NoLead and entry 0.
type LeadVector struct {
	v     ring.Vector
	idx   int
	entry uint64
}

// NewLeadVector copies v and scans it left to right for the first nonzero
// coordinate.
func NewLeadVector(v ring.Vector) LeadVector {
	lv := LeadVector{v: v.Clone(), idx: NoLead}
	for i, x := range lv.v {
		if x != 0 {
			lv.idx, lv.entry = i, x
			break
		}
	}
	return lv
}

// Index returns the leading index, or NoLead for the zero vector.
func (lv LeadVector) Index() int { return lv.idx }

// Entry returns the leading entry, 0 for the zero vector.
func (lv LeadVector) Entry() uint64 { return lv.entry }

// IsZero reports whether the vector has no nonzero coordinate.
func (lv LeadVector) IsZero() bool { return lv.idx == NoLead }

// Len returns the number of coordinates.
func (lv LeadVector) Len() int { return len(lv.v) }

// At returns coordinate i.
func (lv LeadVector) At(i int) uint64 { return lv.v[i] }

// Vector returns a copy of the coordinates.
func (lv LeadVector) Vector() ring.Vector { return lv.v.Clone() }

func (lv LeadVector) String() string {
	return fmt.Sprintf("%s@%d", lv.v, lv.idx)
}
