// SPDX-License-Identifier: MIT

// Package transition turns the statement on a control-flow edge into the
// transition matrices that model its effect on the augmented state vector
// (1, x_1, ..., x_n) over Z/2^w.
//
// Matrices follow the row-vector convention of ring.MatVec: entry [i][j] is
// the contribution of state slot i to slot j after the edge. Row 0 carries
// constants; column k describes the new value of x_k.
//
// Policy:
//   - No statement, a branch guard, or an assignment to an untracked
//     variable: one identity matrix.
//   - x_k = c_0 + c_1·x_i1 + ... (terms in any order, with + and -): one
//     exact matrix.
//   - Any other right-hand side: two matrices, x_k := 0 and x_k := 1. The
//     analysis joins both, which keeps it sound without failing the run.
package transition

import (
	"fmt"

	"github.com/katalvlaran/affrel/expr"
	"github.com/katalvlaran/affrel/ring"
)

// VarResolver maps variable names to 1-based state columns (0 = untracked)
// and reports the number of tracked variables. *flowgraph.Program satisfies it.
type VarResolver interface {
	VarIndex(name string) int
	NumVars() int
}

// Build returns the transition matrices for an edge carrying e.
//
// Implementation:
//   - Stage 1: start from the (n+1)×(n+1) identity.
//   - Stage 2: if e assigns a tracked x_k, zero [k][k] and try to recognize
//     the right-hand side as an affine form; on success write the
//     coefficients into column k.
//   - Stage 3: otherwise emit the x_k := 0 and x_k := 1 pair.
//
// Errors:
//   - Only shape errors from ring.Identity, which cannot occur for n ≥ 0.
//
// Complexity:
//   - Time O(n^2 + |e|), Space O(n^2) per matrix.
func Build(r *ring.Ring, e expr.Expr, vars VarResolver) ([]*ring.Matrix, error) {
	k := vars.NumVars() + 1
	id, err := r.Identity(k)
	if err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}

	target, rhs, ok := expr.AsAssignment(e)
	if !ok {
		return []*ring.Matrix{id}, nil
	}
	vi := vars.VarIndex(target)
	if vi == 0 {
		return []*ring.Matrix{id}, nil
	}
	id.SetElem(vi, vi, 0)

	if coeffs, ok := Recognize(r, rhs, vars); ok {
		for i, c := range coeffs {
			id.SetElem(i, vi, r.Add(id.Elem(i, vi), c))
		}
		return []*ring.Matrix{id}, nil
	}

	one := id.Clone()
	one.SetElem(0, vi, 1)

	return []*ring.Matrix{id, one}, nil
}

// Recognize reads e as c_0 + Σ c_i·x_i and returns the coefficient vector
// (index 0 is the constant). It reports false for anything else:
// products of two variables or two constants, division, comparisons,
// untracked variables, and subtractions whose right operand is itself a sum
// or difference.
func Recognize(r *ring.Ring, e expr.Expr, vars VarResolver) (ring.Vector, bool) {
	rc := &recognizer{r: r, vars: vars, coeffs: make(ring.Vector, vars.NumVars()+1)}
	if !rc.collect(e, false) {
		return nil, false
	}
	return rc.coeffs, true
}

type recognizer struct {
	r      *ring.Ring
	vars   VarResolver
	coeffs ring.Vector
}

func (rc *recognizer) collect(e expr.Expr, neg bool) bool {
	switch n := e.(type) {
	case *expr.Number:
		rc.accumulate(0, n.Value, neg)
		return true
	case *expr.Variable:
		idx := rc.vars.VarIndex(n.Name)
		if idx == 0 {
			return false
		}
		rc.accumulate(idx, 1, neg)
		return true
	case *expr.BinaryOp:
		switch n.Op {
		case expr.OpMul:
			return rc.product(n, neg)
		case expr.OpAdd:
			return rc.collect(n.Left, neg) && rc.collect(n.Right, neg)
		case expr.OpSub:
			if isAdditive(n.Right) {
				return false
			}
			return rc.collect(n.Left, neg) && rc.collect(n.Right, !neg)
		}
	}
	return false
}

// product accepts c*x and x*c.
func (rc *recognizer) product(b *expr.BinaryOp, neg bool) bool {
	num, isNum := b.Left.(*expr.Number)
	v, isVar := b.Right.(*expr.Variable)
	if !isNum || !isVar {
		num, isNum = b.Right.(*expr.Number)
		v, isVar = b.Left.(*expr.Variable)
	}
	if !isNum || !isVar {
		return false
	}
	idx := rc.vars.VarIndex(v.Name)
	if idx == 0 {
		return false
	}
	rc.accumulate(idx, num.Value, neg)
	return true
}

func (rc *recognizer) accumulate(idx int, c int64, neg bool) {
	x := rc.r.Norm(c)
	if neg {
		x = rc.r.Neg(x)
	}
	rc.coeffs[idx] = rc.r.Add(rc.coeffs[idx], x)
}

func isAdditive(e expr.Expr) bool {
	b, ok := e.(*expr.BinaryOp)
	return ok && b.Op.IsAdditive()
}

// Compose multiplies ms left to right, giving the single matrix of a
// straight-line path that runs ms[0] first.
func Compose(r *ring.Ring, ms ...*ring.Matrix) (*ring.Matrix, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("transition: Compose: %w", ring.ErrNilMatrix)
	}
	acc := ms[0].Clone()
	for _, m := range ms[1:] {
		next, err := r.Mul(acc, m)
		if err != nil {
			return nil, fmt.Errorf("transition: Compose: %w", err)
		}
		acc = next
	}
	return acc, nil
}
