// Package expr defines the expression trees carried on program edges.
//
// Expr is a closed sum type over Number, Variable and BinaryOp. The unexported
// marker method keeps other packages from adding variants, so a type switch
// over the three cases is exhaustive.
package expr

import (
	"fmt"
	"strconv"
)

// Op identifies a binary operator.
type Op int

// Operators understood by the parser. Only OpAssign, OpAdd, OpSub and OpMul
// take part in affine recognition; the rest parse but are never affine.
const (
	OpAssign Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpEqual
	OpNotEqual
)

var opText = [...]string{
	OpAssign:    "=",
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
	OpEqual:     "==",
	OpNotEqual:  "!=",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opText) {
		return "Op(" + strconv.Itoa(int(o)) + ")"
	}
	return opText[o]
}

// IsAdditive reports whether o is + or -.
func (o Op) IsAdditive() bool { return o == OpAdd || o == OpSub }

// Expr is one of *Number, *Variable or *BinaryOp.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Number is an integer literal. Negative literals come from unary minus.
type Number struct {
	Value int64
}

// Variable references a program variable by name.
type Variable struct {
	Name string
}

// BinaryOp applies Op to Left and Right. An assignment is a BinaryOp with
// OpAssign whose Left is a *Variable.
type BinaryOp struct {
	Op          Op
	Left, Right Expr
}

func (*Number) isExpr()   {}
func (*Variable) isExpr() {}
func (*BinaryOp) isExpr() {}

func (n *Number) String() string   { return strconv.FormatInt(n.Value, 10) }
func (v *Variable) String() string { return v.Name }

func (b *BinaryOp) String() string {
	if b.Op == OpAssign {
		return fmt.Sprintf("%s = %s", b.Left, b.Right)
	}
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Num, Var and Bin are short constructors used by tests and builders.
func Num(v int64) *Number            { return &Number{Value: v} }
func Var(name string) *Variable      { return &Variable{Name: name} }
func Bin(op Op, l, r Expr) *BinaryOp { return &BinaryOp{Op: op, Left: l, Right: r} }

// Assign builds "target = value".
func Assign(target string, value Expr) *BinaryOp {
	return &BinaryOp{Op: OpAssign, Left: Var(target), Right: value}
}

// AsAssignment splits e into target name and right-hand side when e is an
// assignment to a plain variable.
func AsAssignment(e Expr) (target string, value Expr, ok bool) {
	b, isBin := e.(*BinaryOp)
	if !isBin || b.Op != OpAssign {
		return "", nil, false
	}
	v, isVar := b.Left.(*Variable)
	if !isVar {
		return "", nil, false
	}
	return v.Name, b.Right, true
}

// Vars returns the distinct variable names referenced by e, in first-seen
// left-to-right order.
func Vars(e Expr) []string {
	var (
		out  []string
		seen = map[string]bool{}
		walk func(Expr)
	)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Number:
		case *Variable:
			if !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, n.Name)
			}
		case *BinaryOp:
			walk(n.Left)
			walk(n.Right)
		}
	}
	if e != nil {
		walk(e)
	}
	return out
}
