package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// ErrSyntax is returned by Parse for malformed input.
var ErrSyntax = errors.New("expr: syntax error")

// Parse reads one statement: either an assignment "x = e" or a bare
// expression such as a branch guard "x < 10".
//
// Grammar (lowest to highest precedence):
//
//	stmt    = rel [ "=" rel ]
//	rel     = sum [ ("<" | "<=" | ">" | ">=" | "==" | "!=") sum ]
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/" | "%") unary }
//	unary   = "-" unary | primary
//	primary = integer | identifier | "(" rel ")"
//
// Sums and products associate to the left. A unary minus on a literal folds
// into the literal; on anything else it becomes (-1 * operand).
func Parse(src string) (Expr, error) {
	p := &parser{}
	p.sc.Init(strings.NewReader(src))
	p.sc.Mode = scanner.ScanIdents | scanner.ScanInts
	p.sc.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("%w at %s: %s", ErrSyntax, s.Pos(), msg)
		}
	}
	p.next()

	e := p.statement()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail("unexpected %q", p.lit)
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	sc  scanner.Scanner
	tok rune
	lit string
	pos scanner.Position
	err error
}

// next advances to the following token, joining the two-character operators
// that text/scanner reports as single runes.
func (p *parser) next() {
	p.tok = p.sc.Scan()
	p.pos = p.sc.Position
	p.lit = p.sc.TokenText()
	switch p.tok {
	case '<', '>', '=', '!':
		if p.sc.Peek() == '=' {
			p.sc.Next()
			p.lit += "="
		}
	}
}

func (p *parser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf("%w at %s: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
	}
}

func (p *parser) statement() Expr {
	lhs := p.relation()
	if p.err != nil || p.lit != "=" {
		return lhs
	}
	if _, ok := lhs.(*Variable); !ok {
		p.fail("left side of assignment must be a variable, got %s", lhs)
		return nil
	}
	p.next()
	rhs := p.relation()
	return &BinaryOp{Op: OpAssign, Left: lhs, Right: rhs}
}

var relOps = map[string]Op{
	"<":  OpLess,
	"<=": OpLessEq,
	">":  OpGreater,
	">=": OpGreaterEq,
	"==": OpEqual,
	"!=": OpNotEqual,
}

func (p *parser) relation() Expr {
	lhs := p.sum()
	if op, ok := relOps[p.lit]; ok && p.err == nil {
		p.next()
		return &BinaryOp{Op: op, Left: lhs, Right: p.sum()}
	}
	return lhs
}

func (p *parser) sum() Expr {
	e := p.product()
	for p.err == nil && (p.tok == '+' || p.tok == '-') {
		op := OpAdd
		if p.tok == '-' {
			op = OpSub
		}
		p.next()
		e = &BinaryOp{Op: op, Left: e, Right: p.product()}
	}
	return e
}

func (p *parser) product() Expr {
	e := p.unary()
	for p.err == nil && (p.tok == '*' || p.tok == '/' || p.tok == '%') {
		var op Op
		switch p.tok {
		case '*':
			op = OpMul
		case '/':
			op = OpDiv
		default:
			op = OpMod
		}
		p.next()
		e = &BinaryOp{Op: op, Left: e, Right: p.unary()}
	}
	return e
}

func (p *parser) unary() Expr {
	if p.tok != '-' {
		return p.primary()
	}
	p.next()
	operand := p.unary()
	if n, ok := operand.(*Number); ok {
		return &Number{Value: -n.Value}
	}
	return &BinaryOp{Op: OpMul, Left: &Number{Value: -1}, Right: operand}
}

func (p *parser) primary() Expr {
	switch p.tok {
	case scanner.Int:
		v, err := strconv.ParseInt(p.lit, 0, 64)
		if err != nil {
			// Literals in [2^63, 2^64) are valid ring elements at w = 64;
			// keep their bit pattern.
			u, uerr := strconv.ParseUint(p.lit, 0, 64)
			if uerr != nil {
				p.fail("bad integer %q", p.lit)
				return nil
			}
			v = int64(u)
		}
		p.next()
		return &Number{Value: v}
	case scanner.Ident:
		name := p.lit
		p.next()
		return &Variable{Name: name}
	case '(':
		p.next()
		e := p.relation()
		if p.tok != ')' {
			p.fail("expected ')', got %q", p.lit)
			return nil
		}
		p.next()
		return e
	case scanner.EOF:
		p.fail("unexpected end of input")
	default:
		p.fail("unexpected %q", p.lit)
	}
	return nil
}
