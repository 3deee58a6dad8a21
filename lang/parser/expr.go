package parser

import (
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/token"
)

// binPriority holds the (left, right) binding powers from spec.md
// §4.1's table. left is compared against the caller's minimum to
// decide whether to consume the operator; right is the minimum passed
// to the recursive call that parses the right operand. A right power
// lower than left (assignment) yields right-associativity; a right
// power higher than left (the rest) yields left-associativity.
type priority struct{ left, right int }

var binPriority = map[token.Token]priority{
	token.EQ:       {3, 2},
	token.PLUS_EQ:  {3, 2},
	token.MINUS_EQ: {3, 2},
	token.STAR_EQ:  {3, 2},
	token.SLASH_EQ: {3, 2},

	token.EQEQ:   {4, 5},
	token.BANGEQ: {4, 5},

	token.LT: {6, 7},
	token.LE: {6, 7},
	token.GT: {6, 7},
	token.GE: {6, 7},

	token.PLUS:  {8, 9},
	token.MINUS: {8, 9},

	token.STAR:  {10, 11},
	token.SLASH: {10, 11},
}

// unaryPriority is the binding power a prefix `!`/`-` operand is
// parsed at: higher than every binary operator's right power, so
// `-a + b` parses as `(-a) + b`, but equal to the priority used for
// chained unary operators (`- -a`) and lower than the implicit
// postfix-call priority so `-f()` parses as `-(f())`.
const unaryPriority = 12

var binOps = map[token.Token]ast.BinaryOp{
	token.EQ:       ast.OpAssign,
	token.PLUS_EQ:  ast.OpAddAssign,
	token.MINUS_EQ: ast.OpSubAssign,
	token.STAR_EQ:  ast.OpMulAssign,
	token.SLASH_EQ: ast.OpDivAssign,
	token.EQEQ:     ast.OpEq,
	token.BANGEQ:   ast.OpNeq,
	token.LT:       ast.OpLt,
	token.LE:       ast.OpLe,
	token.GT:       ast.OpGt,
	token.GE:       ast.OpGe,
	token.PLUS:     ast.OpAdd,
	token.MINUS:    ast.OpSub,
	token.STAR:     ast.OpMul,
	token.SLASH:    ast.OpDiv,
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseSubExpr(0)
}

// parseSubExpr is the precedence-climbing core, modeled on the
// teacher's lang/parser/expr.go parseSubExpr(priority) loop.
func (p *parser) parseSubExpr(minPriority int) ast.Expr {
	left := p.parseUnary()
	for {
		pr, ok := binPriority[p.tok]
		if !ok || pr.left <= minPriority {
			break
		}
		op := binOps[p.tok]
		opSpan := p.span
		if op.IsAssign() {
			if _, ok := left.(*ast.Identifier); !ok {
				p.src.Errorf(source.ParseError, opSpan, "invalid assignment target")
			}
		}
		p.next()
		right := p.parseSubExpr(pr.right)
		span := token.Span{Start: left.Span().Start, End: right.Span().End}
		left = ast.NewBinary(p.gen, span, left, op, right)
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok {
	case token.BANG:
		start := p.span.Start
		p.next()
		arg := p.parseSubExpr(unaryPriority)
		span := token.Span{Start: start, End: arg.Span().End}
		return ast.NewUnary(p.gen, span, ast.OpNot, arg)
	case token.MINUS:
		start := p.span.Start
		p.next()
		arg := p.parseSubExpr(unaryPriority)
		span := token.Span{Start: start, End: arg.Span().End}
		return ast.NewUnary(p.gen, span, ast.OpNeg, arg)
	default:
		return p.parseCallOrPrimary()
	}
}

func (p *parser) parseCallOrPrimary() ast.Expr {
	e := p.parsePrimary()
	for p.tok == token.LPAREN {
		start := e.Span().Start
		p.next()
		var args []ast.Expr
		for p.tok != token.RPAREN && p.tok != token.EOF {
			args = append(args, p.parseExpr())
			if p.tok == token.COMMA {
				p.next()
			} else {
				break
			}
		}
		end := p.span.End
		p.expect(token.RPAREN)
		span := token.Span{Start: start, End: end}
		e = ast.NewCall(p.gen, span, e, args)
	}
	return e
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.NUMBER:
		span, lit := p.span, p.lit
		p.next()
		return ast.NewNumberLit(p.gen, span, scanner.NumberValue(lit), lit)
	case token.STRING:
		span, lit := p.span, p.lit
		p.next()
		return ast.NewStringLit(p.gen, span, lit)
	case token.TRUE:
		span := p.span
		p.next()
		return ast.NewBoolLit(p.gen, span, true)
	case token.FALSE:
		span := p.span
		p.next()
		return ast.NewBoolLit(p.gen, span, false)
	case token.IDENT:
		span, lit := p.span, p.lit
		p.next()
		return ast.NewIdentifier(p.gen, span, lit)
	case token.LPAREN:
		p.next()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	default:
		span := p.span
		p.errorf("unexpected token %s in expression", p.tok)
		if p.tok != token.EOF {
			p.next()
		}
		return ast.NewErrorExpr(p.gen, span)
	}
}
