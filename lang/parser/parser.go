// Package parser implements a precedence-climbing (Pratt) parser
// producing the lang/ast tree, per spec.md §4.1.
//
// The parseSubExpr(priority)-style precedence-climbing loop is
// modeled directly on the teacher's lang/parser/expr.go, retuned from
// Starlark's binding-power table to spec.md §4.1's table. Error
// recovery (emit an Error sentinel, keep going) is the same strategy
// the teacher's parser uses, generalized down to ember's much smaller
// statement grammar.
package parser

import (
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/token"
)

// Parse tokenizes and parses src into the synthetic top-level
// function spec.md §4.1 describes: name "<global>", no params, body =
// the sequence of declarations parsed from input.
func Parse(src *source.Source) *ast.Fn {
	fn, _ := parse(src)
	return fn
}

// parse is Parse's implementation, also returning the ast.IDGen used
// to build fn so ParseREPLLine can keep assigning from the same
// sequence instead of starting a colliding one of its own.
func parse(src *source.Source) (*ast.Fn, *ast.IDGen) {
	gen := &ast.IDGen{}
	p := &parser{src: src, gen: gen}
	p.sc.Init(src)
	p.next()
	return p.parseProgram(), gen
}

// ParseREPLLine parses one REPL input and, if it is a single trailing
// expression statement, wraps it in a call to println so interactive
// users see the expression's value -- spec.md §4.1 and §9's resolution
// of the "REPL wrap-in-println" open question performed as an AST
// rewrite, not a token-stream hack.
//
// The synthetic println/Call/ExprStmt nodes must draw their IDs from
// the same generator the rest of fn was built with: a fresh IDGen
// here would restart at 1 and collide with real node IDs already
// present in fn, corrupting the resolver's ID-keyed side tables (see
// lang/ast's package doc).
func ParseREPLLine(src *source.Source) *ast.Fn {
	fn, gen := parse(src)
	n := len(fn.Body)
	if n == 0 {
		return fn
	}
	if last, ok := fn.Body[n-1].(*ast.ExprStmt); ok {
		span := last.Span()
		callee := ast.NewIdentifier(gen, span, "println")
		call := ast.NewCall(gen, span, callee, []ast.Expr{last.X})
		fn.Body[n-1] = ast.NewExprStmt(gen, span, call)
	}
	return fn
}

type parser struct {
	src *source.Source
	sc  scanner.Scanner
	gen *ast.IDGen

	tok  token.Token
	lit  string
	span token.Span

	// previous token's span, used to build spans that run from a
	// construct's start to the token just consumed.
	prevEnd token.Pos
}

func (p *parser) next() {
	p.prevEnd = p.span.End
	p.tok, p.lit, p.span = p.sc.Scan()
}

func (p *parser) at(tok token.Token) bool { return p.tok == tok }

// expect consumes tok if it is current, reporting a parse error and
// not advancing otherwise (so callers can resynchronize).
func (p *parser) expect(tok token.Token) token.Span {
	if p.tok != tok {
		p.errorf("expected %s, found %s", tok, p.tok)
		return p.span
	}
	span := p.span
	p.next()
	return span
}

func (p *parser) errorf(format string, args ...any) {
	p.src.Errorf(source.ParseError, p.span, format, args...)
}

// synchronize skips tokens until a likely statement boundary, per
// spec.md §4.1's error-recovery contract.
func (p *parser) synchronize() {
	for {
		switch p.tok {
		case token.EOF, token.SEMI, token.RBRACE, token.LET, token.FN, token.IF, token.WHILE, token.RETURN:
			return
		}
		p.next()
	}
}

func (p *parser) parseProgram() *ast.Fn {
	start := p.span.Start
	var body []ast.Stmt
	for p.tok != token.EOF {
		body = append(body, p.parseDeclaration())
	}
	span := token.Span{Start: start, End: p.prevEnd}
	return ast.NewFn(p.gen, span, ast.GlobalFnName, nil, body)
}

func (p *parser) parseDeclaration() ast.Stmt {
	switch p.tok {
	case token.LET:
		return p.parseLetDecl()
	case token.FN:
		return p.parseFnDecl()
	default:
		return p.parseStatement()
	}
}

func (p *parser) parseLetDecl() ast.Stmt {
	start := p.span.Start
	p.next() // "let"
	name := p.lit
	if p.tok != token.IDENT {
		p.errorf("expected identifier after 'let'")
	} else {
		p.next()
	}
	p.expect(token.EQ)
	init := p.parseExpr()
	p.expect(token.SEMI)
	span := token.Span{Start: start, End: p.prevEnd}
	if p.hadSyncError(span) {
		p.synchronize()
	}
	return ast.NewLet(p.gen, span, name, init)
}

func (p *parser) parseFnDecl() ast.Stmt {
	start := p.span.Start
	p.next() // "fn"
	name := p.lit
	if p.tok != token.IDENT {
		p.errorf("expected function name")
	} else {
		p.next()
	}
	p.expect(token.LPAREN)
	var params []string
	for p.tok != token.RPAREN && p.tok != token.EOF {
		if p.tok == token.IDENT {
			params = append(params, p.lit)
			p.next()
		} else {
			p.errorf("expected parameter name")
			break
		}
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlockBody()
	span := token.Span{Start: start, End: p.prevEnd}
	return ast.NewFn(p.gen, span, name, params, body)
}

func (p *parser) parseStatement() ast.Stmt {
	switch p.tok {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		return p.parseReturn()
	default:
		return p.parseExprStmt()
	}
}

// parseBlockBody parses `{ decl* }` and returns just the statements,
// used by Fn/Block/If/While.
func (p *parser) parseBlockBody() []ast.Stmt {
	p.expect(token.LBRACE)
	var body []ast.Stmt
	for p.tok != token.RBRACE && p.tok != token.EOF {
		body = append(body, p.parseDeclaration())
	}
	p.expect(token.RBRACE)
	return body
}

func (p *parser) parseBlock() ast.Stmt {
	start := p.span.Start
	body := p.parseBlockBody()
	span := token.Span{Start: start, End: p.prevEnd}
	return ast.NewBlock(p.gen, span, body)
}

func (p *parser) parseIf() ast.Stmt {
	start := p.span.Start
	p.next() // "if"
	cond := p.parseExpr()
	then := p.parseBlockBody()
	var els []ast.Stmt
	if p.tok == token.ELSE {
		p.next()
		els = p.parseBlockBody()
	}
	span := token.Span{Start: start, End: p.prevEnd}
	return ast.NewIfElse(p.gen, span, cond, then, els)
}

func (p *parser) parseWhile() ast.Stmt {
	start := p.span.Start
	p.next() // "while"
	cond := p.parseExpr()
	body := p.parseBlockBody()
	span := token.Span{Start: start, End: p.prevEnd}
	return ast.NewWhile(p.gen, span, cond, body)
}

func (p *parser) parseReturn() ast.Stmt {
	start := p.span.Start
	p.next() // "return"
	x := p.parseExpr()
	p.expect(token.SEMI)
	span := token.Span{Start: start, End: p.prevEnd}
	if p.hadSyncError(span) {
		p.synchronize()
	}
	return ast.NewReturn(p.gen, span, x)
}

func (p *parser) parseExprStmt() ast.Stmt {
	start := p.span.Start
	x := p.parseExpr()
	p.expect(token.SEMI)
	span := token.Span{Start: start, End: p.prevEnd}
	if p.hadSyncError(span) {
		p.synchronize()
	}
	return ast.NewExprStmt(p.gen, span, x)
}

// hadSyncError reports whether the most recently recorded diagnostic
// falls within span, used to decide whether to resynchronize after a
// statement-level parse.
func (p *parser) hadSyncError(span token.Span) bool {
	ds := p.src.Diagnostics
	if len(ds) == 0 {
		return false
	}
	last := ds[len(ds)-1]
	return last.Span.Start >= span.Start && last.Span.Start <= span.End
}
