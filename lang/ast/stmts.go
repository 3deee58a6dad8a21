package ast

import "github.com/mna/ember/lang/token"

// Let is a `let name = initializer;` declaration.
type Let struct {
	base
	Name        string
	Initializer Expr
}

// Fn is a `fn name(params) { body }` declaration. The sentinel name
// "<global>" (see lang/parser) marks the synthetic top-level function
// spec.md §4.1 requires the parser to produce.
type Fn struct {
	base
	Name   string
	Params []string
	Body   []Stmt
}

// Block is a `{ ... }` block of statements.
type Block struct {
	base
	Body []Stmt
}

// IfElse is an `if cond { ... } else { ... }` statement; Else is nil
// when there is no else branch.
type IfElse struct {
	base
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// While is a `while cond { ... }` statement.
type While struct {
	base
	Cond Expr
	Body []Stmt
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	base
	X Expr
}

// Return is a `return expr;` statement.
type Return struct {
	base
	X Expr
}

// ErrorStmt is a sentinel emitted by the parser on a syntax error it
// recovered from, per spec.md §4.1.
type ErrorStmt struct {
	base
}

func (*Let) stmtNode()       {}
func (*Fn) stmtNode()        {}
func (*Block) stmtNode()     {}
func (*IfElse) stmtNode()    {}
func (*While) stmtNode()     {}
func (*ExprStmt) stmtNode()  {}
func (*Return) stmtNode()    {}
func (*ErrorStmt) stmtNode() {}

// BlockEnding is true only for Return, per spec.md's glossary note
// that return/break/continue-style statements only make sense at the
// end of a block. Ember has no break/continue/goto.
func (*Let) BlockEnding() bool       { return false }
func (*Fn) BlockEnding() bool        { return false }
func (*Block) BlockEnding() bool     { return false }
func (*IfElse) BlockEnding() bool    { return false }
func (*While) BlockEnding() bool     { return false }
func (*ExprStmt) BlockEnding() bool  { return false }
func (*Return) BlockEnding() bool    { return true }
func (*ErrorStmt) BlockEnding() bool { return false }

func (n *Let) Walk(v Visitor) { Walk(v, n.Initializer) }
func (n *Fn) Walk(v Visitor) {
	for _, s := range n.Body {
		Walk(v, s)
	}
}
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Body {
		Walk(v, s)
	}
}
func (n *IfElse) Walk(v Visitor) {
	Walk(v, n.Cond)
	for _, s := range n.Then {
		Walk(v, s)
	}
	for _, s := range n.Else {
		Walk(v, s)
	}
}
func (n *While) Walk(v Visitor) {
	Walk(v, n.Cond)
	for _, s := range n.Body {
		Walk(v, s)
	}
}
func (n *ExprStmt) Walk(v Visitor) { Walk(v, n.X) }
func (n *Return) Walk(v Visitor)   { Walk(v, n.X) }
func (n *ErrorStmt) Walk(Visitor)  {}

func NewLet(gen *IDGen, span token.Span, name string, initializer Expr) *Let {
	return &Let{base: base{gen.Next(), span}, Name: name, Initializer: initializer}
}

func NewFn(gen *IDGen, span token.Span, name string, params []string, body []Stmt) *Fn {
	return &Fn{base: base{gen.Next(), span}, Name: name, Params: params, Body: body}
}

func NewBlock(gen *IDGen, span token.Span, body []Stmt) *Block {
	return &Block{base: base{gen.Next(), span}, Body: body}
}

func NewIfElse(gen *IDGen, span token.Span, cond Expr, then, els []Stmt) *IfElse {
	return &IfElse{base: base{gen.Next(), span}, Cond: cond, Then: then, Else: els}
}

func NewWhile(gen *IDGen, span token.Span, cond Expr, body []Stmt) *While {
	return &While{base: base{gen.Next(), span}, Cond: cond, Body: body}
}

func NewExprStmt(gen *IDGen, span token.Span, x Expr) *ExprStmt {
	return &ExprStmt{base: base{gen.Next(), span}, X: x}
}

func NewReturn(gen *IDGen, span token.Span, x Expr) *Return {
	return &Return{base: base{gen.Next(), span}, X: x}
}

func NewErrorStmt(gen *IDGen, span token.Span) *ErrorStmt {
	return &ErrorStmt{base: base{gen.Next(), span}}
}

// GlobalFnName is the sentinel name of the synthetic top-level
// function the parser wraps a whole program's declarations in
// (spec.md §4.1).
const GlobalFnName = "<global>"
