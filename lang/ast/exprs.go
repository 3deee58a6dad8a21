package ast

import "github.com/mna/ember/lang/token"

// NumberLit is a numeric literal, stored as a float64 per spec.md §3.
type NumberLit struct {
	base
	Value float64
	Raw   string // original source text, for error messages
}

// BoolLit is a boolean literal.
type BoolLit struct {
	base
	Value bool
}

// StringLit is a string literal. Ember strings have no escapes
// (spec.md §6).
type StringLit struct {
	base
	Value string
}

// Identifier is a bare name reference, resolved by lang/resolver into
// a ResolvedIdentifier keyed by this node's ID.
type Identifier struct {
	base
	Name string
}

// Call is a function call expression.
type Call struct {
	base
	Callee Expr
	Args   []Expr
}

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
)

// IsAssign reports whether op is a simple or compound assignment.
func (op BinaryOp) IsAssign() bool {
	return op >= OpAssign
}

// Binary is a binary expression, including (compound) assignment --
// spec.md §4.1 treats `=`/`+=`/etc. as binary operators in the
// precedence table, and the emitter (spec.md §4.4) special-cases them
// by requiring Left to be an *Identifier.
type Binary struct {
	base
	Left  Expr
	Op    BinaryOp
	Right Expr
}

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // unary -
	OpNot                // unary !
)

// Unary is a unary expression.
type Unary struct {
	base
	Op  UnaryOp
	Arg Expr
}

// ErrorExpr is a sentinel emitted by the parser on a syntax error it
// recovered from, per spec.md §4.1.
type ErrorExpr struct {
	base
}

func (*NumberLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*StringLit) exprNode()  {}
func (*Identifier) exprNode() {}
func (*Call) exprNode()       {}
func (*Binary) exprNode()     {}
func (*Unary) exprNode()      {}
func (*ErrorExpr) exprNode()  {}

func (n *NumberLit) Walk(Visitor) {}
func (n *BoolLit) Walk(Visitor)   {}
func (n *StringLit) Walk(Visitor) {}
func (n *Identifier) Walk(Visitor) {}
func (n *Call) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *Binary) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *Unary) Walk(v Visitor) { Walk(v, n.Arg) }
func (n *ErrorExpr) Walk(Visitor) {}

// NewNumberLit, NewBoolLit, etc. construct nodes with a fresh ID from
// gen and the given span. Keeping construction behind these helpers
// means the parser never forgets to assign an ID.

func NewNumberLit(gen *IDGen, span token.Span, value float64, raw string) *NumberLit {
	return &NumberLit{base: base{gen.Next(), span}, Value: value, Raw: raw}
}

func NewBoolLit(gen *IDGen, span token.Span, value bool) *BoolLit {
	return &BoolLit{base: base{gen.Next(), span}, Value: value}
}

func NewStringLit(gen *IDGen, span token.Span, value string) *StringLit {
	return &StringLit{base: base{gen.Next(), span}, Value: value}
}

func NewIdentifier(gen *IDGen, span token.Span, name string) *Identifier {
	return &Identifier{base: base{gen.Next(), span}, Name: name}
}

func NewCall(gen *IDGen, span token.Span, callee Expr, args []Expr) *Call {
	return &Call{base: base{gen.Next(), span}, Callee: callee, Args: args}
}

func NewBinary(gen *IDGen, span token.Span, left Expr, op BinaryOp, right Expr) *Binary {
	return &Binary{base: base{gen.Next(), span}, Left: left, Op: op, Right: right}
}

func NewUnary(gen *IDGen, span token.Span, op UnaryOp, arg Expr) *Unary {
	return &Unary{base: base{gen.Next(), span}, Op: op, Arg: arg}
}

func NewErrorExpr(gen *IDGen, span token.Span) *ErrorExpr {
	return &ErrorExpr{base: base{gen.Next(), span}}
}
