// Package ast defines the tagged-variant abstract syntax tree produced
// by lang/parser and consumed by lang/resolver and lang/compiler, per
// spec.md §3.
//
// Every node carries a stable small-integer ID, assigned at parse time
// by an IDGen shared across one parse. This is spec.md §9's resolution
// of the "cyclic AST-keyed side tables" design note: the resolver and
// emitter key their side tables by Node.ID(), not by node identity/
// pointer, so the contract holds even if an AST were ever copied or
// serialized. The Node interface shape (Span + Walk) is modeled on the
// teacher's lang/ast/ast.go, trimmed of its fmt.Formatter requirement
// (ember's debug printer, see printer.go, is a free function instead).
package ast

import "github.com/mna/ember/lang/token"

// ID uniquely identifies a Node within one parse.
type ID int

// Node is any node in the AST.
type Node interface {
	// ID returns this node's stable identifier.
	ID() ID
	// Span reports the node's byte span in its source.
	Span() token.Span
	// Walk visits this node's children, in source order.
	Walk(v Visitor)
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	// BlockEnding reports whether this statement should only appear as
	// the last statement of a block (only Return, in ember's grammar).
	BlockEnding() bool
	stmtNode()
}

// Visitor is implemented by callers of Node.Walk; Visit is called for
// every node encountered, and should return nil to stop descending
// into that node's children (the go/ast.Visitor convention).
type Visitor interface {
	Visit(n Node) Visitor
}

// Walk traverses the AST in depth-first order, starting at n.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	n.Walk(v)
}

// IDGen assigns sequential, stable Node IDs during one parse.
type IDGen struct{ next ID }

// Next returns the next unused ID.
func (g *IDGen) Next() ID {
	g.next++
	return g.next
}

type base struct {
	id   ID
	span token.Span
}

func (b base) ID() ID            { return b.id }
func (b base) Span() token.Span  { return b.span }
