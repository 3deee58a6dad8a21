package resolver

import (
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/source"
)

func (r *resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.NumberLit, *ast.BoolLit, *ast.StringLit, *ast.ErrorExpr:
		// no identifiers to resolve

	case *ast.Identifier:
		r.use(e)

	case *ast.Call:
		r.expr(e.Callee)
		for _, a := range e.Args {
			r.expr(a)
		}
		r.checkArity(e)

	case *ast.Binary:
		r.expr(e.Left)
		r.expr(e.Right)

	case *ast.Unary:
		r.expr(e.Arg)
	}
}

func (r *resolver) use(id *ast.Identifier) {
	ident, arity := r.resolveIdent(id.Span(), id.Name)
	r.res.Uses[id.ID()] = ident
	r.useArity[id.ID()] = arity
}

// checkArity performs the known-arity static check: a call whose callee
// is a bare identifier resolving to a statically-known function arity
// must pass exactly that many arguments. Calls through an expression
// other than a plain identifier (e.g. a value returned by another
// call) have no statically-known arity and are left to the VM's
// runtime arity check (spec.md §7).
func (r *resolver) checkArity(call *ast.Call) {
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return
	}
	arity, ok := r.useArity[ident.ID()]
	if !ok || arity < 0 {
		return
	}
	if got := len(call.Args); got != arity {
		r.src.Errorf(source.ResolveError, call.Span(),
			"function %q expects %d argument(s), got %d", ident.Name, arity, got)
	}
}
