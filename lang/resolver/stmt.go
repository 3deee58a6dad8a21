package resolver

import (
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/token"
)

func (r *resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Let:
		r.expr(s.Initializer)
		r.res.Decls[s.ID()] = r.declare(s.Span(), s.Name, -1)

	case *ast.Fn:
		// bind the function's own name before resolving its body, so it
		// can call itself recursively.
		r.res.FnSelf[s.ID()] = r.declare(s.Span(), s.Name, len(s.Params))
		r.resolveFn(s, r.fn, nil)

	case *ast.Block:
		r.fn.beginScope()
		for _, st := range s.Body {
			r.stmt(st)
		}
		r.fn.endScope()

	case *ast.IfElse:
		r.expr(s.Cond)
		r.fn.beginScope()
		for _, st := range s.Then {
			r.stmt(st)
		}
		r.fn.endScope()
		if s.Else != nil {
			r.fn.beginScope()
			for _, st := range s.Else {
				r.stmt(st)
			}
			r.fn.endScope()
		}

	case *ast.While:
		r.expr(s.Cond)
		r.fn.beginScope()
		for _, st := range s.Body {
			r.stmt(st)
		}
		r.fn.endScope()

	case *ast.ExprStmt:
		r.expr(s.X)

	case *ast.Return:
		r.expr(s.X)

	case *ast.ErrorStmt:
		// nothing to resolve; the parser already reported the syntax error.
	}
}

// declare binds name in the current scope, reporting a resolve error
// if it shadows another binding already declared in that exact scope
// (shadowing an outer scope is fine). arity is the known call arity
// if this declaration's value is statically known to be a function
// (an Fn declaration), or -1 otherwise.
func (r *resolver) declare(span token.Span, name string, arity int) *Ident {
	fs := r.fn
	if !(fs.isRoot && fs.scopeDepth == 1) {
		for i := len(fs.locals) - 1; i >= 0 && fs.locals[i].depth == fs.scopeDepth; i-- {
			if fs.locals[i].name == name {
				r.src.Errorf(source.ResolveError, span, "already declared in this scope: %s", name)
				break
			}
		}
	}
	return fs.declareLocal(name, arity)
}
