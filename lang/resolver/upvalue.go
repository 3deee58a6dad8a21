package resolver

import (
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/token"
)

// resolveUpvalue looks for name in fs's enclosing functions, walking
// outward one function at a time. If it finds the owning Local, it
// marks that Local captured and adds a single FromLocal upvalue to
// fs. If the name lives further out still, it first resolves it as an
// upvalue of fs.parent (recursively, so every function in between
// gets its own entry) and then adds a !FromLocal upvalue to fs
// pointing at that entry. This is the multi-hop generalization of the
// teacher's single-hop Cell conversion described in the package doc.
func (r *resolver) resolveUpvalue(fs *funcState, name string) (index int, found bool, arity int) {
	if fs.parent == nil {
		return 0, false, -1
	}
	if lv, ok := fs.parent.findLocal(name); ok {
		lv.ident.Captured = true
		idx := fs.addUpvalue(name, lv.slot, true, lv.arity)
		return idx, true, lv.arity
	}
	if idx, ok, arity := r.resolveUpvalue(fs.parent, name); ok {
		outIdx := fs.addUpvalue(name, idx, false, arity)
		return outIdx, true, arity
	}
	return 0, false, -1
}

// addUpvalue dedups by (name, index, fromLocal): two captures of the
// same enclosing binding in one function share a single upvalue slot.
func (fs *funcState) addUpvalue(name string, index int, fromLocal bool, arity int) int {
	for i, n := range fs.upNames {
		if n == name && fs.upvalues[i].Index == index && fs.upvalues[i].FromLocal == fromLocal {
			return i
		}
	}
	fs.upvalues = append(fs.upvalues, UpvalueDesc{Index: index, FromLocal: fromLocal})
	fs.upNames = append(fs.upNames, name)
	fs.upArity = append(fs.upArity, arity)
	return len(fs.upvalues) - 1
}

// resolveIdent resolves name against the current function: its own
// locals first, then its enclosing functions' bindings (as an
// upvalue), and finally the global table. A name that matches no
// declaration anywhere -- not a local, not an upvalue, not a builtin
// or a previously-declared global -- is a static resolution error per
// spec.md §4.2/§7 ("Cannot resolve symbol N"), matching
// original_source/ella-passes/src/resolve.rs's resolve_symbol.
func (r *resolver) resolveIdent(span token.Span, name string) (*Ident, int) {
	if lv, ok := r.fn.findLocal(name); ok {
		return lv.ident, lv.arity
	}
	if idx, ok, arity := r.resolveUpvalue(r.fn, name); ok {
		return &Ident{Scope: ScopeUpvalue, Index: idx, Name: name}, arity
	}
	if a, ok := r.fn.globalArity[name]; ok {
		return &Ident{Scope: ScopeGlobal, Name: name}, a
	}
	r.src.Errorf(source.ResolveError, span, "cannot resolve symbol: %s", name)
	return &Ident{Scope: ScopeGlobal, Name: name}, -1
}
