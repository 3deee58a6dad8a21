// Package resolver walks a parsed ast.Fn tree and resolves every
// identifier to a Local slot, an Upvalue, or a Global, per spec.md
// §4.2. It also performs two static checks the grammar cannot reject
// on its own: redeclaring a name in the same local scope, and calling
// a statically-known function with the wrong number of arguments.
//
// The block/funcState shape and the bind-then-use naming are carried
// over from the teacher's lang/resolver/resolver.go (itself adapted
// from Starlark's resolver), but the capture algorithm is not: the
// teacher's resolver walks directly from an inner block to the block
// that declared a name, converting that single enclosing function's
// local to a Cell and stopping there. That collapses a variable
// captured through two or more nested functions into one hop and
// loses the chain an intermediate closure needs to forward the cell
// down to its own nested closure. ember generalizes this the way
// spec.md §4.2 describes it, matching the classic "crafting
// interpreters" resolveUpvalue: resolving a name walks outward one
// function at a time, and every function in between gets its own
// Upvalue entry pointing at the next function's Upvalue, down to the
// function that actually owns the Local slot.
package resolver

import (
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/source"
)

// Scope classifies where a resolved identifier lives.
type Scope uint8

const (
	// ScopeGlobal is a binding declared directly in the top-level
	// function's outermost scope, stored in the VM's global table and
	// addressed by name rather than by slot.
	ScopeGlobal Scope = iota
	// ScopeLocal is a binding local to the current function's stack
	// frame, addressed by slot index.
	ScopeLocal
	// ScopeUpvalue is a binding captured from an enclosing function,
	// addressed by index into the running closure's upvalue array.
	ScopeUpvalue
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local"
	case ScopeUpvalue:
		return "upvalue"
	default:
		return "invalid scope"
	}
}

// Ident is the resolution recorded for one declaring or using
// occurrence of a name.
type Ident struct {
	Scope Scope
	Index int    // stack slot (ScopeLocal) or upvalue index (ScopeUpvalue); unused for ScopeGlobal
	Name  string // interned name, used for ScopeGlobal addressing and diagnostics

	// Captured is set on a declaring Ident (ScopeLocal only) when some
	// nested function captures this binding as an upvalue. The emitter
	// uses it to decide which locals need CLOSEUPVAL when their scope
	// ends.
	Captured bool
}

// UpvalueDesc is one entry of a function's upvalue list, matching the
// operand pairs the CLOSURE instruction encodes (spec.md §4.3/§4.4).
type UpvalueDesc struct {
	Index     int // slot in the immediately enclosing function (FromLocal) or upvalue index in it (!FromLocal)
	FromLocal bool
}

// FuncInfo is the static shape the compiler needs to emit one
// function's code: how many stack slots its frame needs and what its
// upvalues capture.
type FuncInfo struct {
	NumLocals int
	Upvalues  []UpvalueDesc
}

// Result is the full set of side tables the compiler consults while
// emitting bytecode, keyed by the stable ast.ID the parser assigned.
type Result struct {
	// Decls resolves a Let statement's own binding.
	Decls map[ast.ID]*Ident
	// Params resolves an Fn's parameters, in Params order.
	Params map[ast.ID][]*Ident
	// FnSelf resolves an Fn declaration's own name in its enclosing
	// scope (what makes the function callable, and recursion possible).
	FnSelf map[ast.ID]*Ident
	// Uses resolves every *ast.Identifier occurrence, whether read or
	// used as an assignment target.
	Uses map[ast.ID]*Ident
	// Funcs holds the per-function static shape, keyed by the Fn's ID.
	Funcs map[ast.ID]*FuncInfo
}

// Resolve walks root (the synthetic top-level function the parser
// produces) and returns the resolution tables the compiler needs.
// Errors are accumulated on src; the caller must check
// src.HasErrors() before compiling.
//
// builtins is the host's native-function registration list (name ->
// arity), per spec.md §6's "the resolver walks the registration list,
// adding each as a top-of-global symbol" and SPEC_FULL.md §3's
// supplemental known-arity call-site diagnostic: a call to a
// registered native with the wrong number of arguments is caught here
// rather than only at runtime. May be nil.
func Resolve(src *source.Source, root *ast.Fn, builtins map[string]int) *Result {
	r := &resolver{
		src: src,
		res: &Result{
			Decls:  make(map[ast.ID]*Ident),
			Params: make(map[ast.ID][]*Ident),
			FnSelf: make(map[ast.ID]*Ident),
			Uses:   make(map[ast.ID]*Ident),
			Funcs:  make(map[ast.ID]*FuncInfo),
		},
		useArity: make(map[ast.ID]int),
	}
	r.resolveFn(root, nil, builtins)
	return r.res
}

type resolver struct {
	src *source.Source
	fn  *funcState
	res *Result

	// useArity records, for every resolved Identifier use, the known
	// call arity of the value it names (-1 if unknown); consulted by
	// checkArity when that use turns out to be a Call's callee.
	useArity map[ast.ID]int
}

// localVar is a name visible on the current function's compile-time
// local stack. ident points at the same *Ident stored in a Result map,
// so marking it captured later (from a nested function's resolution)
// is visible wherever that Ident was recorded.
type localVar struct {
	name  string
	depth int
	slot  int
	arity int // known call arity if this local holds a function value, else -1
	ident *Ident
}

// funcState tracks one function's (or the top-level chunk's) compile-time
// scope while it is being resolved.
type funcState struct {
	parent     *funcState
	isRoot     bool
	scopeDepth int
	locals     []localVar
	maxSlots   int
	upvalues   []UpvalueDesc
	upNames    []string // parallel to upvalues, for dedup by name
	upArity    []int    // parallel to upvalues, known call arity or -1

	// globalArity records the known arity of top-level function
	// declarations, shared by every funcState in the resolve pass.
	globalArity map[string]int
}

func (r *resolver) resolveFn(node *ast.Fn, parent *funcState, builtins map[string]int) {
	fs := &funcState{parent: parent, isRoot: parent == nil}
	if parent == nil {
		fs.globalArity = make(map[string]int, len(builtins))
		for name, arity := range builtins {
			fs.globalArity[name] = arity
		}
	} else {
		fs.globalArity = parent.globalArity
	}
	prev := r.fn
	r.fn = fs

	fs.beginScope()
	var params []*Ident
	for _, p := range node.Params {
		params = append(params, fs.declareLocal(p, -1))
	}
	r.res.Params[node.ID()] = params

	for _, s := range node.Body {
		r.stmt(s)
	}
	fs.endScope()

	r.res.Funcs[node.ID()] = &FuncInfo{NumLocals: fs.maxSlots, Upvalues: fs.upvalues}
	r.fn = prev
}

func (fs *funcState) beginScope() { fs.scopeDepth++ }

// endScope pops locals declared in the scope just exited. Their
// *Ident values remain valid (and possibly still being mutated by an
// in-flight capture) through whatever map in Result already holds
// them; only this function's private view of the name is discarded.
func (fs *funcState) endScope() {
	depth := fs.scopeDepth
	fs.scopeDepth--
	for len(fs.locals) > 0 && fs.locals[len(fs.locals)-1].depth == depth {
		fs.locals = fs.locals[:len(fs.locals)-1]
	}
}

// declareLocal adds name to the current scope and returns the Ident
// to record in whichever Result map the caller owns. At the root
// function's outermost scope (depth 1, i.e. not nested in any block)
// this is a global instead of a stack slot, per spec.md §9's resolution
// of top-level bindings living in the VM's global table.
func (fs *funcState) declareLocal(name string, arity int) *Ident {
	if fs.isRoot && fs.scopeDepth == 1 {
		// Recorded even when arity is unknown (-1, e.g. a Let binding):
		// presence of the key, not its value, is what lets resolveIdent
		// tell an already-declared global from an undefined symbol.
		fs.globalArity[name] = arity
		return &Ident{Scope: ScopeGlobal, Name: name}
	}
	slot := len(fs.locals)
	id := &Ident{Scope: ScopeLocal, Index: slot, Name: name}
	fs.locals = append(fs.locals, localVar{name: name, depth: fs.scopeDepth, slot: slot, arity: arity, ident: id})
	if slot+1 > fs.maxSlots {
		fs.maxSlots = slot + 1
	}
	return id
}

// findLocal looks up name in fs's own locals, newest declaration
// first so shadowing resolves correctly.
func (fs *funcState) findLocal(name string) (*localVar, bool) {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			return &fs.locals[i], true
		}
	}
	return nil, false
}
