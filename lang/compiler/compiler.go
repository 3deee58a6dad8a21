// Package compiler is the emitter: it lowers a resolved AST into
// lang/bytecode.Chunks, per spec.md §4.4.
//
// The pcomp (program-wide state: source, resolver tables, shared
// string interner) / fcomp (per-function state: the chunk being
// built, the live-locals list used to know what to POP/CLOSEUPVAL on
// scope exit) split mirrors the teacher's lang/compiler/compiler.go
// pcomp/fcomp structuring, but drops its CFG/basic-block
// linearization pass: that machinery exists in the teacher to compute
// MaxStack statically and to support arbitrary control flow (goto,
// defer/catch). spec.md has neither requirement and instead specifies
// the emitter as direct, single-pass, back-patched-jump code
// generation (§4.3's "Patch a forward jump" contract), so ember's
// fcomp writes straight into a Chunk as it walks the AST, the way a
// textbook single-pass bytecode compiler does.
package compiler

import (
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/resolver"
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/token"
	"github.com/mna/ember/lang/value"
)

// Compile lowers root (the synthetic top-level function the parser
// produces, already walked by lang/resolver) into a FnTemplate whose
// Chunk is the top-level program. root must come from a source with
// no diagnostics recorded -- the compiler does not re-check for
// errors, per spec.md §7's "driver checks the sink... refuses to
// execute if any diagnostic was recorded" contract.
//
// interner is shared across every chunk compiled against the same
// source file, so that two textually-identical string literals (at
// any nesting level) become the same *value.Str object, per spec.md
// §4.4's "one shared heap string per distinct literal per chunk"
// (generalized here to per source file, matching the teacher's
// program-wide constant/name interning maps).
func Compile(src *source.Source, root *ast.Fn, res *resolver.Result, interner *value.Interner) *bytecode.FnTemplate {
	pc := &pcomp{src: src, res: res, interner: interner}
	return pc.compileFn(root)
}

// pcomp holds state shared by every function compiled from one
// source file.
type pcomp struct {
	src      *source.Source
	res      *resolver.Result
	interner *value.Interner
}

// fcomp holds the state of compiling one function body into one
// Chunk.
type fcomp struct {
	pc    *pcomp
	chunk *bytecode.Chunk

	// locals mirrors the resolver's funcState.locals: live local
	// bindings of the function currently being compiled, in slot
	// order. Used only to know, at a scope exit, how many slots to pop
	// (or close, if captured) -- the slot values themselves are never
	// read back out of this slice.
	locals []*resolver.Ident

	// strConsts caches the constant-pool index of interned strings
	// already added to this chunk (literal text or identifier names
	// used as global keys), so repeated references share one constant
	// pool entry.
	strConsts map[string]int
}

func (pc *pcomp) compileFn(fn *ast.Fn) *bytecode.FnTemplate {
	info := pc.res.Funcs[fn.ID()]
	f := &fcomp{pc: pc, chunk: bytecode.NewChunk(fn.Name)}
	if params := pc.res.Params[fn.ID()]; len(params) > 0 {
		f.locals = append(f.locals, params...)
	}
	for _, s := range fn.Body {
		f.emitStmt(s)
	}
	// No implicit RET is emitted: spec.md §4.4 says the body "falls
	// through to end-of-chunk"; the VM (lang/machine) synthesizes a
	// return of 0 when execution runs off the end of a chunk's code.
	return &bytecode.FnTemplate{
		Name:         fn.Name,
		Arity:        len(fn.Params),
		Chunk:        f.chunk,
		UpvalueCount: len(info.Upvalues),
	}
}

func (f *fcomp) lineAt(span token.Span) int {
	return f.pc.src.Line(span.Start)
}

// internedConstant returns the constant-pool index of an interned
// *value.Str for text, adding it (and caching the index) on first use
// in this chunk.
func (f *fcomp) internedConstant(text string) int {
	if f.strConsts == nil {
		f.strConsts = make(map[string]int)
	}
	if idx, ok := f.strConsts[text]; ok {
		return idx
	}
	s := f.pc.interner.Intern(text)
	idx := f.chunk.AddConstant(value.NewObject(s))
	f.strConsts[text] = idx
	return idx
}

// endScope pops (or closes, for captured bindings) every local
// declared since mark, per spec.md §4.4's Block emission rule:
// "Exiting a scope emits POP for each ordinary local or CLOSEUPVAL for
// each captured local, in reverse declaration order."
func (f *fcomp) endScope(mark int, line int) {
	for i := len(f.locals) - 1; i >= mark; i-- {
		if f.locals[i].Captured {
			f.chunk.WriteOp(bytecode.CLOSEUPVAL, line)
		} else {
			f.chunk.WriteOp(bytecode.POP, line)
		}
	}
	f.locals = f.locals[:mark]
}

// emitLoad emits the LD* instruction matching ident's scope, per
// spec.md §4.4's "Identifier" expression emission rule.
func (f *fcomp) emitLoad(ident *resolver.Ident, line int) {
	switch ident.Scope {
	case resolver.ScopeLocal:
		f.chunk.WriteOpByte(bytecode.LDLOC, byte(ident.Index), line)
	case resolver.ScopeUpvalue:
		f.chunk.WriteOpByte(bytecode.LDUPVAL, byte(ident.Index), line)
	case resolver.ScopeGlobal:
		k := f.internedConstant(ident.Name)
		f.chunk.WriteOpByte(bytecode.LDGLOBAL, byte(k), line)
	}
}

// emitStore emits the ST* instruction matching ident's scope. Every
// ST* opcode leaves the stored value on the stack, per spec.md §4.3's
// "store leaves value on stack" -- what makes assignment an
// expression and, for ScopeGlobal, is also exactly what turns a `let`
// at global scope into a statement that must explicitly POP after
// storing (see emitNewBinding), since a global has no stack slot of
// its own to permanently occupy the way a true local does.
func (f *fcomp) emitStore(ident *resolver.Ident, line int) {
	switch ident.Scope {
	case resolver.ScopeLocal:
		f.chunk.WriteOpByte(bytecode.STLOC, byte(ident.Index), line)
	case resolver.ScopeUpvalue:
		f.chunk.WriteOpByte(bytecode.STUPVAL, byte(ident.Index), line)
	case resolver.ScopeGlobal:
		k := f.internedConstant(ident.Name)
		f.chunk.WriteOpByte(bytecode.STGLOBAL, byte(k), line)
	}
}

// emitNewBinding records ident's declaration, per spec.md §4.4's "Let"
// and "Fn" statement emission rules. The value to bind is assumed
// already on top of the stack (the Let initializer, or the CLOSURE
// instruction's result).
//
// For a local, the pushed value simply *is* the local's slot -- spec.md
// §9's "globals live as the first entries of the value stack" design
// is replaced here by a name-keyed global table (spec.md §9 "An
// alternative that keeps globals in a separate map is acceptable"),
// so a global binding instead needs an explicit store-then-pop: the
// STGLOBAL leaves the value on the stack (general ST* semantics), and
// the trailing POP discards it since the global table, not the
// operand stack, now owns storage for it.
func (f *fcomp) emitNewBinding(ident *resolver.Ident, line int) {
	switch ident.Scope {
	case resolver.ScopeGlobal:
		f.emitStore(ident, line)
		f.chunk.WriteOp(bytecode.POP, line)
	case resolver.ScopeLocal:
		f.locals = append(f.locals, ident)
	default:
		panic("emitNewBinding: unexpected scope " + ident.Scope.String())
	}
}
