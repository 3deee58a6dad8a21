package compiler

import (
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/value"
)

// emitStmt emits code for one statement, leaving the stack as it was
// before the statement, except that a local Let or Fn declaration
// leaves its value behind as the new local's slot (spec.md §8's
// stack-conservation property, adapted for map-based globals: see
// emitNewBinding).
func (f *fcomp) emitStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Let:
		line := f.lineAt(s.Span())
		f.emitExpr(s.Initializer)
		f.emitNewBinding(f.pc.res.Decls[s.ID()], line)

	case *ast.Fn:
		f.emitFnDecl(s)

	case *ast.Block:
		line := f.lineAt(s.Span())
		mark := len(f.locals)
		for _, st := range s.Body {
			f.emitStmt(st)
		}
		f.endScope(mark, line)

	case *ast.IfElse:
		f.emitIf(s)

	case *ast.While:
		f.emitWhile(s)

	case *ast.ExprStmt:
		line := f.lineAt(s.Span())
		f.emitExpr(s.X)
		f.chunk.WriteOp(bytecode.POP, line)

	case *ast.Return:
		f.emitReturn(s)

	case *ast.ErrorStmt:
		panic("compiler: encountered ErrorStmt; source had unresolved errors")

	default:
		panic("compiler: unhandled statement node")
	}
}

// emitFnDecl emits a nested function declaration: compile its body
// into its own chunk, add the resulting FnTemplate as a constant,
// then CLOSURE it (with its upvalue operand pairs) and bind the
// result under the function's own name, per spec.md §4.4's "Fn"
// emission rule.
func (f *fcomp) emitFnDecl(fn *ast.Fn) {
	tmpl := f.pc.compileFn(fn)
	k := f.chunk.AddConstant(value.NewObject(tmpl))
	line := f.lineAt(fn.Span())
	f.chunk.WriteOpByte(bytecode.CLOSURE, byte(k), line)

	info := f.pc.res.Funcs[fn.ID()]
	for _, uv := range info.Upvalues {
		var isLocal byte
		if uv.FromLocal {
			isLocal = 1
		}
		f.chunk.WriteByte(isLocal, line)
		f.chunk.WriteByte(byte(uv.Index), line)
	}

	f.emitNewBinding(f.pc.res.FnSelf[fn.ID()], line)
}

// emitIf emits an if/else, per spec.md §4.4's "IfElse" emission rule:
// evaluate the condition, JMPIFFALSE over the then-branch (POPping
// the condition on the fallthrough side), then branch, JMP over the
// else-branch if present, POP the condition on the jump-taken side,
// else branch.
func (f *fcomp) emitIf(s *ast.IfElse) {
	line := f.lineAt(s.Span())
	f.emitExpr(s.Cond)
	elseJump := f.chunk.EmitJump(bytecode.JMPIFFALSE, line)
	f.chunk.WriteOp(bytecode.POP, line)

	mark := len(f.locals)
	for _, st := range s.Then {
		f.emitStmt(st)
	}
	f.endScope(mark, line)

	if s.Else != nil {
		endJump := f.chunk.EmitJump(bytecode.JMP, line)
		f.chunk.PatchJump(elseJump)
		f.chunk.WriteOp(bytecode.POP, line)

		mark = len(f.locals)
		for _, st := range s.Else {
			f.emitStmt(st)
		}
		f.endScope(mark, line)

		f.chunk.PatchJump(endJump)
	} else {
		// The then-branch falls straight through to whatever follows it,
		// landing on elseJump's target exactly like the false path does;
		// without this JMP that target's POP (meant only to drop the
		// condition on the false path, which never ran the POP at line 85)
		// would also fire on the true path, popping a second, real value.
		endJump := f.chunk.EmitJump(bytecode.JMP, line)
		f.chunk.PatchJump(elseJump)
		f.chunk.WriteOp(bytecode.POP, line)
		f.chunk.PatchJump(endJump)
	}
}

// emitWhile emits a while loop, per spec.md §4.4's "While" emission
// rule: condition, JMPIFFALSE to exit, body, LOOP back to the
// condition.
func (f *fcomp) emitWhile(s *ast.While) {
	line := f.lineAt(s.Span())
	loopStart := len(f.chunk.Code)
	f.emitExpr(s.Cond)
	exitJump := f.chunk.EmitJump(bytecode.JMPIFFALSE, line)
	f.chunk.WriteOp(bytecode.POP, line)

	mark := len(f.locals)
	for _, st := range s.Body {
		f.emitStmt(st)
	}
	f.endScope(mark, line)

	f.chunk.EmitLoop(loopStart, line)
	f.chunk.PatchJump(exitJump)
	f.chunk.WriteOp(bytecode.POP, line)
}

// emitReturn emits a return statement, using the dedicated RET0/RET1
// opcodes for the literal constants 0 and 1 (spec.md §4.3's
// size/speed optimization, matching how LD0/LD1 shortcut LDF64 for
// those same values).
func (f *fcomp) emitReturn(s *ast.Return) {
	line := f.lineAt(s.Span())
	if lit, ok := s.X.(*ast.NumberLit); ok {
		switch lit.Value {
		case 0:
			f.chunk.WriteOp(bytecode.RET0, line)
			return
		case 1:
			f.chunk.WriteOp(bytecode.RET1, line)
			return
		}
	}
	f.emitExpr(s.X)
	f.chunk.WriteOp(bytecode.RET, line)
}
