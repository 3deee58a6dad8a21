package compiler

import (
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/bytecode"
)

// emitExpr emits code that leaves exactly one value -- the result of
// e -- on top of the stack, per spec.md §4.4's per-expression emission
// rules.
func (f *fcomp) emitExpr(e ast.Expr) {
	line := f.lineAt(e.Span())
	switch e := e.(type) {
	case *ast.NumberLit:
		switch e.Value {
		case 0:
			f.chunk.WriteOp(bytecode.LD0, line)
		case 1:
			f.chunk.WriteOp(bytecode.LD1, line)
		default:
			f.chunk.WriteOpF64(e.Value, line)
		}

	case *ast.BoolLit:
		if e.Value {
			f.chunk.WriteOp(bytecode.LDTRUE, line)
		} else {
			f.chunk.WriteOp(bytecode.LDFALSE, line)
		}

	case *ast.StringLit:
		k := f.internedConstant(e.Value)
		f.chunk.WriteOpByte(bytecode.LDC, byte(k), line)

	case *ast.Identifier:
		f.emitLoad(f.pc.res.Uses[e.ID()], line)

	case *ast.Call:
		for _, a := range e.Args {
			f.emitExpr(a)
		}
		f.emitExpr(e.Callee)
		f.chunk.WriteOpByte(bytecode.CALLI, byte(len(e.Args)), line)

	case *ast.Binary:
		f.emitBinary(e, line)

	case *ast.Unary:
		f.emitExpr(e.Arg)
		if e.Op == ast.OpNeg {
			f.chunk.WriteOp(bytecode.NEG, line)
		} else {
			f.chunk.WriteOp(bytecode.NOT, line)
		}

	case *ast.ErrorExpr:
		panic("compiler: encountered ErrorExpr; source had unresolved errors")

	default:
		panic("compiler: unhandled expression node")
	}
}

// emitBinary handles both arithmetic/comparison operators and
// (compound) assignment, per spec.md §4.1's table treating assignment
// as a binary operator and §4.4's note that the emitter special-cases
// it.
func (f *fcomp) emitBinary(b *ast.Binary, line int) {
	if b.Op.IsAssign() {
		f.emitAssign(b, line)
		return
	}
	f.emitExpr(b.Left)
	f.emitExpr(b.Right)
	switch b.Op {
	case ast.OpAdd:
		f.chunk.WriteOp(bytecode.ADD, line)
	case ast.OpSub:
		f.chunk.WriteOp(bytecode.SUB, line)
	case ast.OpMul:
		f.chunk.WriteOp(bytecode.MUL, line)
	case ast.OpDiv:
		f.chunk.WriteOp(bytecode.DIV, line)
	case ast.OpEq:
		f.chunk.WriteOp(bytecode.EQ, line)
	case ast.OpNeq:
		f.chunk.WriteOp(bytecode.EQ, line)
		f.chunk.WriteOp(bytecode.NOT, line)
	case ast.OpLt:
		f.chunk.WriteOp(bytecode.LESS, line)
	case ast.OpLe:
		// a <= b  ==  !(a > b)
		f.chunk.WriteOp(bytecode.GREATER, line)
		f.chunk.WriteOp(bytecode.NOT, line)
	case ast.OpGt:
		f.chunk.WriteOp(bytecode.GREATER, line)
	case ast.OpGe:
		// a >= b  ==  !(a < b)
		f.chunk.WriteOp(bytecode.LESS, line)
		f.chunk.WriteOp(bytecode.NOT, line)
	default:
		panic("compiler: unhandled binary operator")
	}
}

// emitAssign emits a (compound) assignment. Both forms rely on the
// ST* family leaving the stored value on the stack, so the
// assignment expression itself evaluates to the newly stored value
// with no extra dup/pop dance: a compound assignment is simply
// load-current, evaluate-rhs, apply-operator, store.
func (f *fcomp) emitAssign(b *ast.Binary, line int) {
	target := b.Left.(*ast.Identifier)
	ident := f.pc.res.Uses[target.ID()]

	if b.Op == ast.OpAssign {
		f.emitExpr(b.Right)
		f.emitStore(ident, line)
		return
	}

	f.emitLoad(ident, line)
	f.emitExpr(b.Right)
	switch b.Op {
	case ast.OpAddAssign:
		f.chunk.WriteOp(bytecode.ADD, line)
	case ast.OpSubAssign:
		f.chunk.WriteOp(bytecode.SUB, line)
	case ast.OpMulAssign:
		f.chunk.WriteOp(bytecode.MUL, line)
	case ast.OpDivAssign:
		f.chunk.WriteOp(bytecode.DIV, line)
	default:
		panic("compiler: unhandled compound assignment operator")
	}
	f.emitStore(ident, line)
}
