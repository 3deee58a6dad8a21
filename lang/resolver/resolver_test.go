package resolver_test

import (
	"testing"

	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/parser"
	"github.com/mna/ember/lang/resolver"
	"github.com/mna/ember/lang/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, text string) (*ast.Fn, *resolver.Result, *source.Source) {
	t.Helper()
	src := source.New("<test>", text)
	fn := parser.Parse(src)
	require.False(t, src.HasErrors(), "parse errors: %v", src.Diagnostics)
	res := resolver.Resolve(src, fn, nil)
	return fn, res, src
}

func TestResolveGlobalDeclaration(t *testing.T) {
	fn, res, src := resolve(t, `let x = 1;`)
	require.False(t, src.HasErrors())
	let := fn.Body[0].(*ast.Let)
	id := res.Decls[let.ID()]
	require.NotNil(t, id)
	assert.Equal(t, resolver.ScopeGlobal, id.Scope)
	assert.Equal(t, "x", id.Name)
}

func TestResolveLocalInBlock(t *testing.T) {
	fn, res, src := resolve(t, `
fn f() {
	let x = 1;
	x = x + 1;
}
`)
	require.False(t, src.HasErrors())
	f := fn.Body[0].(*ast.Fn)
	let := f.Body[0].(*ast.Let)
	id := res.Decls[let.ID()]
	require.NotNil(t, id)
	assert.Equal(t, resolver.ScopeLocal, id.Scope)
	assert.Equal(t, 0, id.Index)
	assert.False(t, id.Captured)

	assignStmt := f.Body[1].(*ast.ExprStmt).X.(*ast.Binary)
	lhs := assignStmt.Left.(*ast.Identifier)
	use := res.Uses[lhs.ID()]
	require.NotNil(t, use)
	assert.Equal(t, resolver.ScopeLocal, use.Scope)
	assert.Equal(t, 0, use.Index)
}

func TestResolveParamIsLocalSlot(t *testing.T) {
	fn, res, src := resolve(t, `
fn f(a) {
	return a;
}
`)
	require.False(t, src.HasErrors())
	f := fn.Body[0].(*ast.Fn)
	params := res.Params[f.ID()]
	require.Len(t, params, 1)
	assert.Equal(t, resolver.ScopeLocal, params[0].Scope)
	assert.Equal(t, 0, params[0].Index)
}

func TestResolveRedeclarationInSameScopeIsError(t *testing.T) {
	_, _, src := resolve(t, `
fn f() {
	let x = 1;
	let x = 2;
}
`)
	assert.True(t, src.HasErrors())
}

func TestResolveShadowingInNestedBlockIsOK(t *testing.T) {
	_, _, src := resolve(t, `
fn f() {
	let x = 1;
	if true {
		let x = 2;
	}
}
`)
	assert.False(t, src.HasErrors())
}

func TestResolveSingleLevelUpvalue(t *testing.T) {
	fn, res, src := resolve(t, `
fn outer() {
	let x = 1;
	fn inner() {
		return x;
	}
	return inner;
}
`)
	require.False(t, src.HasErrors())
	outer := fn.Body[0].(*ast.Fn)
	letX := outer.Body[0].(*ast.Let)
	innerDecl := outer.Body[1].(*ast.Fn)

	xIdent := res.Decls[letX.ID()]
	require.NotNil(t, xIdent)
	assert.True(t, xIdent.Captured)

	retX := innerDecl.Body[0].(*ast.Return).X.(*ast.Identifier)
	use := res.Uses[retX.ID()]
	require.NotNil(t, use)
	assert.Equal(t, resolver.ScopeUpvalue, use.Scope)

	innerInfo := res.Funcs[innerDecl.ID()]
	require.NotNil(t, innerInfo)
	require.Len(t, innerInfo.Upvalues, 1)
	assert.True(t, innerInfo.Upvalues[0].FromLocal)
	assert.Equal(t, 0, innerInfo.Upvalues[0].Index)
}

func TestResolveTwoLevelUpvalueChain(t *testing.T) {
	fn, res, src := resolve(t, `
fn a() {
	let x = 1;
	fn b() {
		fn c() {
			return x;
		}
		return c;
	}
	return b;
}
`)
	require.False(t, src.HasErrors())
	fnA := fn.Body[0].(*ast.Fn)
	fnB := fnA.Body[1].(*ast.Fn)
	fnC := fnB.Body[0].(*ast.Fn)

	infoB := res.Funcs[fnB.ID()]
	infoC := res.Funcs[fnC.ID()]
	require.Len(t, infoB.Upvalues, 1)
	require.Len(t, infoC.Upvalues, 1)

	// c captures b's upvalue (not a local of b), and b captures a's local x.
	assert.False(t, infoC.Upvalues[0].FromLocal)
	assert.Equal(t, 0, infoC.Upvalues[0].Index)
	assert.True(t, infoB.Upvalues[0].FromLocal)
	assert.Equal(t, 0, infoB.Upvalues[0].Index)
}

func TestResolveDedupsRepeatedCapture(t *testing.T) {
	fn, res, src := resolve(t, `
fn outer() {
	let x = 1;
	fn inner() {
		return x + x;
	}
	return inner;
}
`)
	require.False(t, src.HasErrors())
	outer := fn.Body[0].(*ast.Fn)
	inner := outer.Body[1].(*ast.Fn)
	info := res.Funcs[inner.ID()]
	assert.Len(t, info.Upvalues, 1)
}

func TestResolveArityMismatchIsError(t *testing.T) {
	_, _, src := resolve(t, `
fn add(a, b) {
	return a + b;
}
add(1);
`)
	assert.True(t, src.HasErrors())
}

func TestResolveArityMatchIsOK(t *testing.T) {
	_, _, src := resolve(t, `
fn add(a, b) {
	return a + b;
}
add(1, 2);
`)
	assert.False(t, src.HasErrors())
}

func TestResolveRecursiveCallArityChecksAgainstSelf(t *testing.T) {
	_, _, src := resolve(t, `
fn fact(n) {
	if n < 2 {
		return 1;
	}
	return n * fact(n - 1);
}
`)
	assert.False(t, src.HasErrors())
}

func TestResolveUnknownCalleeArityIsNotStaticallyChecked(t *testing.T) {
	_, _, src := resolve(t, `
fn apply(f) {
	return f(1, 2, 3);
}
`)
	assert.False(t, src.HasErrors())
}

func TestResolveBuiltinArityMismatchIsError(t *testing.T) {
	src := source.New("<test>", `clock(1);`)
	fn := parser.Parse(src)
	require.False(t, src.HasErrors())
	resolver.Resolve(src, fn, map[string]int{"clock": 0})
	assert.True(t, src.HasErrors())
}

func TestResolveUndefinedIdentifierIsError(t *testing.T) {
	_, _, src := resolve(t, `return y;`)
	assert.True(t, src.HasErrors())
}

func TestResolveUndefinedAssignmentTargetIsError(t *testing.T) {
	_, _, src := resolve(t, `y = 1;`)
	assert.True(t, src.HasErrors())
}

func TestResolveForwardReferenceToLaterGlobalIsError(t *testing.T) {
	_, _, src := resolve(t, `
fn a() {
	return b();
}
fn b() {
	return 1;
}
`)
	assert.True(t, src.HasErrors())
}

func TestResolveReferenceToEarlierGlobalIsOK(t *testing.T) {
	_, _, src := resolve(t, `
let x = 1;
fn f() {
	return x;
}
`)
	assert.False(t, src.HasErrors())
}

func TestResolveREPLLineWrappedExprResolvesBothIdentifiers(t *testing.T) {
	src := source.New("<repl>", `let x = 1; x;`)
	fn := parser.ParseREPLLine(src)
	require.False(t, src.HasErrors())

	res := resolver.Resolve(src, fn, map[string]int{"println": 1})
	require.False(t, src.HasErrors())

	stmt := fn.Body[1].(*ast.ExprStmt)
	call := stmt.X.(*ast.Call)
	calleeIdent := call.Callee.(*ast.Identifier)
	argIdent := call.Args[0].(*ast.Identifier)

	calleeUse := res.Uses[calleeIdent.ID()]
	argUse := res.Uses[argIdent.ID()]
	require.NotNil(t, calleeUse)
	require.NotNil(t, argUse)
	assert.Equal(t, "println", calleeUse.Name)
	assert.Equal(t, "x", argUse.Name)
}

func TestResolveBuiltinArityMatchIsOK(t *testing.T) {
	src := source.New("<test>", `println("hi");`)
	fn := parser.Parse(src)
	require.False(t, src.HasErrors())
	resolver.Resolve(src, fn, map[string]int{"println": 1})
	assert.False(t, src.HasErrors())
}
