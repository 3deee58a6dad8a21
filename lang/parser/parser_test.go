package parser_test

import (
	"testing"

	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/parser"
	"github.com/mna/ember/lang/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, text string) (*ast.Fn, *source.Source) {
	t.Helper()
	src := source.New("<test>", text)
	return parser.Parse(src), src
}

func TestParseLetAndExprStmt(t *testing.T) {
	fn, src := parse(t, `let x = 1 + 2 * 3;`)
	require.False(t, src.HasErrors())
	require.Len(t, fn.Body, 1)

	let, ok := fn.Body[0].(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, "x", let.Name)

	bin, ok := let.Initializer.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

func TestParseOperatorPrecedence(t *testing.T) {
	fn, src := parse(t, `a = b + c * d;`)
	require.False(t, src.HasErrors())
	require.Len(t, fn.Body, 1)

	assign := fn.Body[0].(*ast.ExprStmt).X.(*ast.Binary)
	assert.Equal(t, ast.OpAssign, assign.Op)
	add := assign.Right.(*ast.Binary)
	assert.Equal(t, ast.OpAdd, add.Op)
	mul := add.Right.(*ast.Binary)
	assert.Equal(t, ast.OpMul, mul.Op)
}

func TestParseRightAssociativeAssignment(t *testing.T) {
	fn, src := parse(t, `a = b = c;`)
	require.False(t, src.HasErrors())
	outer := fn.Body[0].(*ast.ExprStmt).X.(*ast.Binary)
	assert.Equal(t, ast.OpAssign, outer.Op)
	assert.Equal(t, "a", outer.Left.(*ast.Identifier).Name)
	inner, ok := outer.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpAssign, inner.Op)
	assert.Equal(t, "b", inner.Left.(*ast.Identifier).Name)
}

func TestParseLeftAssociativeSubtraction(t *testing.T) {
	fn, src := parse(t, `a - b - c;`)
	require.False(t, src.HasErrors())
	top := fn.Body[0].(*ast.ExprStmt).X.(*ast.Binary)
	assert.Equal(t, ast.OpSub, top.Op)
	assert.Equal(t, "c", top.Right.(*ast.Identifier).Name)
	left, ok := top.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpSub, left.Op)
}

func TestParseUnaryBindsTighterThanBinary(t *testing.T) {
	fn, src := parse(t, `-a + b;`)
	require.False(t, src.HasErrors())
	top := fn.Body[0].(*ast.ExprStmt).X.(*ast.Binary)
	assert.Equal(t, ast.OpAdd, top.Op)
	_, ok := top.Left.(*ast.Unary)
	assert.True(t, ok)
}

func TestParseCallBindsTighterThanUnary(t *testing.T) {
	fn, src := parse(t, `-f();`)
	require.False(t, src.HasErrors())
	u := fn.Body[0].(*ast.ExprStmt).X.(*ast.Unary)
	assert.Equal(t, ast.OpNeg, u.Op)
	_, ok := u.Arg.(*ast.Call)
	assert.True(t, ok)
}

func TestParseFnDeclAndIfWhileReturn(t *testing.T) {
	fn, src := parse(t, `
fn add(a, b) {
	if a < b {
		return b;
	} else {
		return a;
	}
}
while true {
	add(1, 2);
}
`)
	require.False(t, src.HasErrors())
	require.Len(t, fn.Body, 2)

	decl := fn.Body[0].(*ast.Fn)
	assert.Equal(t, "add", decl.Name)
	assert.Equal(t, []string{"a", "b"}, decl.Params)
	require.Len(t, decl.Body, 1)
	ifStmt := decl.Body[0].(*ast.IfElse)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)

	loop := fn.Body[1].(*ast.While)
	require.Len(t, loop.Body, 1)
}

func TestParseErrorRecoveryContinuesAfterBadStatement(t *testing.T) {
	fn, src := parse(t, `let x = ; let y = 2;`)
	assert.True(t, src.HasErrors())
	require.Len(t, fn.Body, 2)
	second, ok := fn.Body[1].(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, "y", second.Name)
}

func TestParseInvalidAssignmentTargetIsReported(t *testing.T) {
	_, src := parse(t, `1 + 2 = 3;`)
	assert.True(t, src.HasErrors())
}

func TestParseREPLLineWrapsTrailingExpr(t *testing.T) {
	src := source.New("<repl>", `1 + 2;`)
	fn := parser.ParseREPLLine(src)
	require.Len(t, fn.Body, 1)
	stmt := fn.Body[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "println", call.Callee.(*ast.Identifier).Name)
	require.Len(t, call.Args, 1)
}

func TestParseREPLLineDoesNotWrapLetDecl(t *testing.T) {
	src := source.New("<repl>", `let x = 1;`)
	fn := parser.ParseREPLLine(src)
	require.Len(t, fn.Body, 1)
	_, ok := fn.Body[0].(*ast.Let)
	assert.True(t, ok)
}

// TestParseREPLLineSyntheticNodesDontCollideWithRealOnes guards
// against the synthetic println/Call wrapper drawing IDs from a fresh
// generator that restarts at the same sequence as the real parse: if
// it did, the wrapper's Identifier and the user's own trailing
// expression could share an ast.ID, corrupting resolver.Result's
// ID-keyed side tables.
func TestParseREPLLineSyntheticNodesDontCollideWithRealOnes(t *testing.T) {
	src := source.New("<repl>", `x;`)
	fn := parser.ParseREPLLine(src)
	require.False(t, src.HasErrors())
	require.Len(t, fn.Body, 1)
	stmt := fn.Body[0].(*ast.ExprStmt)
	call := stmt.X.(*ast.Call)
	calleeID := call.Callee.(*ast.Identifier).ID()
	argID := call.Args[0].(*ast.Identifier).ID()
	assert.NotEqual(t, calleeID, argID, "synthetic println callee must not share an ID with the wrapped expression")
}
