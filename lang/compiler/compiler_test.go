package compiler_test

import (
	"bytes"
	"testing"

	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/parser"
	"github.com/mna/ember/lang/resolver"
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, text string) *bytecode.FnTemplate {
	t.Helper()
	src := source.New("<test>", text)
	fn := parser.Parse(src)
	require.False(t, src.HasErrors(), "parse errors: %v", src.Diagnostics)
	res := resolver.Resolve(src, fn, nil)
	require.False(t, src.HasErrors(), "resolve errors: %v", src.Diagnostics)
	return compiler.Compile(src, fn, res, value.NewInterner(64))
}

func disasm(t *testing.T, tmpl *bytecode.FnTemplate) string {
	t.Helper()
	var buf bytes.Buffer
	bytecode.Disassemble(&buf, tmpl.Chunk)
	return buf.String()
}

func TestCompileGlobalLetStoresAndPops(t *testing.T) {
	tmpl := compile(t, `let x = 1;`)
	out := disasm(t, tmpl)
	assert.Contains(t, out, "ld1")
	assert.Contains(t, out, "stglobal")
	assert.Contains(t, out, "pop")
}

func TestCompileLocalLetLeavesSlotOnStack(t *testing.T) {
	tmpl := compile(t, `
fn f() {
	let x = 1;
	return x;
}
`)
	require.Len(t, tmpl.Chunk.Constants, 2) // the CLOSURE's nested FnTemplate, then the global name "f"
	inner, ok := tmpl.Chunk.Constants[0].AsObject().(*bytecode.FnTemplate)
	require.True(t, ok)
	out := disasm(t, inner)
	assert.Contains(t, out, "ld1")
	assert.NotContains(t, out, "stloc") // a local's declaration is just the pushed value, no store
	assert.Contains(t, out, "ldloc      0")
	assert.Contains(t, out, "ret")
}

func TestCompileIfElseEmitsBothBranchesAndPatchedJumps(t *testing.T) {
	tmpl := compile(t, `
if true {
	let x = 1;
} else {
	let y = 2;
}
`)
	out := disasm(t, tmpl)
	assert.Contains(t, out, "jmpiffalse")
	assert.Contains(t, out, "jmp ")
	assert.NotContains(t, out, "0000 (invalid jump target)")
}

func TestCompileWhileLoopsBackward(t *testing.T) {
	tmpl := compile(t, `
let i = 0;
while i < 3 {
	i = i + 1;
}
`)
	out := disasm(t, tmpl)
	assert.Contains(t, out, "less")
	assert.Contains(t, out, "jmpiffalse")
	assert.Contains(t, out, "loop")
}

func TestCompileClosureCapturesLocalAsUpvalue(t *testing.T) {
	// x lives in a nested block, not the function's own top-level
	// scope, so its capture is closed explicitly (CLOSEUPVAL) when the
	// block's scope ends, rather than implicitly by RET truncating the
	// whole frame.
	tmpl := compile(t, `
fn outer() {
	if true {
		let x = 1;
		fn inner() {
			return x;
		}
		return inner;
	}
	return 0;
}
`)
	outer, ok := tmpl.Chunk.Constants[0].AsObject().(*bytecode.FnTemplate)
	require.True(t, ok)
	out := disasm(t, outer)
	assert.Contains(t, out, "closure")
	assert.Contains(t, out, "closeupval")

	var inner *bytecode.FnTemplate
	for _, k := range outer.Chunk.Constants {
		if tpl, ok := k.AsObject().(*bytecode.FnTemplate); ok {
			inner = tpl
		}
	}
	require.NotNil(t, inner)
	innerOut := disasm(t, inner)
	assert.Contains(t, innerOut, "ldupval    0")
}

func TestCompileCompoundAssignLoadsOpStores(t *testing.T) {
	tmpl := compile(t, `
fn f(n) {
	n += 1;
	return n;
}
`)
	inner, ok := tmpl.Chunk.Constants[0].AsObject().(*bytecode.FnTemplate)
	require.True(t, ok)
	out := disasm(t, inner)
	assert.Contains(t, out, "ldloc      0")
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "stloc      0")
}

func TestCompileCallEmitsArgsThenCalleeThenCALLI(t *testing.T) {
	tmpl := compile(t, `
fn add(a, b) {
	return a + b;
}
add(1, 2);
`)
	out := disasm(t, tmpl)
	assert.Contains(t, out, "ld1")
	assert.Contains(t, out, "calli      2")
}

func TestCompileReturnLiteralZeroAndOneUseDedicatedOpcodes(t *testing.T) {
	tmpl := compile(t, `
fn zero() {
	return 0;
}
fn one() {
	return 1;
}
`)
	zero, ok := tmpl.Chunk.Constants[0].AsObject().(*bytecode.FnTemplate)
	require.True(t, ok)
	// Constants[1] is the global name "zero" that STGLOBAL stores under.
	one, ok := tmpl.Chunk.Constants[2].AsObject().(*bytecode.FnTemplate)
	require.True(t, ok)
	assert.Contains(t, disasm(t, zero), "ret0")
	assert.Contains(t, disasm(t, one), "ret1")
}

func TestCompileStringLiteralsShareOneInternedConstant(t *testing.T) {
	tmpl := compile(t, `
let a = "hi";
let b = "hi";
`)
	var hiCount int
	for _, k := range tmpl.Chunk.Constants {
		if s, ok := k.AsObject().(*value.Str); ok && s.S == "hi" {
			hiCount++
		}
	}
	assert.Equal(t, 1, hiCount)
}
