package maincmd

import (
	"bytes"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"

	"github.com/mna/ember/internal/builtins"
	"github.com/mna/ember/lang/machine"
	"github.com/mna/ember/lang/value"
)

// TestEvalReplLineGlobalPersistsAcrossLines exercises the REPL's
// cross-line resolve state directly: a `let` global declared on one
// line must resolve on a later line even though it carries no
// statically-known call arity, per DESIGN.md's resolved open question
// 7 on undefined identifiers.
func TestEvalReplLineGlobalPersistsAcrossLines(t *testing.T) {
	interner := value.NewInterner(64)
	th := &machine.Thread{Interner: interner}
	builtins.Register(th)
	knownArities := builtins.Arities()

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
	var c Cmd

	c.evalReplLine(stdio, th, interner, knownArities, "let x = 41;")
	assert.Empty(t, ebuf.String())

	c.evalReplLine(stdio, th, interner, knownArities, "x + 1;")
	assert.Empty(t, ebuf.String(), "a later line must still resolve an earlier let-global")
}

// TestEvalReplLineFailedLetDoesNotRegisterGlobal confirms a `let`
// whose initializer raises a runtime error does not make its name
// resolvable in a later line, since th.Globals never actually gained
// an entry for it.
func TestEvalReplLineFailedLetDoesNotRegisterGlobal(t *testing.T) {
	interner := value.NewInterner(64)
	th := &machine.Thread{Interner: interner}
	builtins.Register(th)
	knownArities := builtins.Arities()

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
	var c Cmd

	c.evalReplLine(stdio, th, interner, knownArities, `let x = 1 + "a";`)
	assert.NotEmpty(t, ebuf.String())

	ebuf.Reset()
	c.evalReplLine(stdio, th, interner, knownArities, "x;")
	assert.Contains(t, ebuf.String(), "cannot resolve symbol")
}

// TestEvalReplLineUndefinedNameIsReported confirms an identifier that
// was never declared on any line is reported as a resolution error
// rather than silently treated as an unknown global.
func TestEvalReplLineUndefinedNameIsReported(t *testing.T) {
	interner := value.NewInterner(64)
	th := &machine.Thread{Interner: interner}
	builtins.Register(th)
	knownArities := builtins.Arities()

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
	var c Cmd

	c.evalReplLine(stdio, th, interner, knownArities, "neverDeclared;")
	assert.Contains(t, ebuf.String(), "cannot resolve symbol")
}
