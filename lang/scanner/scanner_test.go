package scanner_test

import (
	"testing"

	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string, *source.Source) {
	t.Helper()
	s := source.New("<test>", src)
	var sc scanner.Scanner
	sc.Init(s)

	var toks []token.Token
	var lits []string
	for {
		tok, lit, _ := sc.Scan()
		toks = append(toks, tok)
		lits = append(lits, lit)
		if tok == token.EOF {
			break
		}
	}
	return toks, lits, s
}

func TestScanBasics(t *testing.T) {
	toks, lits, src := scanAll(t, `let x = 1.5; // comment
fn f(a, b) { return a + b; }`)
	require.False(t, src.HasErrors())

	want := []token.Token{
		token.LET, token.IDENT, token.EQ, token.NUMBER, token.SEMI,
		token.FN, token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.LBRACE, token.RETURN, token.IDENT, token.PLUS, token.IDENT, token.SEMI, token.RBRACE,
		token.EOF,
	}
	assert.Equal(t, want, toks)
	assert.Equal(t, "1.5", lits[3])
}

func TestScanOperators(t *testing.T) {
	toks, _, src := scanAll(t, `== != <= >= += -= *= /= < > = + - * /`)
	require.False(t, src.HasErrors())
	want := []token.Token{
		token.EQEQ, token.BANGEQ, token.LE, token.GE,
		token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.LT, token.GT, token.EQ, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.EOF,
	}
	assert.Equal(t, want, toks)
}

func TestScanString(t *testing.T) {
	toks, lits, src := scanAll(t, `"hello world"`)
	require.False(t, src.HasErrors())
	assert.Equal(t, []token.Token{token.STRING, token.EOF}, toks)
	assert.Equal(t, "hello world", lits[0])
}

func TestScanUnterminatedString(t *testing.T) {
	_, _, src := scanAll(t, `"oops`)
	assert.True(t, src.HasErrors())
}

func TestScanIllegalCharacter(t *testing.T) {
	_, _, src := scanAll(t, `@`)
	assert.True(t, src.HasErrors())
}

func TestScanKeywords(t *testing.T) {
	toks, _, src := scanAll(t, `let fn return if else while true false`)
	require.False(t, src.HasErrors())
	want := []token.Token{
		token.LET, token.FN, token.RETURN, token.IF, token.ELSE, token.WHILE, token.TRUE, token.FALSE,
		token.EOF,
	}
	assert.Equal(t, want, toks)
}

func TestNumberValue(t *testing.T) {
	assert.Equal(t, 1.5, scanner.NumberValue("1.5"))
	assert.Equal(t, 0.5, scanner.NumberValue(".5"))
	assert.Equal(t, 2.0, scanner.NumberValue("2."))
	assert.Equal(t, 0.0, scanner.NumberValue("0"))
}
