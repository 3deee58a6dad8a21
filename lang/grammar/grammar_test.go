package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF validates that ember.ebnf is itself well-formed: every
// production is reachable from Program and every referenced name is
// defined. This keeps the grammar transcription in this file honest
// against spec.md §6 as the grammar evolves.
func TestEBNF(t *testing.T) {
	const filename = "ember.ebnf"

	f, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse(filename, f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
