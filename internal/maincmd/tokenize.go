package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
)

// Tokenize runs only the scanner phase (spec.md §1's "lexer... treated
// as an external collaborator" debug aid, carried over from the
// teacher's own tokenize command) and prints one token per line.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := readSource(stdio, args[0])
	if err != nil {
		return err
	}

	var sc scanner.Scanner
	sc.Init(src)
	for {
		tok, lit, span := sc.Scan()
		fmt.Fprintf(stdio.Stdout, "%d..%d: %s", span.Start, span.End, tok)
		if lit != "" && tok != token.ILLEGAL {
			fmt.Fprintf(stdio.Stdout, " %q", lit)
		}
		fmt.Fprintln(stdio.Stdout)
		if tok == token.EOF {
			break
		}
	}

	if src.HasErrors() {
		printDiagnostics(stdio, src)
		return fmt.Errorf("%s: tokenize failed", args[0])
	}
	return nil
}
