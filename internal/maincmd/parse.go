package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/parser"
)

// Parse runs the scanner+parser phases and prints the resulting AST,
// per spec.md §1's lexer/parser external-collaborator boundary --
// carried over from the teacher's own parse command as a debug aid.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := readSource(stdio, args[0])
	if err != nil {
		return err
	}

	fn := parser.Parse(src)
	ast.Print(stdio.Stdout, fn)

	if src.HasErrors() {
		printDiagnostics(stdio, src)
		return fmt.Errorf("%s: parse failed", args[0])
	}
	return nil
}
