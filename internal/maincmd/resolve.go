package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/builtins"
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/parser"
	"github.com/mna/ember/lang/resolver"
)

// Resolve runs the scanner+parser+resolver phases, printing the AST
// followed by a flat listing of every resolved identifier -- a debug
// aid carried over from the teacher's own resolve command, since
// lang/resolver has no printer of its own (its Result is a set of
// plain side tables, not a tree).
func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := readSource(stdio, args[0])
	if err != nil {
		return err
	}

	fn := parser.Parse(src)
	if src.HasErrors() {
		printDiagnostics(stdio, src)
		return fmt.Errorf("%s: parse failed", args[0])
	}

	res := resolver.Resolve(src, fn, builtins.Arities())
	ast.Print(stdio.Stdout, fn)

	fmt.Fprintln(stdio.Stdout, "\nresolved identifiers:")
	printIdents(stdio, "decl", res.Decls)
	printIdents(stdio, "use", res.Uses)
	printIdents(stdio, "fn-self", res.FnSelf)

	if src.HasErrors() {
		printDiagnostics(stdio, src)
		return fmt.Errorf("%s: resolve failed", args[0])
	}
	return nil
}

func printIdents(stdio mainer.Stdio, label string, m map[ast.ID]*resolver.Ident) {
	for id, ident := range m {
		captured := ""
		if ident.Captured {
			captured = " captured"
		}
		fmt.Fprintf(stdio.Stdout, "  [%s #%d] %s: %s(%d)%s\n", label, id, ident.Name, ident.Scope, ident.Index, captured)
	}
}
