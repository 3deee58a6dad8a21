package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/builtins"
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/parser"
	"github.com/mna/ember/lang/resolver"
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/value"
)

// readSource loads path's content into a *source.Source, or returns
// an error already printed to stdio.Stderr.
func readSource(stdio mainer.Stdio, path string) (*source.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, printError(stdio, fmt.Errorf("%s: %w", path, err))
	}
	return source.New(path, string(data)), nil
}

// printDiagnostics renders every accumulated diagnostic on src to
// stdio.Stderr, per spec.md §7's driver contract: checked after each
// compile phase, refusing to run anything a diagnostic was reported
// against.
func printDiagnostics(stdio mainer.Stdio, src *source.Source) {
	for _, d := range src.Diagnostics {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", src.Name, d)
	}
}

// compileResult bundles everything downstream commands (run, disasm)
// need after a successful parse+resolve+compile pipeline.
type compileResult struct {
	src      *source.Source
	fn       *ast.Fn
	res      *resolver.Result
	tmpl     *bytecode.FnTemplate
	interner *value.Interner
}

// compileFile runs the full front-to-back pipeline on path: parse,
// resolve (seeded with internal/builtins' registered arities per
// spec.md §6), then emit. Diagnostics from any phase are printed and
// cause a nil result with a non-nil error, per spec.md §7: later
// phases never run once an earlier one recorded a diagnostic.
func compileFile(stdio mainer.Stdio, path string) (*compileResult, error) {
	src, err := readSource(stdio, path)
	if err != nil {
		return nil, err
	}

	fn := parser.Parse(src)
	if src.HasErrors() {
		printDiagnostics(stdio, src)
		return nil, fmt.Errorf("%s: parse failed", path)
	}

	res := resolver.Resolve(src, fn, builtins.Arities())
	if src.HasErrors() {
		printDiagnostics(stdio, src)
		return nil, fmt.Errorf("%s: resolve failed", path)
	}

	interner := value.NewInterner(64)
	tmpl := compiler.Compile(src, fn, res, interner)
	return &compileResult{src: src, fn: fn, res: res, tmpl: tmpl, interner: interner}, nil
}
