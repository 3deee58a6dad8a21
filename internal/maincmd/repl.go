package maincmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/mna/mainer"

	"github.com/mna/ember/internal/builtins"
	"github.com/mna/ember/internal/config"
	"github.com/mna/ember/lang/ast"
	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/machine"
	"github.com/mna/ember/lang/parser"
	"github.com/mna/ember/lang/resolver"
	"github.com/mna/ember/lang/source"
	"github.com/mna/ember/lang/value"
)

const replBanner = "ember REPL -- Ctrl-D to exit\n"

// Repl runs an interactive read-eval-print loop over one persistent
// machine.Thread, per spec.md §7: "the REPL additionally snapshots the
// VM stack before each evaluation and restores it on runtime error, so
// a failed line does not corrupt the global environment." Globals
// (and hence user-declared functions) persist across lines because
// they live in th.Globals, not on the operand stack (DESIGN.md's
// resolution of spec.md §9's global-storage open question).
//
// Line editing and history use github.com/chzyer/readline, adopted
// from the informatter-nilan example repo's REPL; whether to print
// the banner at all is decided with github.com/mattn/go-isatty so a
// piped, non-interactive stdin (e.g. in a test harness) gets no
// extraneous output, matching funvibe-funxy's use of the same package
// for output suppression.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return printError(stdio, err)
	}

	interner := value.NewInterner(64)
	th := &machine.Thread{
		MaxSteps:     cfg.MaxSteps,
		MaxCallDepth: cfg.MaxCallDepth,
		Interner:     interner,
		Stdout:       stdio.Stdout,
	}
	builtins.Register(th)

	// knownArities seeds every resolve pass with the builtins plus
	// every top-level `fn` and `let` a prior line stored (a `let` with
	// unknown arity -1), so later lines can resolve those names and a
	// mis-arity call to a known `fn` is still caught as a resolution
	// diagnostic instead of only at runtime (SPEC_FULL.md §3's
	// supplemental check).
	knownArities := builtins.Arities()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	if interactive {
		io.WriteString(stdio.Stdout, replBanner)
	}

	rl, err := readline.New("ember> ")
	if err != nil {
		return printError(stdio, err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return printError(stdio, err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		c.evalReplLine(stdio, th, interner, knownArities, line)
	}
	return nil
}

// evalReplLine compiles and runs one line of input against th,
// printing any diagnostic or runtime error instead of propagating it
// -- a failed line ends that line's evaluation, not the REPL session.
func (c *Cmd) evalReplLine(stdio mainer.Stdio, th *machine.Thread, interner *value.Interner, knownArities map[string]int, line string) {
	mark := th.StackLen()

	src := source.New("<repl>", line)
	fn := parser.ParseREPLLine(src)
	if src.HasErrors() {
		printDiagnostics(stdio, src)
		return
	}

	res := resolver.Resolve(src, fn, knownArities)
	if src.HasErrors() {
		printDiagnostics(stdio, src)
		return
	}

	tmpl := compiler.Compile(src, fn, res, interner)
	_, runErr := th.Run(tmpl)
	if runErr != nil {
		th.Restore(mark)
	}

	// Checked against th.Globals rather than runErr alone: a line with
	// several top-level declarations where a later statement fails at
	// runtime still leaves the earlier ones' STGLOBAL writes in place,
	// and only those should become resolvable to a later line.
	for _, s := range fn.Body {
		switch decl := s.(type) {
		case *ast.Fn:
			if _, ok := th.Globals[decl.Name]; ok {
				knownArities[decl.Name] = len(decl.Params)
			}
		case *ast.Let:
			// Recorded with an unknown arity (-1) rather than omitted: a
			// bare `let` global still exists for a later line's resolve
			// pass to find, even though it is not statically known to
			// hold a callable value.
			if _, ok := th.Globals[decl.Name]; ok {
				if _, seen := knownArities[decl.Name]; !seen {
					knownArities[decl.Name] = -1
				}
			}
		}
	}

	if runErr != nil {
		printError(stdio, runErr)
	}
}
