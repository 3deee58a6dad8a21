package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/builtins"
	"github.com/mna/ember/internal/config"
	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/machine"
)

// Run compiles and executes a single script file, per spec.md §6's
// "with one argument, treat it as a script path, read UTF-8,
// interpret" CLI contract.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cr, err := compileFile(stdio, args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return printError(stdio, err)
	}

	if cfg.TraceExec {
		bytecode.Disassemble(stdio.Stdout, cr.tmpl.Chunk)
	}

	th := &machine.Thread{
		MaxSteps:     cfg.MaxSteps,
		MaxCallDepth: cfg.MaxCallDepth,
		Interner:     cr.interner,
		Stdout:       stdio.Stdout,
	}
	builtins.Register(th)

	if _, err := th.Run(cr.tmpl); err != nil {
		return printError(stdio, err)
	}
	return nil
}
