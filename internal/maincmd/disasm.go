package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/ember/lang/bytecode"
)

// Disasm compiles a script through the full pipeline and prints its
// disassembled bytecode, per SPEC_FULL.md §6's "disasm CLI command
// prints a chunk's disassembly in the lang/bytecode package's
// Disassemble format."
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cr, err := compileFile(stdio, args[0])
	if err != nil {
		return err
	}
	bytecode.Disassemble(stdio.Stdout, cr.tmpl.Chunk)
	return nil
}
