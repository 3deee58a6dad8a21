// Command ember is the compiler, VM and REPL entry point for the
// ember scripting language (spec.md §6's CLI surface), dispatching to
// internal/maincmd exactly as the teacher's cmd/nenuphar/main.go
// dispatches to its own internal/maincmd.
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/maincmd"
)

var (
	// placeholder values, replaced on build
	version   = "{v}" // must be N.N[.N]
	buildDate = "{d}" // must be YYYY-mm-DD
)

func main() {
	c := maincmd.Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
