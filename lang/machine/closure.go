package machine

import (
	"fmt"

	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/value"
)

// Closure is the runtime pairing of a compile-time FnTemplate with the
// upvalue cells it closed over, per spec.md §3's "Closure: {template,
// upvalues: shared array of Upvalue cells}". Built by the CLOSURE
// instruction; the only callable value a CALLI may invoke besides a
// NativeFn.
type Closure struct {
	Template *bytecode.FnTemplate
	Upvalues []*value.Cell
}

func (c *Closure) Type() string   { return "function" }
func (c *Closure) String() string { return fmt.Sprintf("<fn %s>", c.Template.Name) }

// NativeFn wraps a host-provided function so it can occupy a global
// and be invoked by CALLI exactly like a Closure, per spec.md §6's
// "host may register native functions {name, arity, handler}".
type NativeFn struct {
	Name  string
	Arity int
	Fn    func(th *Thread, args []value.Value) (value.Value, error)
}

func (n *NativeFn) Type() string   { return "native function" }
func (n *NativeFn) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }

var (
	_ value.Object = (*Closure)(nil)
	_ value.Object = (*NativeFn)(nil)
)
