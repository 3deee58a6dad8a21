package bytecode

import "fmt"

// FnTemplate is the compile-time function object spec.md §3 describes:
// name, arity, compiled chunk, and the number of upvalue cells any
// Closure built from it needs. It lives in the enclosing chunk's
// constant pool and is never itself callable -- only a Closure wrapping
// it (built by the CLOSURE instruction, see lang/machine) is.
type FnTemplate struct {
	Name         string
	Arity        int
	Chunk        *Chunk
	UpvalueCount int
}

func (f *FnTemplate) Type() string   { return "function template" }
func (f *FnTemplate) String() string { return fmt.Sprintf("<fn template %s>", f.Name) }
