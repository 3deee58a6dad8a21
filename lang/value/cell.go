package value

// Cell is a captured local variable, in one of the two states
// spec.md §4.5 requires: Open, still living on its owning frame's
// value stack (so writes from the owning frame are visible to every
// closure that captured it, and vice versa), or Closed, holding its
// own copy after the frame that declared it returned.
//
// The VM's value stack is a fixed-capacity array allocated once per
// thread (lang/machine), so an Open Cell's Stack/Slot pair stays valid
// for the lifetime of the frame regardless of further pushes --
// there is no reallocation to invalidate it, only Close, which the VM
// calls exactly once, when the declaring scope exits.
type Cell struct {
	open  bool
	stack []Value // shared backing array of the owning thread's value stack
	slot  int     // absolute index into stack, valid only while open
	value Value   // the boxed value, valid only once closed
}

// NewOpenCell returns a Cell aliasing stack[slot]. stack must be the
// thread's actual backing array (not a copy), and outlive the Cell
// until Close is called.
func NewOpenCell(stack []Value, slot int) *Cell {
	return &Cell{open: true, stack: stack, slot: slot}
}

func (c *Cell) Get() Value {
	if c.open {
		return c.stack[c.slot]
	}
	return c.value
}

func (c *Cell) Set(v Value) {
	if c.open {
		c.stack[c.slot] = v
		return
	}
	c.value = v
}

// Slot returns the stack slot this cell aliases while open, used by
// the VM to find cells that alias a given frame's locals when closing
// a scope.
func (c *Cell) Slot() int    { return c.slot }
func (c *Cell) IsOpen() bool { return c.open }

// Close copies the current stack value into the cell and detaches it
// from the stack; subsequent Get/Set operate on the private copy.
func (c *Cell) Close() {
	if !c.open {
		return
	}
	c.value = c.stack[c.slot]
	c.open = false
	c.stack = nil
}
