// Package machine implements the stack VM that executes compiled
// ember chunks, per spec.md §4.5: the fetch-decode-execute loop, the
// call-frame stack, and the open/closed upvalue cell machinery that
// gives closures shared-by-reference semantics.
//
// Thread's shape -- exported tunables (MaxSteps, MaxCallDepth),
// lazy init(), a single long-lived value stack -- is grounded on the
// teacher's lang/machine/thread.go Thread type. Two things are
// deliberately not carried over: Thread here owns one fixed-capacity
// []value.Value array for the entire run instead of allocating a
// fresh locals+operand slice per call (see lang/value/cell.go's
// invariant: a Cell aliases a raw slice header, so the backing array
// must never move), and the call-frame stack is walked by a single
// flat loop instead of one Go-level recursive call per CALLI (the
// classic "crafting interpreters" clox structure referenced in
// lang/resolver's package doc), so ember's own call depth is bounded
// by MaxCallDepth rather than by the host's goroutine stack.
package machine

import (
	"io"
	"os"

	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/value"
)

const (
	defaultStackSize    = 1 << 14 // value slots
	defaultMaxCallDepth = 1000
)

// Thread is one independent execution context: its own value stack,
// call-frame stack, open-upvalue list and global table. A Thread may
// run more than one top-level chunk in sequence (the REPL's use
// case), with Globals persisting across runs.
type Thread struct {
	// Globals is the name-keyed table backing LDGLOBAL/STGLOBAL (see
	// DESIGN.md's note on ember's map-based alternative to spec.md §9's
	// stack-resident globals). Native functions are registered here
	// before the first Run.
	Globals map[string]value.Value

	// MaxSteps bounds the number of instructions a single Run executes
	// before it fails with a RuntimeError, guarding against runaway
	// scripts. <= 0 means no limit.
	MaxSteps int
	// MaxCallDepth bounds the call-frame stack depth. <= 0 means the
	// package default (defaultMaxCallDepth).
	MaxCallDepth int
	// StackSize sets the value stack's fixed capacity, chosen once on
	// first use. <= 0 means the package default (defaultStackSize).
	StackSize int

	// Interner dedupes strings produced at runtime by `+` concatenation
	// so they share storage with compile-time string literals. Should
	// be set to the same Interner the compiler used for this program;
	// a private one is created on first use if left nil.
	Interner *value.Interner

	// Stdout is where the `print`/`println` natives write, so a host
	// embedding ember through internal/maincmd's mainer.Stdio plumbing
	// sees script output on the same writer as everything else. Defaults
	// to os.Stdout if left nil.
	Stdout io.Writer

	stack  []value.Value
	sp     int
	frames []frame

	// openCells holds every currently-open upvalue cell, per spec.md
	// §4.5's "at most one open cell per stack index" invariant; CLOSURE
	// searches it before creating a new cell, CLOSEUPVAL and a frame
	// return prune it.
	openCells []*value.Cell

	steps int
	ready bool
}

func (th *Thread) init() {
	if th.ready {
		return
	}
	size := th.StackSize
	if size <= 0 {
		size = defaultStackSize
	}
	th.stack = make([]value.Value, size)
	if th.Globals == nil {
		th.Globals = make(map[string]value.Value)
	}
	if th.Interner == nil {
		th.Interner = value.NewInterner(64)
	}
	if th.Stdout == nil {
		th.Stdout = os.Stdout
	}
	th.ready = true
}

func (th *Thread) interner() *value.Interner {
	th.init()
	return th.Interner
}

func (th *Thread) maxCallDepth() int {
	if th.MaxCallDepth <= 0 {
		return defaultMaxCallDepth
	}
	return th.MaxCallDepth
}

// StackLen returns the current operand-stack length, for the REPL's
// snapshot-before-evaluate / restore-on-error discipline (spec.md §7).
func (th *Thread) StackLen() int { return th.sp }

// Restore truncates the stack back to n and drops any live call
// frames, per spec.md §7's "REPL snapshots the VM stack before each
// evaluation and restores it on runtime error, so a failed line does
// not corrupt the global environment." Globals already written before
// the failure are deliberately left in place.
//
// Any open cell aliasing a slot >= n is closed first, the same as a
// normal RET would at that frame base: a closure that escaped to a
// global before the error (e.g. via an assignment) keeps its captured
// value instead of being left open over a stack slot the next REPL
// line is about to overwrite.
func (th *Thread) Restore(n int) {
	th.closeCellsFrom(n)
	th.sp = n
	th.frames = th.frames[:0]
}

func (th *Thread) push(v value.Value) bool {
	if th.sp >= len(th.stack) {
		return false
	}
	th.stack[th.sp] = v
	th.sp++
	return true
}

func (th *Thread) pop() value.Value {
	th.sp--
	return th.stack[th.sp]
}

func (th *Thread) peek() value.Value {
	return th.stack[th.sp-1]
}

// findOrCreateOpenCell returns the open cell aliasing stack slot slot,
// creating and registering one if none exists yet, per spec.md §4.5's
// CLOSURE instruction semantics and the dedupe invariant.
func (th *Thread) findOrCreateOpenCell(slot int) *value.Cell {
	for _, c := range th.openCells {
		if c.IsOpen() && c.Slot() == slot {
			return c
		}
	}
	c := value.NewOpenCell(th.stack, slot)
	th.openCells = append(th.openCells, c)
	return c
}

// closeCellsFrom closes every open cell aliasing a slot >= base and
// drops it from openCells, per spec.md §4.5's RET semantics ("for
// every stack slot in [frame_base, stack.len()) close any open
// upvalue aliased there").
func (th *Thread) closeCellsFrom(base int) {
	kept := th.openCells[:0]
	for _, c := range th.openCells {
		if c.IsOpen() && c.Slot() >= base {
			c.Close()
			continue
		}
		kept = append(kept, c)
	}
	th.openCells = kept
}

// closeCellAt closes the (at most one, per the dedupe invariant) open
// cell aliasing exactly slot, for CLOSEUPVAL, and drops it from
// openCells -- same cleanup as closeCellsFrom, so a long-running
// Thread doesn't accumulate one dead, already-closed entry per
// CLOSEUPVAL for its whole lifetime.
func (th *Thread) closeCellAt(slot int) {
	for i, c := range th.openCells {
		if c.IsOpen() && c.Slot() == slot {
			c.Close()
			th.openCells = append(th.openCells[:i], th.openCells[i+1:]...)
			return
		}
	}
}

// Run executes tmpl as a fresh top-level call and returns its result,
// per spec.md §4.4's "top-level function's body falls through to
// end-of-chunk; the VM treats running off the end as returning 0".
// Globals and any previously-registered native functions persist
// across repeated calls to Run on the same Thread (the REPL's use
// case); the operand stack and call-frame stack do not.
func (th *Thread) Run(tmpl *bytecode.FnTemplate) (value.Value, error) {
	th.init()
	th.steps = 0
	cl := &Closure{Template: tmpl}
	th.frames = append(th.frames, frame{closure: cl, ip: 0, frameBase: th.sp})
	return th.loop()
}
