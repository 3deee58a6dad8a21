// Package builtins registers ember's native functions: the concrete
// instance of spec.md §6's "host may register native functions
// {name, arity, handler}" mechanism, and SPEC_FULL.md §3's supplement
// restoring the original Rust source's builtin set
// (original_source/ella/src/builtin_functions.rs: print, println,
// assert, assert_eq, clock) plus a `num` string-to-number native
// (the original's `to_number`/`parse_num`).
package builtins

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mna/ember/lang/machine"
	"github.com/mna/ember/lang/value"
)

// entry is one native function's registration triple, per spec.md
// §6: a name, an arity, and a host-callable handler.
type entry struct {
	name  string
	arity int
	fn    func(th *machine.Thread, args []value.Value) (value.Value, error)
}

var registry = []entry{
	{"print", 1, builtinPrint},
	{"println", 1, builtinPrintln},
	{"assert", 1, builtinAssert},
	{"assert_eq", 2, builtinAssertEq},
	{"clock", 0, builtinClock},
	{"num", 1, builtinNum},
}

// Arities returns the name->arity map lang/resolver.Resolve needs to
// walk the registration list and seed the global scope with each
// native's name and known arity (spec.md §6).
func Arities() map[string]int {
	m := make(map[string]int, len(registry))
	for _, e := range registry {
		m[e.name] = e.arity
	}
	return m
}

// Register installs every native function into th.Globals, where
// LDGLOBAL/STGLOBAL (lang/machine's map-based alternative to spec.md
// §9's stack-resident globals) will find them by name.
func Register(th *machine.Thread) {
	if th.Globals == nil {
		th.Globals = make(map[string]value.Value, len(registry))
	}
	for _, e := range registry {
		th.Globals[e.name] = value.NewObject(&machine.NativeFn{Name: e.name, Arity: e.arity, Fn: e.fn})
	}
}

func builtinPrint(th *machine.Thread, args []value.Value) (value.Value, error) {
	io.WriteString(th.Stdout, args[0].String())
	return value.NewBool(true), nil
}

func builtinPrintln(th *machine.Thread, args []value.Value) (value.Value, error) {
	fmt.Fprintln(th.Stdout, args[0].String())
	return value.NewBool(true), nil
}

// builtinAssert implements the original's `assert`: it only inspects
// a Bool argument, and is a no-op (still returns true) for any other
// value, matching original_source/ella/src/builtin_functions.rs's
// `match arg { Value::Bool(val) => assert!(*val), _ => {} }`.
func builtinAssert(th *machine.Thread, args []value.Value) (value.Value, error) {
	if args[0].IsBool() && !args[0].AsBool() {
		return value.NilValue, &machine.RuntimeError{Message: "assertion failed"}
	}
	return value.NewBool(true), nil
}

func builtinAssertEq(th *machine.Thread, args []value.Value) (value.Value, error) {
	if !args[0].Equal(args[1]) {
		return value.NilValue, &machine.RuntimeError{
			Message: fmt.Sprintf("assertion failed: %s != %s", args[0], args[1]),
		}
	}
	return value.NewBool(true), nil
}

func builtinClock(th *machine.Thread, args []value.Value) (value.Value, error) {
	return value.NewNumber(float64(time.Now().UnixNano()) / 1e9), nil
}

// builtinNum parses a string into a number, erroring for anything
// that doesn't look like one -- the original's `to_number`/`parse_num`
// native, supplemented per SPEC_FULL.md §3.
func builtinNum(th *machine.Thread, args []value.Value) (value.Value, error) {
	s, ok := args[0].AsObject().(*value.Str)
	if !ok {
		return value.NilValue, &machine.RuntimeError{
			Message: fmt.Sprintf("num expects a string argument, got %s", args[0].TypeName()),
		}
	}
	n, err := strconv.ParseFloat(s.S, 64)
	if err != nil {
		return value.NilValue, &machine.RuntimeError{Message: fmt.Sprintf("not a number: %q", s.S)}
	}
	return value.NewNumber(n), nil
}
