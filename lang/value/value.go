// Package value defines ember's runtime value representation, per
// spec.md §3: a small tagged union of Nil, Bool, and Number, plus a
// heap Object interface for everything reference-typed (strings,
// function templates, closures, native functions).
//
// The teacher (lang/machine) represents values as a plain Go
// interface with one concrete type per kind (machine.Value). ember
// uses a flat struct instead: spec.md's VM is a tight fetch-decode-
// execute loop over a value stack, and boxing every Number into an
// interface on every arithmetic op is exactly the allocation pressure
// that design is trying to avoid. The tagged-union shape is instead
// grounded on original_source/ella-bytecode's own Value enum.
package value

import "fmt"

// Kind identifies which alternative of the tagged union a Value holds.
type Kind uint8

const (
	Nil Kind = iota
	Bool
	Number
	Obj
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case Obj:
		return "object"
	default:
		return "invalid"
	}
}

// Object is implemented by every heap-allocated value kind.
type Object interface {
	Type() string
	String() string
}

// Value is ember's runtime value: exactly one of Nil, a bool, a
// float64, or an Object, selected by Kind.
type Value struct {
	kind Kind
	num  float64
	b    bool
	obj  Object
}

// NilValue is the single nil value.
var NilValue = Value{kind: Nil}

func NewBool(b bool) Value      { return Value{kind: Bool, b: b} }
func NewNumber(n float64) Value { return Value{kind: Number, num: n} }
func NewObject(o Object) Value  { return Value{kind: Obj, obj: o} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNil() bool     { return v.kind == Nil }
func (v Value) IsBool() bool    { return v.kind == Bool }
func (v Value) IsNumber() bool  { return v.kind == Number }
func (v Value) IsObject() bool  { return v.kind == Obj }

// AsBool returns v's bool payload without checking Kind (false for a
// non-Bool value); callers must check Kind first, exactly like the
// VM's opcode preconditions in spec.md §4.5.
func (v Value) AsBool() bool { return v.b }

func (v Value) AsNumber() float64 { return v.num }

func (v Value) AsObject() Object { return v.obj }

// Truthy implements ember's only two falsy values: nil and false.
// Every other value, including the number 0, is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case Nil:
		return false
	case Bool:
		return v.b
	default:
		return true
	}
}

// Equal implements ember's `==`/`!=` semantics: numbers and bools
// compare by value, objects by reference (interned strings make this
// also a value comparison for Str, since Intern guarantees one *Str
// per distinct content).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Nil:
		return true
	case Bool:
		return v.b == other.b
	case Number:
		return v.num == other.num
	case Obj:
		if vs, ok := v.obj.(*Str); ok {
			if os, ok := other.obj.(*Str); ok {
				return vs.S == os.S
			}
			return false
		}
		return v.obj == other.obj
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case Nil:
		return "nil"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Number:
		return fmt.Sprintf("%g", v.num)
	case Obj:
		return v.obj.String()
	default:
		return "<invalid value>"
	}
}

// TypeName returns ember's source-level type name for v, used in
// RuntimeError messages (spec.md §7).
func (v Value) TypeName() string {
	switch v.kind {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case Obj:
		return v.obj.Type()
	default:
		return "invalid"
	}
}
