// Package bytecode defines ember's chunk/opcode model: the instruction
// set, operand encoding and constant pool spec.md §4.3 specifies, plus
// the chunk-building helpers the emitter (lang/compiler) needs.
//
// The Opcode type and its const-block-plus-name-table convention is
// modeled on the teacher's lang/compiler/opcode.go, trimmed from its
// ~50-opcode Starlark-derived set (maps, iterators, defer/catch,
// attribute access) down to spec.md §4.3's dozen-odd instructions, and
// restructured around explicit one-byte/two-byte/eight-byte operand
// widths instead of the teacher's LEB128 varint encoding, because
// spec.md's operand table fixes concrete widths per opcode rather than
// leaving them variable.
package bytecode

import "fmt"

// Opcode is one instruction in a Chunk's code stream.
type Opcode uint8

//nolint:revive
const (
	LDC Opcode = iota
	LDF64
	LD0
	LD1
	LDTRUE
	LDFALSE
	LDLOC
	STLOC
	LDGLOBAL
	STGLOBAL
	LDUPVAL
	STUPVAL
	CLOSEUPVAL
	NEG
	NOT
	ADD
	SUB
	MUL
	DIV
	EQ
	GREATER
	LESS
	POP
	CALLI
	CLOSURE
	JMP
	JMPIFFALSE
	LOOP
	RET
	RET0
	RET1

	maxOpcode
)

var opcodeNames = [...]string{
	LDC:        "ldc",
	LDF64:      "ldf64",
	LD0:        "ld0",
	LD1:        "ld1",
	LDTRUE:     "ldtrue",
	LDFALSE:    "ldfalse",
	LDLOC:      "ldloc",
	STLOC:      "stloc",
	LDGLOBAL:   "ldglobal",
	STGLOBAL:   "stglobal",
	LDUPVAL:    "ldupval",
	STUPVAL:    "stupval",
	CLOSEUPVAL: "closeupval",
	NEG:        "neg",
	NOT:        "not",
	ADD:        "add",
	SUB:        "sub",
	MUL:        "mul",
	DIV:        "div",
	EQ:         "eq",
	GREATER:    "greater",
	LESS:       "less",
	POP:        "pop",
	CALLI:      "calli",
	CLOSURE:    "closure",
	JMP:        "jmp",
	JMPIFFALSE: "jmpiffalse",
	LOOP:       "loop",
	RET:        "ret",
	RET0:       "ret0",
	RET1:       "ret1",
}

func (op Opcode) String() string {
	if op < maxOpcode {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}

// OperandWidth returns the number of bytes of immediate operand
// following op in the code stream, per spec.md §4.3's operand column.
// CLOSURE's width is variable (it depends on the upvalue count encoded
// alongside the template index) and is not handled here; callers that
// need to skip a CLOSURE instruction must read the upvalue count
// themselves (see Disassemble).
func (op Opcode) OperandWidth() int {
	switch op {
	case LDC, LDLOC, STLOC, LDGLOBAL, STGLOBAL, LDUPVAL, STUPVAL, CALLI, CLOSURE:
		return 1
	case LDF64:
		return 8
	case JMP, JMPIFFALSE, LOOP:
		return 2
	default:
		return 0
	}
}
