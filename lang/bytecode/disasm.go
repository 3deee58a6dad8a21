package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of c to w, one
// instruction per line, in the teacher's lang/machine disassembler
// convention: offset, mnemonic, resolved operand (jump targets are
// resolved to an absolute offset rather than left as a raw relative
// distance). Nested function templates found in the constant pool are
// listed after their own CLOSURE instruction, recursively.
func Disassemble(w io.Writer, c *Chunk) {
	fmt.Fprintf(w, "== %s ==\n", c.Name)
	disassembleCode(w, c)
}

func disassembleCode(w io.Writer, c *Chunk) {
	var nested []*FnTemplate
	for pos := 0; pos < len(c.Code); {
		op := Opcode(c.Code[pos])
		fmt.Fprintf(w, "%04d %-10s", pos, op)
		switch op {
		case LDC, LDLOC, STLOC, LDGLOBAL, STGLOBAL, LDUPVAL, STUPVAL, CALLI:
			operand := c.Code[pos+1]
			fmt.Fprintf(w, " %d", operand)
			if op == LDC || op == LDGLOBAL || op == STGLOBAL {
				if int(operand) < len(c.Constants) {
					fmt.Fprintf(w, " ; %s", c.Constants[operand])
				}
			}
			pos += 2

		case LDF64:
			v := ReadF64(c.Code, pos+1)
			fmt.Fprintf(w, " %g", v)
			pos += 9

		case JMP, JMPIFFALSE:
			off := ReadU16(c.Code, pos+1)
			target := pos + 3 + off
			fmt.Fprintf(w, " -> %04d", target)
			pos += 3

		case LOOP:
			off := ReadU16(c.Code, pos+1)
			target := pos + 3 - off
			fmt.Fprintf(w, " -> %04d", target)
			pos += 3

		case CLOSURE:
			k := c.Code[pos+1]
			fmt.Fprintf(w, " %d", k)
			if int(k) < len(c.Constants) {
				fmt.Fprintf(w, " ; %s", c.Constants[k])
			}
			pos += 2
			if int(k) < len(c.Constants) {
				if tmpl, ok := c.Constants[k].AsObject().(*FnTemplate); ok {
					nested = append(nested, tmpl)
					for i := 0; i < tmpl.UpvalueCount; i++ {
						isLocal := c.Code[pos]
						idx := c.Code[pos+1]
						kind := "upvalue"
						if isLocal != 0 {
							kind = "local"
						}
						fmt.Fprintf(w, "\n%04d      | %8s %d", pos, kind, idx)
						pos += 2
					}
				}
			}

		default:
			pos++
		}
		fmt.Fprintln(w)
	}
	for _, tmpl := range nested {
		fmt.Fprintln(w)
		Disassemble(w, tmpl.Chunk)
	}
}
