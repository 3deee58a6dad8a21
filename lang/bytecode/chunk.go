package bytecode

import (
	"encoding/binary"
	"math"

	"github.com/mna/ember/lang/value"
)

// Chunk is the compiled form of one function body, per spec.md §3/§4.3:
// a byte-code stream, a parallel per-byte source-line table and a
// constant pool. Chunk is built incrementally by lang/compiler and
// read only by lang/machine thereafter.
type Chunk struct {
	Name      string
	Code      []byte
	Lines     []int // Lines[i] is the source line of Code[i]
	Constants []value.Value
}

// NewChunk returns an empty chunk for a function named name (used in
// RuntimeError messages and disassembly output).
func NewChunk(name string) *Chunk {
	return &Chunk{Name: name}
}

// WriteByte appends b to the code stream, recording line as its
// source line.
func (c *Chunk) WriteByte(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends a bare opcode (one with no immediate operand).
func (c *Chunk) WriteOp(op Opcode, line int) int {
	pos := len(c.Code)
	c.WriteByte(byte(op), line)
	return pos
}

// WriteOpByte appends op followed by a one-byte operand, returning
// the offset of the opcode.
func (c *Chunk) WriteOpByte(op Opcode, operand byte, line int) int {
	pos := len(c.Code)
	c.WriteByte(byte(op), line)
	c.WriteByte(operand, line)
	return pos
}

// WriteOpF64 appends LDF64 followed by its eight little-endian bytes,
// per spec.md §4.3's "LDF64 v (8, little-endian f64)" encoding.
func (c *Chunk) WriteOpF64(v float64, line int) int {
	pos := len(c.Code)
	c.WriteByte(byte(LDF64), line)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	for _, b := range buf {
		c.WriteByte(b, line)
	}
	return pos
}

// AddConstant appends v to the constant pool and returns its index.
// Callers (lang/compiler's interned string constants and nested
// function templates) are responsible for any deduplication; the pool
// itself does not dedup.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// EmitJump appends op (JMP or JMPIFFALSE) followed by a two-byte
// placeholder, to be filled in later by PatchJump. Returns the offset
// of the placeholder bytes.
func (c *Chunk) EmitJump(op Opcode, line int) int {
	c.WriteByte(byte(op), line)
	pos := len(c.Code)
	c.WriteByte(0, line)
	c.WriteByte(0, line)
	return pos
}

// PatchJump back-patches the two placeholder bytes at pos (as
// returned by EmitJump) with the big-endian distance from just after
// those bytes to the current end of the code stream, per spec.md
// §4.3's "Patch a forward jump" chunk helper.
func (c *Chunk) PatchJump(pos int) {
	off := len(c.Code) - (pos + 2)
	c.Code[pos] = byte(off >> 8)
	c.Code[pos+1] = byte(off)
}

// EmitLoop appends a LOOP instruction jumping back to start (a code
// offset earlier in the stream), per spec.md §4.3's "Emit a backward
// loop" chunk helper. The encoded offset is always positive; the VM
// subtracts it from its program counter.
func (c *Chunk) EmitLoop(start int, line int) {
	// +3 accounts for the LOOP opcode byte and its two operand bytes;
	// computed before the opcode byte is appended, since the VM reads
	// the operand once its ip has already advanced past all three.
	off := len(c.Code) + 3 - start
	c.WriteByte(byte(LOOP), line)
	c.WriteByte(byte(off>>8), line)
	c.WriteByte(byte(off), line)
}

// ReadU16 reads the big-endian two-byte operand at code[pos:pos+2].
func ReadU16(code []byte, pos int) int {
	return int(code[pos])<<8 | int(code[pos+1])
}

// ReadF64 reads the little-endian eight-byte operand at
// code[pos:pos+8].
func ReadF64(code []byte, pos int) float64 {
	bits := binary.LittleEndian.Uint64(code[pos : pos+8])
	return math.Float64frombits(bits)
}
