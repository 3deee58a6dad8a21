package bytecode_test

import (
	"testing"

	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriteAndRead(t *testing.T) {
	c := bytecode.NewChunk("test")
	c.WriteOpF64(3.5, 1)
	c.WriteOp(bytecode.ADD, 1)
	c.WriteOpByte(bytecode.LDLOC, 2, 2)

	require.Len(t, c.Code, 12)
	assert.Equal(t, byte(bytecode.LDF64), c.Code[0])
	assert.Equal(t, 3.5, bytecode.ReadF64(c.Code, 1))
	assert.Equal(t, byte(bytecode.ADD), c.Code[9])
	assert.Equal(t, byte(bytecode.LDLOC), c.Code[10])
	assert.Equal(t, byte(2), c.Code[11])
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2}, c.Lines)
}

func TestChunkAddConstant(t *testing.T) {
	c := bytecode.NewChunk("test")
	i0 := c.AddConstant(value.NewNumber(1))
	i1 := c.AddConstant(value.NewNumber(2))
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Len(t, c.Constants, 2)
}

func TestChunkPatchForwardJump(t *testing.T) {
	c := bytecode.NewChunk("test")
	pos := c.EmitJump(bytecode.JMPIFFALSE, 1)
	c.WriteOp(bytecode.POP, 1)
	c.WriteOp(bytecode.POP, 1)
	c.PatchJump(pos)

	off := bytecode.ReadU16(c.Code, pos)
	assert.Equal(t, 2, off) // two POP bytes between the placeholder and the landing point
}

func TestChunkEmitLoop(t *testing.T) {
	c := bytecode.NewChunk("test")
	start := len(c.Code)
	c.WriteOp(bytecode.POP, 1)
	c.WriteOp(bytecode.POP, 1)
	loopPos := len(c.Code)
	c.EmitLoop(start, 1)

	off := bytecode.ReadU16(c.Code, loopPos+1)
	// matches the VM's LOOP semantics (fr.ip already past the opcode
	// and its two operand bytes) and the disassembler's: target =
	// (opcode position) + 3 - off.
	target := loopPos + 3 - off
	assert.Equal(t, start, target)
}
