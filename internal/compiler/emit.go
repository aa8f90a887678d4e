package compiler

import (
	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/value"
)

const maxJump = 0xffff

func (c *Compiler) emitOp(op bytecode.OpCode) {
	c.chunk().WriteOp(op, c.line())
}

func (c *Compiler) emitByte(b byte) {
	c.chunk().Write(b, c.line())
}

func (c *Compiler) emitOps(op bytecode.OpCode, operand byte) {
	c.emitOp(op)
	c.emitByte(operand)
}

// emitReturn closes a function body: initializers return 'this' from slot
// zero, everything else returns nil.
func (c *Compiler) emitReturn() {
	if c.fc.kind == kindInitializer {
		c.emitOps(bytecode.OpGetLocal, 0)
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.emitOp(bytecode.OpReturn)
}

// makeConstant appends v to the current chunk's pool and returns its index.
func (c *Compiler) makeConstant(v value.Value) uint8 {
	idx, ok := c.chunk().AddConstant(v)
	if !ok {
		c.errorAtPrevious(diag.CmpTooManyConstants, "Too many constants in one chunk.")
		return 0
	}
	return idx
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOps(bytecode.OpConstant, c.makeConstant(v))
}

// identifierConstant interns the token's text as a string and returns its
// constant index. Interning makes the handle the identity, so globals and
// property tables key on it directly.
func (c *Compiler) identifierConstant(name string) uint8 {
	return c.makeConstant(c.heap.Intern(name))
}

// emitJump writes op with a placeholder distance and returns the offset of
// the operand for patchJump.
func (c *Compiler) emitJump(op bytecode.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk().Code) - 2
}

// patchJump back-fills the distance from the operand to the current end of
// code.
func (c *Compiler) patchJump(offset int) {
	dist := len(c.chunk().Code) - offset - 2
	if dist > maxJump {
		c.errorAtPrevious(diag.CmpJumpTooFar, "Too much code to jump over.")
		return
	}
	c.chunk().PatchU16(offset, uint16(dist))
}

// emitLoop jumps backward to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(bytecode.OpLoop)
	dist := len(c.chunk().Code) - loopStart + 2
	if dist > maxJump {
		c.errorAtPrevious(diag.CmpLoopTooFar, "Loop body too large.")
		dist = 0
	}
	c.emitByte(byte(dist >> 8))
	c.emitByte(byte(dist))
}
