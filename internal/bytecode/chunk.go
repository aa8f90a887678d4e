package bytecode

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/woupiestek/rlox/internal/value"
)

// MaxConstants is the per-chunk constant pool limit imposed by the 8-bit
// constant operand.
const MaxConstants = 256

// lineRun is one run of the run-length encoded line table: Count
// consecutive code bytes were emitted for source line Line.
type lineRun struct {
	Line  uint32
	Count uint32
}

// Chunk holds the code of one compiled function.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	lines     []lineRun
}

// Write appends one byte attributed to the given source line.
func (c *Chunk) Write(b byte, line uint32) {
	c.Code = append(c.Code, b)
	n := len(c.lines)
	if n > 0 && c.lines[n-1].Line == line {
		c.lines[n-1].Count++
		return
	}
	c.lines = append(c.lines, lineRun{Line: line, Count: 1})
}

// WriteOp appends an opcode attributed to the given source line.
func (c *Chunk) WriteOp(op OpCode, line uint32) {
	c.Write(byte(op), line)
}

// AddConstant appends v to the constant pool and returns its index. ok is
// false when the pool is full; the caller reports the compile error.
func (c *Chunk) AddConstant(v value.Value) (idx uint8, ok bool) {
	if len(c.Constants) >= MaxConstants {
		return 0, false
	}
	i, err := safecast.Conv[uint8](len(c.Constants))
	if err != nil {
		panic(fmt.Errorf("constant index overflow: %w", err))
	}
	c.Constants = append(c.Constants, v)
	return i, true
}

// Line resolves the source line for the code byte at offset. Offsets past
// the end report the last line, which keeps error reporting sane for the
// implicit return.
func (c *Chunk) Line(offset int) uint32 {
	remaining := offset
	for _, run := range c.lines {
		if remaining < int(run.Count) {
			return run.Line
		}
		remaining -= int(run.Count)
	}
	if n := len(c.lines); n > 0 {
		return c.lines[n-1].Line
	}
	return 0
}

// PatchU16 overwrites the two code bytes at offset with a big-endian u16.
func (c *Chunk) PatchU16(offset int, v uint16) {
	c.Code[offset] = byte(v >> 8)
	c.Code[offset+1] = byte(v)
}

// ReadU16 reads the big-endian u16 at offset.
func (c *Chunk) ReadU16(offset int) uint16 {
	return uint16(c.Code[offset])<<8 | uint16(c.Code[offset+1])
}

// Size returns an estimate of the chunk's owned bytes, used by the heap's
// byte accounting.
func (c *Chunk) Size() int {
	return len(c.Code) + len(c.Constants)*16 + len(c.lines)*8
}
