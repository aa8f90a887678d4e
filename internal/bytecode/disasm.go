package bytecode

import (
	"fmt"
	"io"

	"github.com/woupiestek/rlox/internal/value"
)

// Resolver lets the disassembler look through object handles. The vm
// provides one backed by the heap; the zero resolver prints raw handles and
// assumes closures capture nothing, which is only safe for chunks that
// contain no OpClosure.
type Resolver interface {
	// FormatConst renders a constant pool entry.
	FormatConst(v value.Value) string
	// UpvalueCount reports how many {is_local, index} descriptor pairs
	// follow an OpClosure whose operand names this function constant.
	UpvalueCount(v value.Value) int
}

type rawResolver struct{}

func (rawResolver) FormatConst(v value.Value) string { return v.String() }
func (rawResolver) UpvalueCount(value.Value) int     { return 0 }

// Disassemble writes a listing of the chunk under a header.
func Disassemble(w io.Writer, name string, c *Chunk, r Resolver) {
	if r == nil {
		r = rawResolver{}
	}
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstr(w, c, offset, r)
	}
}

// DisassembleInstr writes one instruction and returns the next offset.
func DisassembleInstr(w io.Writer, c *Chunk, offset int, r Resolver) int {
	if r == nil {
		r = rawResolver{}
	}
	fmt.Fprintf(w, "%04d ", offset)
	line := c.Line(offset)
	if offset > 0 && line == c.Line(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	op := OpCode(c.Code[offset])
	switch op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal,
		OpGetProperty, OpSetProperty, OpGetSuper, OpClass, OpMethod:
		return constantInstr(w, c, op, offset, r)
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		return byteInstr(w, c, op, offset)
	case OpJump, OpJumpIfFalse:
		return jumpInstr(w, c, op, offset, 1)
	case OpLoop:
		return jumpInstr(w, c, op, offset, -1)
	case OpInvoke, OpSuperInvoke:
		return invokeInstr(w, c, op, offset, r)
	case OpClosure:
		return closureInstr(w, c, op, offset, r)
	case OpNil, OpTrue, OpFalse, OpPop, OpEqual, OpGreater, OpLess,
		OpAdd, OpSubtract, OpMultiply, OpDivide, OpNot, OpNegate,
		OpPrint, OpCloseUpvalue, OpReturn, OpInherit:
		fmt.Fprintf(w, "%s\n", op)
		return offset + 1
	default:
		fmt.Fprintf(w, "unknown opcode %d\n", byte(op))
		return offset + 1
	}
}

func constantInstr(w io.Writer, c *Chunk, op OpCode, offset int, r Resolver) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, r.FormatConst(c.Constants[idx]))
	return offset + 2
}

func byteInstr(w io.Writer, c *Chunk, op OpCode, offset int) int {
	fmt.Fprintf(w, "%-16s %4d\n", op, c.Code[offset+1])
	return offset + 2
}

func jumpInstr(w io.Writer, c *Chunk, op OpCode, offset, sign int) int {
	dist := int(c.ReadU16(offset + 1))
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, offset+3+sign*dist)
	return offset + 3
}

func invokeInstr(w io.Writer, c *Chunk, op OpCode, offset int, r Resolver) int {
	idx := c.Code[offset+1]
	argc := c.Code[offset+2]
	fmt.Fprintf(w, "%-16s (%d args) %4d '%s'\n", op, argc, idx, r.FormatConst(c.Constants[idx]))
	return offset + 3
}

func closureInstr(w io.Writer, c *Chunk, op OpCode, offset int, r Resolver) int {
	idx := c.Code[offset+1]
	fn := c.Constants[idx]
	fmt.Fprintf(w, "%-16s %4d %s\n", op, idx, r.FormatConst(fn))
	offset += 2

	for i := r.UpvalueCount(fn); i > 0; i-- {
		isLocal := c.Code[offset]
		index := c.Code[offset+1]
		kind := "upvalue"
		if isLocal == 1 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d    |                     %s %d\n", offset, kind, index)
		offset += 2
	}
	return offset
}
