package bytecode

import (
	"strings"
	"testing"

	"github.com/woupiestek/rlox/internal/value"
)

func TestChunkWriteAndLines(t *testing.T) {
	var c Chunk
	c.WriteOp(OpConstant, 1)
	c.Write(0, 1)
	c.WriteOp(OpReturn, 3)

	if len(c.Code) != 3 {
		t.Fatalf("code length = %d, want 3", len(c.Code))
	}
	if c.Line(0) != 1 || c.Line(1) != 1 {
		t.Fatalf("bytes on line 1 misattributed: %d, %d", c.Line(0), c.Line(1))
	}
	if c.Line(2) != 3 {
		t.Fatalf("return byte line = %d, want 3", c.Line(2))
	}
	// Offsets past the end report the last line.
	if c.Line(99) != 3 {
		t.Fatalf("past-end line = %d, want 3", c.Line(99))
	}
}

func TestAddConstantLimit(t *testing.T) {
	var c Chunk
	for i := 0; i < MaxConstants; i++ {
		idx, ok := c.AddConstant(value.MakeNumber(float64(i)))
		if !ok {
			t.Fatalf("constant %d rejected below the limit", i)
		}
		if int(idx) != i {
			t.Fatalf("constant %d got index %d", i, idx)
		}
	}
	if _, ok := c.AddConstant(value.Nil()); ok {
		t.Fatalf("constant past the limit should be rejected")
	}
}

func TestPatchU16RoundTrip(t *testing.T) {
	var c Chunk
	c.WriteOp(OpJump, 1)
	c.Write(0xff, 1)
	c.Write(0xff, 1)
	c.PatchU16(1, 0x1234)
	if got := c.ReadU16(1); got != 0x1234 {
		t.Fatalf("ReadU16 = %#x, want 0x1234", got)
	}
}

func TestDisassembleSimpleChunk(t *testing.T) {
	var c Chunk
	idx, _ := c.AddConstant(value.MakeNumber(1.5))
	c.WriteOp(OpConstant, 1)
	c.Write(idx, 1)
	c.WriteOp(OpNegate, 1)
	c.WriteOp(OpReturn, 2)

	var sb strings.Builder
	Disassemble(&sb, "test", &c, nil)
	out := sb.String()

	for _, want := range []string{"== test ==", "OP_CONSTANT", "1.5", "OP_NEGATE", "OP_RETURN"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q:\n%s", want, out)
		}
	}
}
