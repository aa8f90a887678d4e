package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/lexer"
	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/value"
	"github.com/woupiestek/rlox/internal/vm"
)

// compileSrc runs one compilation against a fresh heap and returns the
// script value, the heap, and the accumulated diagnostics.
func compileSrc(t *testing.T, src string) (value.Value, *vm.Heap, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lox", []byte(src)))
	heap := vm.NewHeap(vm.HeapOptions{}, nil)
	bag := diag.NewBag(64)
	c := New(heap, fs, diag.BagReporter{Bag: bag})
	script, ok := c.Compile(file, &lexer.BagAdapter{Bag: bag})
	return script, heap, bag, ok
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestCompileEmitsExpectedOps(t *testing.T) {
	script, heap, _, ok := compileSrc(t, "print 1 + 2;")
	if !ok {
		t.Fatal("compilation failed")
	}
	chunk := &heap.Function(script.H).Chunk

	want := []byte{
		byte(bytecode.OpConstant), 0,
		byte(bytecode.OpConstant), 1,
		byte(bytecode.OpAdd),
		byte(bytecode.OpPrint),
		byte(bytecode.OpNil),
		byte(bytecode.OpReturn),
	}
	if len(chunk.Code) != len(want) {
		t.Fatalf("code = %v, want %v", chunk.Code, want)
	}
	for i, b := range want {
		if chunk.Code[i] != b {
			t.Fatalf("code[%d] = %d, want %d", i, chunk.Code[i], b)
		}
	}
	if len(chunk.Constants) != 2 {
		t.Fatalf("constants = %d, want 2", len(chunk.Constants))
	}
}

func TestLambdaEmitsClosure(t *testing.T) {
	script, heap, _, ok := compileSrc(t, "var f = fun (a, b) { return a + b; };")
	if !ok {
		t.Fatal("compilation failed")
	}
	chunk := &heap.Function(script.H).Chunk

	var inner *vm.Function
	for _, k := range chunk.Constants {
		if k.Kind == value.KindFunction {
			inner = heap.Function(k.H)
		}
	}
	if inner == nil {
		t.Fatal("no function constant emitted for the lambda")
	}
	if inner.Arity != 2 {
		t.Fatalf("lambda arity = %d, want 2", inner.Arity)
	}
	if !inner.HasName || heap.String(inner.Name).Bytes != "anonymous" {
		t.Fatalf("lambda should carry the display name 'anonymous'")
	}

	foundClosure := false
	for _, b := range chunk.Code {
		if bytecode.OpCode(b) == bytecode.OpClosure {
			foundClosure = true
			break
		}
	}
	if !foundClosure {
		t.Fatal("no OpClosure in script chunk")
	}
}

func TestLambdaRequiresParen(t *testing.T) {
	_, _, bag, ok := compileSrc(t, "var f = fun;")
	if ok {
		t.Fatal("bare 'fun' in expression position should not compile")
	}
	found := false
	for _, d := range bag.Items() {
		if strings.Contains(d.Message, "Expect '(' after 'fun'.") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing lambda paren diagnostic; got %v", bag.Items())
	}
}

func TestTooManyLocals(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i := 0; i < maxLocals; i++ {
		fmt.Fprintf(&sb, "var v%d = %d;\n", i, i)
	}
	sb.WriteString("}\n")

	_, _, bag, ok := compileSrc(t, sb.String())
	if ok {
		t.Fatal("256 locals in one function should not compile")
	}
	if !hasCode(bag, diag.CmpTooManyLocals) {
		t.Fatalf("want CmpTooManyLocals, got %v", bag.Items())
	}
}

func TestTooManyConstants(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= bytecode.MaxConstants; i++ {
		fmt.Fprintf(&sb, "print %d.5;\n", i)
	}

	_, _, bag, ok := compileSrc(t, sb.String())
	if ok {
		t.Fatal("257 distinct constants should overflow the pool")
	}
	if !hasCode(bag, diag.CmpTooManyConstants) {
		t.Fatalf("want CmpTooManyConstants, got %d diagnostics", bag.Len())
	}
}

func TestTooManyParameters(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("fun f(")
	for i := 0; i <= maxArgs; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "p%d", i)
	}
	sb.WriteString(") {}\n")

	_, _, bag, ok := compileSrc(t, sb.String())
	if ok {
		t.Fatal("256 parameters should not compile")
	}
	if !hasCode(bag, diag.CmpTooManyParameters) {
		t.Fatalf("want CmpTooManyParameters, got %v", bag.Items())
	}
}

func TestJumpTooFar(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("if (true) {\n")
	// Each print is two bytes of code and no constants; enough of them
	// overflow the 16-bit jump operand.
	for i := 0; i < (maxJump/2)+2; i++ {
		sb.WriteString("print nil;\n")
	}
	sb.WriteString("}\n")

	_, _, bag, ok := compileSrc(t, sb.String())
	if ok {
		t.Fatal("oversized then-branch should not compile")
	}
	if !hasCode(bag, diag.CmpJumpTooFar) {
		t.Fatalf("want CmpJumpTooFar, got %d diagnostics", bag.Len())
	}
}

func TestSynchronizeRecoversAtStatement(t *testing.T) {
	_, _, bag, ok := compileSrc(t, "print ; var a = 1; print missing_semicolon")
	if ok {
		t.Fatal("source with two errors should not compile")
	}
	if bag.Len() < 2 {
		t.Fatalf("panic-mode recovery should surface both errors, got %d", bag.Len())
	}
}

func TestLinesAttributedToSource(t *testing.T) {
	script, heap, _, ok := compileSrc(t, "var a = 1;\nprint a;\n")
	if !ok {
		t.Fatal("compilation failed")
	}
	chunk := &heap.Function(script.H).Chunk
	if chunk.Line(0) != 1 {
		t.Fatalf("first instruction line = %d, want 1", chunk.Line(0))
	}
	last := len(chunk.Code) - 1
	if chunk.Line(last-2) != 2 {
		t.Fatalf("print line = %d, want 2", chunk.Line(last-2))
	}
}
