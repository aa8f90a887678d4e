package vm

import (
	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/value"
)

// FormatValue renders a value for print and string conversion. Object
// contents are resolved through the heap; nested values never recurse past
// one level because Lox has no aggregate literals.
func (h *Heap) FormatValue(v value.Value) string {
	switch v.Kind {
	case value.KindString:
		return h.String(v.H).Bytes
	case value.KindFunction:
		return h.formatFunction(v.H)
	case value.KindNative:
		return "<native fn>"
	case value.KindClosure:
		return h.formatFunction(h.Closure(v.H).Function)
	case value.KindUpvalue:
		return "upvalue"
	case value.KindClass:
		return h.String(h.Class(v.H).Name).Bytes
	case value.KindInstance:
		return h.String(h.Class(h.Instance(v.H).Class).Name).Bytes + " instance"
	case value.KindBoundMethod:
		return h.formatFunction(h.Closure(h.BoundMethod(v.H).Method).Function)
	default:
		return v.String()
	}
}

func (h *Heap) formatFunction(fn value.Handle) string {
	f := h.Function(fn)
	if !f.HasName {
		return "<script>"
	}
	return "<fn " + h.String(f.Name).Bytes + ">"
}

// FunctionName returns a display name for backtraces: "script" for the
// top-level chunk, the bare name otherwise.
func (h *Heap) FunctionName(fn value.Handle) string {
	f := h.Function(fn)
	if !f.HasName {
		return "script"
	}
	return h.String(f.Name).Bytes
}

// resolver adapts the heap to the disassembler, which needs to print
// constants and walk OpClosure upvalue descriptors.
type resolver struct {
	heap *Heap
}

// Resolver returns a disassembler resolver backed by this heap.
func (h *Heap) Resolver() bytecode.Resolver { return resolver{heap: h} }

func (r resolver) FormatConst(v value.Value) string {
	if v.Kind == value.KindString {
		return r.heap.String(v.H).Bytes
	}
	return r.heap.FormatValue(v)
}

func (r resolver) UpvalueCount(v value.Value) int {
	if v.Kind != value.KindFunction {
		return 0
	}
	return r.heap.Function(v.H).UpvalueCount
}
