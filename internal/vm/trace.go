package vm

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/woupiestek/rlox/internal/value"
)

// Tracer outputs execution and heap traces for debugging. A nil Tracer is
// valid and silent, so call sites never need to guard.
type Tracer struct {
	w    io.Writer
	heap *Heap

	// Exec enables per-instruction tracing; HeapLog enables alloc/free/GC lines.
	Exec    bool
	HeapLog bool
}

// NewTracer creates a tracer writing to w. Bind attaches the heap once it
// exists, since heap and tracer reference each other.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// Bind attaches the heap so value previews can resolve handles.
func (t *Tracer) Bind(h *Heap) {
	if t != nil {
		t.heap = h
	}
}

func kindName(k value.Kind) string {
	switch k {
	case value.KindString:
		return "string"
	case value.KindFunction:
		return "function"
	case value.KindNative:
		return "native"
	case value.KindClosure:
		return "closure"
	case value.KindUpvalue:
		return "upvalue"
	case value.KindClass:
		return "class"
	case value.KindInstance:
		return "instance"
	case value.KindBoundMethod:
		return "bound"
	default:
		return "object"
	}
}

func (t *Tracer) heapAlloc(kind value.Kind, h value.Handle) {
	if t == nil || t.w == nil || !t.HeapLog {
		return
	}
	fmt.Fprintf(t.w, "[heap] alloc %s#%d\n", kindName(kind), h)
}

func (t *Tracer) heapFree(kind value.Kind, h value.Handle) {
	if t == nil || t.w == nil || !t.HeapLog {
		return
	}
	fmt.Fprintf(t.w, "[heap] free %s#%d\n", kindName(kind), h)
}

func (t *Tracer) gcBegin(bytes int) {
	if t == nil || t.w == nil || !t.HeapLog {
		return
	}
	fmt.Fprintf(t.w, "[gc] begin bytes=%d\n", bytes)
}

func (t *Tracer) gcEnd(before, after, next int) {
	if t == nil || t.w == nil || !t.HeapLog {
		return
	}
	fmt.Fprintf(t.w, "[gc] end collected=%d bytes=%d next=%d\n", before-after, after, next)
}

// TraceInstr traces one dispatched instruction.
// Format: [depth=N] <func> ip<ip> <op> | stack
func (t *Tracer) TraceInstr(depth int, fnName string, ip int, op string, stack []value.Value) {
	if t == nil || t.w == nil || !t.Exec {
		return
	}
	fmt.Fprintf(t.w, "[depth=%d] %s ip%04d %s |", depth, fnName, ip, op)
	for _, v := range stack {
		fmt.Fprintf(t.w, " [ %s ]", t.formatValue(v))
	}
	fmt.Fprintln(t.w)
}

func (t *Tracer) formatValue(v value.Value) string {
	if !v.IsObject() || t.heap == nil {
		return plainValueString(v)
	}
	switch v.Kind {
	case value.KindString:
		obj := t.heap.String(v.H)
		return fmt.Sprintf("string#%d(%q)", v.H, truncateRunes(obj.Bytes, 32))
	default:
		return fmt.Sprintf("%s#%d", kindName(v.Kind), v.H)
	}
}

func plainValueString(v value.Value) string {
	switch v.Kind {
	case value.KindNil:
		return "nil"
	case value.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case value.KindNumber:
		return value.FormatNumber(v.Num)
	default:
		return fmt.Sprintf("%s#%d", kindName(v.Kind), v.H)
	}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	out := make([]rune, 0, limit)
	for _, r := range s {
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return string(out)
}
