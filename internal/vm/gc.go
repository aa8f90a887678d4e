package vm

import (
	"github.com/woupiestek/rlox/internal/value"
)

// RootSource contributes roots to a collection. The VM registers itself for
// its stack, frames, globals and open upvalues; each active compiler
// registers its function chain so half-built chunks survive.
type RootSource interface {
	MarkRoots(m *Marker)
}

type grayItem struct {
	kind   value.Kind
	handle value.Handle
}

// Marker is the tri-color worklist. Marking an object grays it; Collect
// drains the worklist, darkening each object by marking its references.
type Marker struct {
	heap *Heap
	gray []grayItem
}

// MarkValue grays the object behind v, if any.
func (m *Marker) MarkValue(v value.Value) {
	if v.IsObject() {
		m.MarkHandle(v.Kind, v.H)
	}
}

// MarkHandle grays an object by kind and handle. Already-marked objects are
// skipped so each is darkened exactly once.
func (m *Marker) MarkHandle(kind value.Kind, h value.Handle) {
	if m.heap.poolFor(kind).markRaw(h) {
		m.gray = append(m.gray, grayItem{kind: kind, handle: h})
	}
}

// rawPool is the untyped view of a pool that marking needs.
type rawPool interface {
	markRaw(h value.Handle) bool
}

func (p *pool[T]) markRaw(h value.Handle) bool { return p.mark(h) }

func (h *Heap) poolFor(kind value.Kind) rawPool {
	switch kind {
	case value.KindString:
		return &h.strings.objs
	case value.KindFunction:
		return &h.functions
	case value.KindNative:
		return &h.natives
	case value.KindClosure:
		return &h.closures
	case value.KindUpvalue:
		return &h.upvalues
	case value.KindClass:
		return &h.classes
	case value.KindInstance:
		return &h.instances
	case value.KindBoundMethod:
		return &h.bound
	default:
		panic("not an object kind")
	}
}

// Collect runs a full mark-and-sweep cycle: clear marks, mark from every
// registered root source, drain the gray worklist, rebuild the string index
// from survivors, then sweep each pool with matching byte accounting.
func (h *Heap) Collect() {
	before := h.bytes
	h.tracer.gcBegin(before)

	h.clearAllMarks()

	m := &Marker{heap: h}
	for _, r := range h.roots {
		r.MarkRoots(m)
	}
	for len(m.gray) > 0 {
		item := m.gray[len(m.gray)-1]
		m.gray = m.gray[:len(m.gray)-1]
		h.darken(m, item)
	}

	// The intern index must drop dead strings before their slots are freed,
	// or lookups would probe through dangling handles.
	h.strings.rebuildIndex()

	h.sweepAll()

	h.nextGC = h.bytes * h.growth
	if h.nextGC < DefaultGCThreshold {
		h.nextGC = DefaultGCThreshold
	}
	h.cycles++
	h.tracer.gcEnd(before, h.bytes, h.nextGC)
}

func (h *Heap) clearAllMarks() {
	h.strings.objs.clearMarks()
	h.functions.clearMarks()
	h.natives.clearMarks()
	h.closures.clearMarks()
	h.upvalues.clearMarks()
	h.classes.clearMarks()
	h.instances.clearMarks()
	h.bound.clearMarks()
}

// darken marks everything a gray object references. Strings and natives
// hold no references.
func (h *Heap) darken(m *Marker, item grayItem) {
	switch item.kind {
	case value.KindFunction:
		fn := h.functions.get(item.handle)
		if fn.HasName {
			m.MarkHandle(value.KindString, fn.Name)
		}
		for _, c := range fn.Chunk.Constants {
			m.MarkValue(c)
		}
	case value.KindClosure:
		c := h.closures.get(item.handle)
		m.MarkHandle(value.KindFunction, c.Function)
		for _, uv := range c.Upvalues {
			if uv != unfilledUpvalue {
				m.MarkHandle(value.KindUpvalue, uv)
			}
		}
	case value.KindUpvalue:
		uv := h.upvalues.get(item.handle)
		if !uv.Open {
			m.MarkValue(uv.Closed)
		}
	case value.KindClass:
		cl := h.classes.get(item.handle)
		m.MarkHandle(value.KindString, cl.Name)
		for name, method := range cl.Methods {
			m.MarkHandle(value.KindString, name)
			m.MarkHandle(value.KindClosure, method)
		}
	case value.KindInstance:
		inst := h.instances.get(item.handle)
		m.MarkHandle(value.KindClass, inst.Class)
		for name, v := range inst.Fields {
			m.MarkHandle(value.KindString, name)
			m.MarkValue(v)
		}
	case value.KindBoundMethod:
		bm := h.bound.get(item.handle)
		m.MarkValue(bm.Receiver)
		m.MarkHandle(value.KindClosure, bm.Method)
	}
}

func (h *Heap) sweepAll() {
	h.strings.objs.sweep(func(hd value.Handle, s *StringObj) {
		h.bytes -= sizeString(s.Bytes)
		h.tracer.heapFree(value.KindString, hd)
	})
	h.functions.sweep(func(hd value.Handle, f *Function) {
		h.bytes -= sizeFunction(f)
		h.tracer.heapFree(value.KindFunction, hd)
	})
	h.natives.sweep(func(hd value.Handle, _ *Native) {
		h.bytes -= sizeNative()
		h.tracer.heapFree(value.KindNative, hd)
	})
	h.closures.sweep(func(hd value.Handle, c *Closure) {
		h.bytes -= sizeClosure(len(c.Upvalues))
		h.tracer.heapFree(value.KindClosure, hd)
	})
	h.upvalues.sweep(func(hd value.Handle, _ *Upvalue) {
		h.bytes -= sizeUpvalue()
		h.tracer.heapFree(value.KindUpvalue, hd)
	})
	h.classes.sweep(func(hd value.Handle, c *Class) {
		h.bytes -= sizeClass(len(c.Methods))
		h.tracer.heapFree(value.KindClass, hd)
	})
	h.instances.sweep(func(hd value.Handle, i *Instance) {
		h.bytes -= sizeInstance(len(i.Fields))
		h.tracer.heapFree(value.KindInstance, hd)
	})
	h.bound.sweep(func(hd value.Handle, _ *BoundMethod) {
		h.bytes -= sizeBoundMethod()
		h.tracer.heapFree(value.KindBoundMethod, hd)
	})
}
