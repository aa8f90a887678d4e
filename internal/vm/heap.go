package vm

import (
	"github.com/woupiestek/rlox/internal/value"
)

// DefaultGCThreshold is the initial live-byte budget before the first
// collection.
const DefaultGCThreshold = 1 << 20

// DefaultGCGrowth multiplies the surviving byte count to produce the next
// threshold.
const DefaultGCGrowth = 2

// HeapOptions tunes allocation and collection behavior.
type HeapOptions struct {
	InitialThreshold int
	GrowthFactor     int
	// Stress collects before every allocation; for tests and bug hunts.
	Stress bool
}

// Heap owns every runtime object, one typed pool per kind. Allocation may
// trigger a collection before the new object is reserved, so callers must
// keep constituent objects reachable from a registered root source.
type Heap struct {
	strings   stringPool
	functions pool[Function]
	natives   pool[Native]
	closures  pool[Closure]
	upvalues  pool[Upvalue]
	classes   pool[Class]
	instances pool[Instance]
	bound     pool[BoundMethod]

	bytes   int
	nextGC  int
	growth  int
	stress  bool
	tracer  *Tracer
	roots   []RootSource
	cycles  int
}

// NewHeap creates an empty heap.
func NewHeap(opts HeapOptions, tracer *Tracer) *Heap {
	threshold := opts.InitialThreshold
	if threshold <= 0 {
		threshold = DefaultGCThreshold
	}
	growth := opts.GrowthFactor
	if growth < 2 {
		growth = DefaultGCGrowth
	}
	return &Heap{
		nextGC: threshold,
		growth: growth,
		stress: opts.Stress,
		tracer: tracer,
	}
}

// AddRoots registers a root source. The VM and every active compiler
// register themselves so their reachable objects survive collection.
func (h *Heap) AddRoots(r RootSource) {
	h.roots = append(h.roots, r)
}

// RemoveRoots unregisters a root source, typically a finished compiler.
func (h *Heap) RemoveRoots(r RootSource) {
	for i, existing := range h.roots {
		if existing == r {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			return
		}
	}
}

// Bytes returns the current live-byte estimate.
func (h *Heap) Bytes() int { return h.bytes }

// Cycles returns how many collections have run.
func (h *Heap) Cycles() int { return h.cycles }

// CountBytes records n additional owned bytes, used when subsidiary tables
// (fields, methods) grow after allocation.
func (h *Heap) CountBytes(n int) {
	h.bytes += n
	if h.bytes > h.nextGC {
		h.Collect()
	}
}

func (h *Heap) maybeCollect(need int) {
	if h.stress || h.bytes+need > h.nextGC {
		h.Collect()
	}
}

// Size estimates per object kind. Frees must mirror allocations, so all
// accounting goes through these.
func sizeString(s string) int      { return 32 + len(s) }
func sizeFunction(f *Function) int { return 64 + f.Chunk.Size() }
func sizeNative() int              { return 48 }
func sizeClosure(n int) int        { return 32 + 16*n }
func sizeUpvalue() int             { return 48 }
func sizeClass(methods int) int    { return 48 + tableEntrySize*methods }
func sizeInstance(fields int) int  { return 48 + tableEntrySize*fields }
func sizeBoundMethod() int         { return 48 }

// tableEntrySize is the accounting cost of one method or field table entry.
const tableEntrySize = 40

// Intern returns the canonical string value for s, allocating only when s
// has no live object yet.
func (h *Heap) Intern(s string) value.Value {
	hash := fnv1a32(s)
	if existing, ok := h.strings.lookup(s, hash); ok {
		return value.MakeObject(value.KindString, existing)
	}
	h.maybeCollect(sizeString(s))
	handle := h.strings.objs.allocate(StringObj{Bytes: s, Hash: hash})
	h.strings.insert(handle)
	h.bytes += sizeString(s)
	h.tracer.heapAlloc(value.KindString, handle)
	return value.MakeObject(value.KindString, handle)
}

// AllocFunction moves a compiled function into the heap.
func (h *Heap) AllocFunction(fn Function) value.Value {
	size := sizeFunction(&fn)
	h.maybeCollect(size)
	handle := h.functions.allocate(fn)
	h.bytes += size
	h.tracer.heapAlloc(value.KindFunction, handle)
	return value.MakeObject(value.KindFunction, handle)
}

// AllocNative registers a built-in function object.
func (h *Heap) AllocNative(n Native) value.Value {
	h.maybeCollect(sizeNative())
	handle := h.natives.allocate(n)
	h.bytes += sizeNative()
	h.tracer.heapAlloc(value.KindNative, handle)
	return value.MakeObject(value.KindNative, handle)
}

// AllocClosure builds a closure; the upvalue array is owned by the closure.
func (h *Heap) AllocClosure(c Closure) value.Value {
	size := sizeClosure(len(c.Upvalues))
	h.maybeCollect(size)
	handle := h.closures.allocate(c)
	h.bytes += size
	h.tracer.heapAlloc(value.KindClosure, handle)
	return value.MakeObject(value.KindClosure, handle)
}

// AllocUpvalue creates an open upvalue for a stack slot.
func (h *Heap) AllocUpvalue(slot int) value.Value {
	h.maybeCollect(sizeUpvalue())
	handle := h.upvalues.allocate(Upvalue{Open: true, Slot: slot})
	h.bytes += sizeUpvalue()
	h.tracer.heapAlloc(value.KindUpvalue, handle)
	return value.MakeObject(value.KindUpvalue, handle)
}

// AllocClass creates a class with an empty method table.
func (h *Heap) AllocClass(name value.Handle) value.Value {
	h.maybeCollect(sizeClass(0))
	handle := h.classes.allocate(Class{Name: name, Methods: make(map[value.Handle]value.Handle)})
	h.bytes += sizeClass(0)
	h.tracer.heapAlloc(value.KindClass, handle)
	return value.MakeObject(value.KindClass, handle)
}

// AllocInstance creates an instance with an empty field table.
func (h *Heap) AllocInstance(class value.Handle) value.Value {
	h.maybeCollect(sizeInstance(0))
	handle := h.instances.allocate(Instance{Class: class, Fields: make(map[value.Handle]value.Value)})
	h.bytes += sizeInstance(0)
	h.tracer.heapAlloc(value.KindInstance, handle)
	return value.MakeObject(value.KindInstance, handle)
}

// AllocBoundMethod pairs a receiver with a method closure.
func (h *Heap) AllocBoundMethod(receiver value.Value, method value.Handle) value.Value {
	h.maybeCollect(sizeBoundMethod())
	handle := h.bound.allocate(BoundMethod{Receiver: receiver, Method: method})
	h.bytes += sizeBoundMethod()
	h.tracer.heapAlloc(value.KindBoundMethod, handle)
	return value.MakeObject(value.KindBoundMethod, handle)
}

// String resolves a string handle.
func (h *Heap) String(handle value.Handle) *StringObj { return h.strings.objs.get(handle) }

// Function resolves a function handle.
func (h *Heap) Function(handle value.Handle) *Function { return h.functions.get(handle) }

// Native resolves a native handle.
func (h *Heap) Native(handle value.Handle) *Native { return h.natives.get(handle) }

// Closure resolves a closure handle.
func (h *Heap) Closure(handle value.Handle) *Closure { return h.closures.get(handle) }

// Upvalue resolves an upvalue handle.
func (h *Heap) Upvalue(handle value.Handle) *Upvalue { return h.upvalues.get(handle) }

// Class resolves a class handle.
func (h *Heap) Class(handle value.Handle) *Class { return h.classes.get(handle) }

// Instance resolves an instance handle.
func (h *Heap) Instance(handle value.Handle) *Instance { return h.instances.get(handle) }

// BoundMethod resolves a bound method handle.
func (h *Heap) BoundMethod(handle value.Handle) *BoundMethod { return h.bound.get(handle) }
