package vm

import (
	"io"
	"os"

	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/value"
)

// Options configures a VM.
type Options struct {
	Stdout io.Writer
	Heap   HeapOptions
	Tracer *Tracer
}

// VM executes compiled chunks against a shared heap. One VM serves a whole
// session: globals and interned strings persist across Interpret calls,
// which is what makes the REPL stateful.
type VM struct {
	heap    *Heap
	files   *source.FileSet
	stack   []value.Value
	frames  []callFrame
	globals map[value.Handle]value.Value
	open    openUpvalues

	// initName is the interned "init" string, looked up on every class
	// instantiation.
	initName value.Handle

	stdout io.Writer
	errors errorBuilder
	tracer *Tracer
}

// New creates a VM with its own heap and the standard native library
// installed.
func New(files *source.FileSet, opts Options) *VM {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	heap := NewHeap(opts.Heap, opts.Tracer)
	vm := &VM{
		heap:    heap,
		files:   files,
		stack:   make([]value.Value, 0, StackSize),
		frames:  make([]callFrame, 0, MaxFrames),
		globals: make(map[value.Handle]value.Value),
		open:    newOpenUpvalues(),
		stdout:  out,
		tracer:  opts.Tracer,
	}
	vm.errors.vm = vm
	opts.Tracer.Bind(heap)
	heap.AddRoots(vm)
	vm.initName = heap.Intern("init").H
	vm.installStandardNatives()
	return vm
}

// Heap exposes the heap for the compiler and for disassembly.
func (vm *VM) Heap() *Heap { return vm.heap }

// MarkRoots grays everything the VM can reach: operand stack, call frames,
// globals (keys and values), open upvalues, and the interned "init" name.
func (vm *VM) MarkRoots(m *Marker) {
	for _, v := range vm.stack {
		m.MarkValue(v)
	}
	for i := range vm.frames {
		m.MarkHandle(value.KindClosure, vm.frames[i].closure)
	}
	for name, v := range vm.globals {
		m.MarkHandle(value.KindString, name)
		m.MarkValue(v)
	}
	vm.open.markAll(m)
	m.MarkHandle(value.KindString, vm.initName)
}

// Interpret wraps the compiled script function in a closure and runs it to
// completion. On a runtime error the stack is reset so the VM can be reused.
func (vm *VM) Interpret(script value.Value) error {
	vm.push(script)
	closure := vm.heap.AllocClosure(Closure{Function: script.H})
	vm.pop()
	vm.push(closure)
	if err := vm.call(closure.H, 0); err != nil {
		vm.resetStack()
		return err
	}
	if err := vm.run(); err != nil {
		vm.resetStack()
		return err
	}
	return nil
}

func (vm *VM) resetStack() {
	vm.stack = vm.stack[:0]
	vm.frames = vm.frames[:0]
	vm.open.reset()
}

func (vm *VM) push(v value.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) setTop(distance int, v value.Value) {
	vm.stack[len(vm.stack)-1-distance] = v
}

func (vm *VM) frame() *callFrame {
	return &vm.frames[len(vm.frames)-1]
}
