package vm

import (
	"time"

	"github.com/woupiestek/rlox/internal/value"
)

// DefineNative registers a built-in under name in the global table. The
// name is interned first and both values stay on the operand stack until
// they are stored in globals, which are roots, so ordering here is
// collection-safe.
func (vm *VM) DefineNative(name string, arity int, fn NativeFn) {
	nameVal := vm.heap.Intern(name)
	vm.push(nameVal)
	native := vm.heap.AllocNative(Native{Name: name, Arity: arity, Fn: fn})
	vm.push(native)
	vm.globals[nameVal.H] = native
	vm.pop()
	vm.pop()
}

// installStandardNatives defines the built-in library. The clock epoch is
// the moment the VM installs its natives, so scripts measure elapsed, not
// wall, time.
func (vm *VM) installStandardNatives() {
	start := time.Now()
	vm.DefineNative("clock", 0, func(_ []value.Value) value.Value {
		return value.MakeNumber(time.Since(start).Seconds())
	})
}
