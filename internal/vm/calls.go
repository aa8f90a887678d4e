package vm

import (
	"github.com/woupiestek/rlox/internal/value"
)

// callValue dispatches a call on the value sitting argc slots below the
// stack top. Closures push a frame; classes construct; natives run inline.
func (vm *VM) callValue(callee value.Value, argc int) error {
	switch callee.Kind {
	case value.KindClosure:
		return vm.call(callee.H, argc)

	case value.KindNative:
		native := vm.heap.Native(callee.H)
		if argc != native.Arity {
			return vm.errors.wrongArity(native.Arity, argc)
		}
		args := vm.stack[len(vm.stack)-argc:]
		result := native.Fn(args)
		vm.stack = vm.stack[:len(vm.stack)-argc-1]
		vm.push(result)
		return nil

	case value.KindClass:
		instance := vm.heap.AllocInstance(callee.H)
		// The receiver replaces the class on the stack, so init sees it at
		// slot zero.
		vm.setTop(argc, instance)
		if init, ok := vm.heap.Class(callee.H).Methods[vm.initName]; ok {
			return vm.call(init, argc)
		}
		if argc != 0 {
			return vm.errors.wrongArity(0, argc)
		}
		return nil

	case value.KindBoundMethod:
		bound := vm.heap.BoundMethod(callee.H)
		vm.setTop(argc, bound.Receiver)
		return vm.call(bound.Method, argc)

	default:
		return vm.errors.notCallable()
	}
}

// call pushes a frame for a closure whose callee and args already occupy the
// stack top.
func (vm *VM) call(closure value.Handle, argc int) error {
	fn := vm.heap.Function(vm.heap.Closure(closure).Function)
	if argc != fn.Arity {
		return vm.errors.wrongArity(fn.Arity, argc)
	}
	if len(vm.frames) >= MaxFrames {
		return vm.errors.stackOverflow()
	}
	vm.frames = append(vm.frames, callFrame{
		closure: closure,
		fn:      fn,
		base:    len(vm.stack) - argc - 1,
	})
	return nil
}

// invoke is the fused property-access-and-call path: fields shadowing
// methods still win, so a callable field goes through callValue.
func (vm *VM) invoke(name value.Handle, argc int) error {
	receiver := vm.peek(argc)
	if receiver.Kind != value.KindInstance {
		return vm.errors.onlyInstancesHaveProperties()
	}
	instance := vm.heap.Instance(receiver.H)
	if field, ok := instance.Fields[name]; ok {
		vm.setTop(argc, field)
		return vm.callValue(field, argc)
	}
	return vm.invokeFromClass(instance.Class, name, argc)
}

func (vm *VM) invokeFromClass(class value.Handle, name value.Handle, argc int) error {
	method, ok := vm.heap.Class(class).Methods[name]
	if !ok {
		return vm.errors.undefinedProperty(vm.heap.String(name).Bytes)
	}
	return vm.call(method, argc)
}

// bindMethod replaces the instance on top of the stack with a bound method
// pairing it with the named method of class.
func (vm *VM) bindMethod(class value.Handle, name value.Handle) error {
	method, ok := vm.heap.Class(class).Methods[name]
	if !ok {
		return vm.errors.undefinedProperty(vm.heap.String(name).Bytes)
	}
	bound := vm.heap.AllocBoundMethod(vm.peek(0), method)
	vm.pop()
	vm.push(bound)
	return nil
}
