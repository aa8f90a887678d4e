package vm

import (
	"fmt"

	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/value"
)

// run is the dispatch loop. It executes the topmost frame until the script
// frame returns; every branch that can fail returns a *RuntimeError, which
// the caller formats with the frame backtrace.
func (vm *VM) run() error {
	for {
		frame := vm.frame()

		if vm.tracer != nil && vm.tracer.Exec {
			op := bytecode.OpCode(frame.fn.Chunk.Code[frame.ip])
			vm.tracer.TraceInstr(len(vm.frames), vm.heap.FunctionName(vm.heap.Closure(frame.closure).Function),
				frame.ip, op.String(), vm.stack)
		}

		switch op := bytecode.OpCode(frame.readByte()); op {
		case bytecode.OpConstant:
			vm.push(frame.readConstant())

		case bytecode.OpNil:
			vm.push(value.Nil())

		case bytecode.OpTrue:
			vm.push(value.MakeBool(true))

		case bytecode.OpFalse:
			vm.push(value.MakeBool(false))

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := int(frame.readByte())
			vm.push(vm.stack[frame.base+slot])

		case bytecode.OpSetLocal:
			slot := int(frame.readByte())
			vm.stack[frame.base+slot] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := frame.readConstant()
			v, ok := vm.globals[name.H]
			if !ok {
				return vm.errors.undefinedVariable(vm.heap.String(name.H).Bytes)
			}
			vm.push(v)

		case bytecode.OpDefineGlobal:
			name := frame.readConstant()
			vm.globals[name.H] = vm.peek(0)
			vm.pop()

		case bytecode.OpSetGlobal:
			name := frame.readConstant()
			if _, ok := vm.globals[name.H]; !ok {
				return vm.errors.undefinedVariable(vm.heap.String(name.H).Bytes)
			}
			vm.globals[name.H] = vm.peek(0)

		case bytecode.OpGetUpvalue:
			idx := int(frame.readByte())
			uv := vm.heap.Upvalue(vm.heap.Closure(frame.closure).Upvalues[idx])
			if uv.Open {
				vm.push(vm.stack[uv.Slot])
			} else {
				vm.push(uv.Closed)
			}

		case bytecode.OpSetUpvalue:
			idx := int(frame.readByte())
			uv := vm.heap.Upvalue(vm.heap.Closure(frame.closure).Upvalues[idx])
			if uv.Open {
				vm.stack[uv.Slot] = vm.peek(0)
			} else {
				uv.Closed = vm.peek(0)
			}

		case bytecode.OpGetProperty:
			name := frame.readConstant()
			receiver := vm.peek(0)
			if receiver.Kind != value.KindInstance {
				return vm.errors.onlyInstancesHaveProperties()
			}
			instance := vm.heap.Instance(receiver.H)
			if field, ok := instance.Fields[name.H]; ok {
				vm.pop()
				vm.push(field)
				break
			}
			if err := vm.bindMethod(instance.Class, name.H); err != nil {
				return err
			}

		case bytecode.OpSetProperty:
			name := frame.readConstant()
			receiver := vm.peek(1)
			if receiver.Kind != value.KindInstance {
				return vm.errors.onlyInstancesHaveFields()
			}
			instance := vm.heap.Instance(receiver.H)
			if _, ok := instance.Fields[name.H]; !ok {
				vm.heap.CountBytes(tableEntrySize)
			}
			instance.Fields[name.H] = vm.peek(0)
			v := vm.pop()
			vm.pop()
			vm.push(v)

		case bytecode.OpGetSuper:
			name := frame.readConstant()
			superclass := vm.pop()
			if err := vm.bindMethod(superclass.H, name.H); err != nil {
				return err
			}

		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.MakeBool(value.Equal(a, b)))

		case bytecode.OpGreater:
			if err := vm.binaryCompare(op); err != nil {
				return err
			}

		case bytecode.OpLess:
			if err := vm.binaryCompare(op); err != nil {
				return err
			}

		case bytecode.OpAdd:
			a, b := vm.peek(1), vm.peek(0)
			switch {
			case a.Kind == value.KindNumber && b.Kind == value.KindNumber:
				vm.pop()
				vm.pop()
				vm.push(value.MakeNumber(a.Num + b.Num))
			case a.Kind == value.KindString && b.Kind == value.KindString:
				// Operands stay on the stack until the result is interned so
				// a collection inside Intern cannot reclaim them.
				result := vm.heap.Intern(vm.heap.String(a.H).Bytes + vm.heap.String(b.H).Bytes)
				vm.pop()
				vm.pop()
				vm.push(result)
			default:
				return vm.errors.operandsAddable()
			}

		case bytecode.OpSubtract, bytecode.OpMultiply, bytecode.OpDivide:
			if err := vm.binaryArith(op); err != nil {
				return err
			}

		case bytecode.OpNot:
			v := vm.pop()
			vm.push(value.MakeBool(v.IsFalsey()))

		case bytecode.OpNegate:
			if vm.peek(0).Kind != value.KindNumber {
				return vm.errors.operandNumber()
			}
			v := vm.pop()
			vm.push(value.MakeNumber(-v.Num))

		case bytecode.OpPrint:
			fmt.Fprintln(vm.stdout, vm.heap.FormatValue(vm.pop()))

		case bytecode.OpJump:
			dist := int(frame.readU16())
			frame.ip += dist

		case bytecode.OpJumpIfFalse:
			dist := int(frame.readU16())
			if vm.peek(0).IsFalsey() {
				frame.ip += dist
			}

		case bytecode.OpLoop:
			dist := int(frame.readU16())
			frame.ip -= dist

		case bytecode.OpCall:
			argc := int(frame.readByte())
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				return err
			}

		case bytecode.OpInvoke:
			name := frame.readConstant()
			argc := int(frame.readByte())
			if err := vm.invoke(name.H, argc); err != nil {
				return err
			}

		case bytecode.OpSuperInvoke:
			name := frame.readConstant()
			argc := int(frame.readByte())
			superclass := vm.pop()
			if err := vm.invokeFromClass(superclass.H, name.H, argc); err != nil {
				return err
			}

		case bytecode.OpClosure:
			fnConst := frame.readConstant()
			fn := vm.heap.Function(fnConst.H)
			upvalues := make([]value.Handle, fn.UpvalueCount)
			for i := range upvalues {
				upvalues[i] = unfilledUpvalue
			}
			closure := vm.heap.AllocClosure(Closure{Function: fnConst.H, Upvalues: upvalues})
			// Push before capturing: AllocUpvalue inside capture may collect,
			// and the closure must already be a root then. Unfilled entries
			// carry a sentinel the marker skips.
			vm.push(closure)
			for i := range upvalues {
				isLocal := frame.readByte()
				index := int(frame.readByte())
				if isLocal == 1 {
					upvalues[i] = vm.open.capture(vm.heap, frame.base+index)
				} else {
					upvalues[i] = vm.heap.Closure(frame.closure).Upvalues[index]
				}
			}

		case bytecode.OpCloseUpvalue:
			vm.open.closeFrom(vm.heap, vm.stack, len(vm.stack)-1)
			vm.pop()

		case bytecode.OpReturn:
			result := vm.pop()
			base := frame.base
			vm.open.closeFrom(vm.heap, vm.stack, base)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.stack = vm.stack[:base]
			vm.push(result)

		case bytecode.OpClass:
			name := frame.readConstant()
			vm.push(vm.heap.AllocClass(name.H))

		case bytecode.OpInherit:
			superclass := vm.peek(1)
			if superclass.Kind != value.KindClass {
				return vm.errors.badSuperclass()
			}
			subclass := vm.heap.Class(vm.peek(0).H)
			methods := vm.heap.Class(superclass.H).Methods
			vm.heap.CountBytes(tableEntrySize * len(methods))
			for name, method := range methods {
				subclass.Methods[name] = method
			}
			vm.pop()

		case bytecode.OpMethod:
			name := frame.readConstant()
			method := vm.peek(0)
			class := vm.heap.Class(vm.peek(1).H)
			if _, ok := class.Methods[name.H]; !ok {
				vm.heap.CountBytes(tableEntrySize)
			}
			class.Methods[name.H] = method.H
			vm.pop()

		default:
			return vm.errors.makeError(RTUpvalueIntegrity, fmt.Sprintf("unknown opcode %d", byte(op)))
		}
	}
}

func (vm *VM) binaryArith(op bytecode.OpCode) error {
	if vm.peek(0).Kind != value.KindNumber || vm.peek(1).Kind != value.KindNumber {
		return vm.errors.operandsNumbers()
	}
	b := vm.pop()
	a := vm.pop()
	switch op {
	case bytecode.OpSubtract:
		vm.push(value.MakeNumber(a.Num - b.Num))
	case bytecode.OpMultiply:
		vm.push(value.MakeNumber(a.Num * b.Num))
	case bytecode.OpDivide:
		vm.push(value.MakeNumber(a.Num / b.Num))
	}
	return nil
}

func (vm *VM) binaryCompare(op bytecode.OpCode) error {
	if vm.peek(0).Kind != value.KindNumber || vm.peek(1).Kind != value.KindNumber {
		return vm.errors.operandsNumbers()
	}
	b := vm.pop()
	a := vm.pop()
	if op == bytecode.OpGreater {
		vm.push(value.MakeBool(a.Num > b.Num))
	} else {
		vm.push(value.MakeBool(a.Num < b.Num))
	}
	return nil
}
