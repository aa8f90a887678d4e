// Package bytecode defines the instruction set and the per-function Chunk
// that holds emitted code, its constant pool, and a run-length encoded line
// table.
package bytecode

// OpCode is a one-byte instruction tag. Operands follow inline in the code
// stream: u8 for constant/slot indices, big-endian u16 for jump distances.
type OpCode byte

const (
	// OpConstant pushes constants[u8].
	OpConstant OpCode = iota
	// OpNil pushes nil.
	OpNil
	// OpTrue pushes true.
	OpTrue
	// OpFalse pushes false.
	OpFalse
	// OpPop pops one value.
	OpPop
	// OpGetLocal pushes stack[base+u8].
	OpGetLocal
	// OpSetLocal stores the top of stack into stack[base+u8].
	OpSetLocal
	// OpGetGlobal looks up the global named by constants[u8].
	OpGetGlobal
	// OpDefineGlobal defines the global named by constants[u8] from the top of stack.
	OpDefineGlobal
	// OpSetGlobal assigns the global named by constants[u8].
	OpSetGlobal
	// OpGetUpvalue pushes the current closure's upvalue u8.
	OpGetUpvalue
	// OpSetUpvalue stores the top of stack into the current closure's upvalue u8.
	OpSetUpvalue
	// OpGetProperty reads field-or-method constants[u8] from an instance.
	OpGetProperty
	// OpSetProperty writes field constants[u8] on an instance.
	OpSetProperty
	// OpGetSuper binds method constants[u8] from the superclass.
	OpGetSuper
	// OpEqual compares the two topmost values for Lox equality.
	OpEqual
	// OpGreater compares two numbers with >.
	OpGreater
	// OpLess compares two numbers with <.
	OpLess
	// OpAdd adds numbers or concatenates strings.
	OpAdd
	// OpSubtract subtracts two numbers.
	OpSubtract
	// OpMultiply multiplies two numbers.
	OpMultiply
	// OpDivide divides two numbers.
	OpDivide
	// OpNot replaces the top of stack with its logical negation.
	OpNot
	// OpNegate arithmetically negates the top of stack.
	OpNegate
	// OpPrint prints the popped value followed by a newline.
	OpPrint
	// OpJump jumps forward by u16.
	OpJump
	// OpJumpIfFalse jumps forward by u16 when the top of stack is falsey.
	OpJumpIfFalse
	// OpLoop jumps backward by u16.
	OpLoop
	// OpCall calls the value under u8 arguments.
	OpCall
	// OpInvoke fuses property get constants[u8] with a call of u8 arguments.
	OpInvoke
	// OpSuperInvoke fuses super-method get constants[u8] with a call of u8 arguments.
	OpSuperInvoke
	// OpClosure builds a closure over functions[constants[u8]], then reads
	// {is_local, index} byte pairs for each captured upvalue.
	OpClosure
	// OpCloseUpvalue closes the upvalue for the top stack slot, then pops it.
	OpCloseUpvalue
	// OpReturn returns the top of stack from the current frame.
	OpReturn
	// OpClass pushes a new class named constants[u8].
	OpClass
	// OpInherit copies the superclass's methods into the class on top.
	OpInherit
	// OpMethod stores the closure on top as method constants[u8] of the class below it.
	OpMethod

	opCount
)

var opNames = [...]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpGetSuper:     "OP_GET_SUPER",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpInvoke:       "OP_INVOKE",
	OpSuperInvoke:  "OP_SUPER_INVOKE",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
	OpClass:        "OP_CLASS",
	OpInherit:      "OP_INHERIT",
	OpMethod:       "OP_METHOD",
}

// String returns the canonical OP_* name.
func (op OpCode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "OP_UNKNOWN"
}

// Valid reports whether the byte is a defined opcode.
func (op OpCode) Valid() bool {
	return op < opCount
}
