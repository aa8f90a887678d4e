// Package vm implements the bytecode interpreter: a handle-based heap with
// typed pools and a tri-color mark-and-sweep collector, interned strings,
// call frames, upvalue management, and the dispatch loop.
package vm

import (
	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/value"
)

// StringObj is an interned, immutable string with its precomputed FNV-1a
// hash. At most one live StringObj exists per byte content.
type StringObj struct {
	Bytes string
	Hash  uint32
}

// Function is a compiled function: its chunk, arity, and upvalue count.
// Name is a string handle; the script function has none.
type Function struct {
	Name         value.Handle
	HasName      bool
	Arity        int
	UpvalueCount int
	Chunk        bytecode.Chunk
	File         source.FileID
}

// NativeFn is the signature of built-in functions. Arity is validated by
// the VM before the call.
type NativeFn func(args []value.Value) value.Value

// Native is a built-in function registered at startup.
type Native struct {
	Name  string
	Arity int
	Fn    NativeFn
}

// unfilledUpvalue marks a closure upvalue slot not yet captured. A closure
// is visible to the collector between its allocation and the capture of its
// last upvalue.
const unfilledUpvalue = ^value.Handle(0)

// Closure pairs a function with the upvalue cells it captured.
type Closure struct {
	Function value.Handle
	Upvalues []value.Handle
}

// Upvalue is a captured variable cell. While open it names a live operand
// stack slot; closing copies the slot's value in and flips the tag, exactly
// once.
type Upvalue struct {
	Open   bool
	Slot   int
	Closed value.Value
}

// Class holds a name and a method table mapping interned string handles to
// closure handles. Values in Methods are always closures.
type Class struct {
	Name    value.Handle
	Methods map[value.Handle]value.Handle
}

// Instance holds its class and a field table keyed by interned string
// handles. The class handle is immutable after construction.
type Instance struct {
	Class  value.Handle
	Fields map[value.Handle]value.Value
}

// BoundMethod pairs a receiver instance with a method closure.
type BoundMethod struct {
	Receiver value.Value
	Method   value.Handle
}
