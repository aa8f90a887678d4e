package driver

import (
	"io"

	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/value"
	"github.com/woupiestek/rlox/internal/vm"
)

// Disassemble writes listings for the script chunk and, depth-first, every
// function constant it transitively contains.
func Disassemble(w io.Writer, heap *vm.Heap, script value.Value) {
	disasmFunction(w, heap, script.H)
}

func disasmFunction(w io.Writer, heap *vm.Heap, fn value.Handle) {
	f := heap.Function(fn)
	bytecode.Disassemble(w, heap.FunctionName(fn), &f.Chunk, heap.Resolver())
	for _, k := range f.Chunk.Constants {
		if k.Kind == value.KindFunction {
			io.WriteString(w, "\n")
			disasmFunction(w, heap, k.H)
		}
	}
}
