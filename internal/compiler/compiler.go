// Package compiler translates Lox source into bytecode in one pass: the
// Pratt parser emits instructions as it recognizes constructs, with no AST
// in between. Functions nest; each gets its own chunk, and string and
// function constants go straight onto the interpreter heap.
package compiler

import (
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/lexer"
	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/token"
	"github.com/woupiestek/rlox/internal/value"
	"github.com/woupiestek/rlox/internal/vm"
)

// Compiler drives one compilation: a token stream, a stack of in-progress
// functions, and a stack of enclosing class declarations. It registers
// itself as a heap root source for the duration of Compile, because chunk
// constants hold live handles before the function object exists.
type Compiler struct {
	heap     *vm.Heap
	files    *source.FileSet
	reporter diag.Reporter

	lx       *lexer.Lexer
	file     source.FileID
	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool

	fc    *funcCompiler
	class *classCompiler
}

// New creates a compiler bound to a heap and a diagnostic sink.
func New(heap *vm.Heap, files *source.FileSet, reporter diag.Reporter) *Compiler {
	return &Compiler{heap: heap, files: files, reporter: reporter}
}

// Compile translates one file into a script function value. ok is false
// when any diagnostic was reported; the returned value is then nil.
func (c *Compiler) Compile(file *source.File, lexReporter lexer.Reporter) (value.Value, bool) {
	c.lx = lexer.New(file, lexer.Options{Reporter: lexReporter})
	c.file = file.ID
	c.hadError = false
	c.panicMode = false
	c.class = nil

	c.heap.AddRoots(c)
	defer c.heap.RemoveRoots(c)

	c.beginFunc(kindScript, token.Token{})
	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	script := c.endFunc()
	if c.hadError {
		return value.Nil(), false
	}
	return script, true
}

// MarkRoots grays every constant already emitted into in-progress chunks,
// plus function names, so a collection triggered by Intern or AllocFunction
// mid-compile cannot reclaim them.
func (c *Compiler) MarkRoots(m *vm.Marker) {
	for fc := c.fc; fc != nil; fc = fc.enclosing {
		for _, k := range fc.fn.Chunk.Constants {
			m.MarkValue(k)
		}
		if fc.fn.HasName {
			m.MarkHandle(value.KindString, fc.fn.Name)
		}
	}
}

// line returns the 1-based source line of the previous token, which is the
// token every emit is attributed to.
func (c *Compiler) line() uint32 {
	return c.files.Line(c.file, c.previous.Span.Start)
}
