package compiler

import (
	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/token"
	"github.com/woupiestek/rlox/internal/value"
	"github.com/woupiestek/rlox/internal/vm"
)

type funcKind int

const (
	kindScript funcKind = iota
	kindFunction
	kindLambda
	kindMethod
	kindInitializer
)

const (
	maxLocals   = 256
	maxUpvalues = 256
	maxArgs     = 255
)

// local is a block-scoped variable. depth is -1 while the initializer is
// being compiled, which is how reads of a variable inside its own
// initializer are caught.
type local struct {
	name       string
	depth      int
	isCaptured bool
}

type upvalue struct {
	index   uint8
	isLocal bool
}

// funcCompiler is the per-function state: the function under construction,
// its lexical slots, and the captured upvalues. They form a stack through
// enclosing, mirroring the nesting of function declarations.
type funcCompiler struct {
	enclosing *funcCompiler
	fn        vm.Function
	kind      funcKind
	locals    []local
	upvalues  []upvalue
	scope     int
}

// classCompiler tracks the innermost enclosing class declaration, which
// gates 'this' and 'super'.
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// beginFunc pushes a fresh function compiler. Slot zero is reserved: for
// methods it holds 'this', elsewhere it holds the callee and is unnameable.
func (c *Compiler) beginFunc(kind funcKind, name token.Token) {
	fc := &funcCompiler{
		enclosing: c.fc,
		kind:      kind,
		fn:        vm.Function{File: c.file},
	}
	switch kind {
	case kindScript:
	case kindLambda:
		fc.fn.Name = c.heap.Intern("anonymous").H
		fc.fn.HasName = true
	default:
		fc.fn.Name = c.heap.Intern(name.Text).H
		fc.fn.HasName = true
	}
	slotZero := local{depth: 0}
	if kind == kindMethod || kind == kindInitializer {
		slotZero.name = "this"
	}
	fc.locals = append(fc.locals, slotZero)
	c.fc = fc
}

// endFunc seals the current function with an implicit return, moves it to
// the heap, and pops back to the enclosing compiler. The allocation happens
// while the function is still on the compiler stack, so a collection inside
// AllocFunction still sees its constants as roots. The returned value is
// only meaningful when compilation succeeded.
func (c *Compiler) endFunc() value.Value {
	c.emitReturn()
	out := value.Nil()
	if !c.hadError {
		out = c.heap.AllocFunction(c.fc.fn)
	}
	c.fc = c.fc.enclosing
	return out
}

func (c *Compiler) chunk() *bytecode.Chunk {
	return &c.fc.fn.Chunk
}

func (c *Compiler) beginScope() {
	c.fc.scope++
}

// endScope pops the scope's locals, closing any that were captured.
func (c *Compiler) endScope() {
	fc := c.fc
	fc.scope--
	for len(fc.locals) > 0 && fc.locals[len(fc.locals)-1].depth > fc.scope {
		if fc.locals[len(fc.locals)-1].isCaptured {
			c.emitOp(bytecode.OpCloseUpvalue)
		} else {
			c.emitOp(bytecode.OpPop)
		}
		fc.locals = fc.locals[:len(fc.locals)-1]
	}
}

// addLocal reserves a slot for name in the current scope, initially
// uninitialized.
func (c *Compiler) addLocal(name token.Token) {
	if len(c.fc.locals) >= maxLocals {
		c.errorAtPrevious(diag.CmpTooManyLocals, "Too many local variables in function.")
		return
	}
	c.fc.locals = append(c.fc.locals, local{name: name.Text, depth: -1})
}

// markInitialized makes the newest local visible. Top-level declarations
// have no local to mark.
func (c *Compiler) markInitialized() {
	if c.fc.scope == 0 {
		return
	}
	c.fc.locals[len(c.fc.locals)-1].depth = c.fc.scope
}

// resolveLocal finds name in the function's own slots, innermost first.
// Returns -1 when the name is not a local.
func (c *Compiler) resolveLocal(fc *funcCompiler, name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		l := &fc.locals[i]
		if l.name == name {
			if l.depth == -1 {
				c.errorAtPrevious(diag.CmpOwnInitializer, "Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue finds name in an enclosing function, threading an upvalue
// chain through every function in between. Returns -1 when the name is not
// found anywhere up the chain, which makes it a global.
func (c *Compiler) resolveUpvalue(fc *funcCompiler, name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if idx := c.resolveLocal(fc.enclosing, name); idx != -1 {
		fc.enclosing.locals[idx].isCaptured = true
		return c.addUpvalue(fc, uint8(idx), true)
	}
	if idx := c.resolveUpvalue(fc.enclosing, name); idx != -1 {
		return c.addUpvalue(fc, uint8(idx), false)
	}
	return -1
}

// addUpvalue returns the index of an existing matching upvalue or appends a
// new one, so a variable captured twice shares a cell.
func (c *Compiler) addUpvalue(fc *funcCompiler, index uint8, isLocal bool) int {
	for i, uv := range fc.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(fc.upvalues) >= maxUpvalues {
		c.errorAtPrevious(diag.CmpTooManyUpvalues, "Too many closure variables in function.")
		return 0
	}
	fc.upvalues = append(fc.upvalues, upvalue{index: index, isLocal: isLocal})
	fc.fn.UpvalueCount = len(fc.upvalues)
	return len(fc.upvalues) - 1
}
