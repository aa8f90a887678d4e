package vm

import (
	"fmt"
	"strings"

	"github.com/woupiestek/rlox/internal/source"
)

// RuntimeCode identifies the type of runtime error.
type RuntimeCode int

// Stable runtime error codes - do not change values.
const (
	RTOperandType      RuntimeCode = 1001 // RT1001: operand type mismatch
	RTWrongArity       RuntimeCode = 1002 // RT1002: wrong argument count
	RTUndefinedVar     RuntimeCode = 1003 // RT1003: undefined variable
	RTUndefinedProp    RuntimeCode = 1004 // RT1004: undefined property
	RTNotCallable      RuntimeCode = 1005 // RT1005: calling a non-callable
	RTNotInstance      RuntimeCode = 1006 // RT1006: property access on non-instance
	RTBadSuperclass    RuntimeCode = 1007 // RT1007: inheriting from a non-class
	RTStackOverflow    RuntimeCode = 1008 // RT1008: call depth exceeded
	RTUpvalueIntegrity RuntimeCode = 1999 // RT1999: internal VM failure; raised for an unknown opcode
)

// String returns the code as "RT1001" format.
func (c RuntimeCode) String() string {
	return fmt.Sprintf("RT%d", c)
}

// BacktraceFrame is one call frame in a runtime error report, innermost
// first.
type BacktraceFrame struct {
	FuncName string
	File     source.FileID
	Line     int
}

// RuntimeError aborts execution and unwinds to the interpreter entry point.
type RuntimeError struct {
	Code      RuntimeCode
	Message   string
	Backtrace []BacktraceFrame
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return e.Message
}

// Format renders the error the way the interpreter reports it: the message,
// then one "[line N] in <fn>" line per frame from innermost to outermost.
func (e *RuntimeError) Format() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	sb.WriteString("\n")
	for _, frame := range e.Backtrace {
		if frame.FuncName == "script" {
			fmt.Fprintf(&sb, "[line %d] in script\n", frame.Line)
		} else {
			fmt.Fprintf(&sb, "[line %d] in %s()\n", frame.Line, frame.FuncName)
		}
	}
	return sb.String()
}

// FormatWithFiles is like Format but prefixes each frame with its file path
// when the set spans more than one file.
func (e *RuntimeError) FormatWithFiles(files *source.FileSet) string {
	if files == nil || files.Len() <= 1 {
		return e.Format()
	}
	var sb strings.Builder
	sb.WriteString(e.Message)
	sb.WriteString("\n")
	for _, frame := range e.Backtrace {
		path := "<unknown>"
		if f := files.Get(frame.File); f != nil {
			path = f.Path
		}
		if frame.FuncName == "script" {
			fmt.Fprintf(&sb, "[%s:%d] in script\n", path, frame.Line)
		} else {
			fmt.Fprintf(&sb, "[%s:%d] in %s()\n", path, frame.Line, frame.FuncName)
		}
	}
	return sb.String()
}

// errorBuilder constructs RuntimeError values with a backtrace snapshot of
// the current frame stack.
type errorBuilder struct {
	vm *VM
}

func (eb *errorBuilder) makeError(code RuntimeCode, msg string) *RuntimeError {
	e := &RuntimeError{
		Code:    code,
		Message: msg,
	}
	e.Backtrace = make([]BacktraceFrame, 0, len(eb.vm.frames))
	for i := len(eb.vm.frames) - 1; i >= 0; i-- {
		frame := &eb.vm.frames[i]
		fn := eb.vm.heap.Function(eb.vm.heap.Closure(frame.closure).Function)
		// ip points one past the instruction that faulted.
		line := fn.Chunk.Line(frame.ip - 1)
		e.Backtrace = append(e.Backtrace, BacktraceFrame{
			FuncName: eb.vm.heap.FunctionName(eb.vm.heap.Closure(frame.closure).Function),
			File:     fn.File,
			Line:     int(line),
		})
	}
	return e
}

func (eb *errorBuilder) operandNumber() *RuntimeError {
	return eb.makeError(RTOperandType, "Operand must be a number.")
}

func (eb *errorBuilder) operandsNumbers() *RuntimeError {
	return eb.makeError(RTOperandType, "Operands must be numbers.")
}

func (eb *errorBuilder) operandsAddable() *RuntimeError {
	return eb.makeError(RTOperandType, "Operands must be two numbers or two strings.")
}

func (eb *errorBuilder) wrongArity(expected, got int) *RuntimeError {
	return eb.makeError(RTWrongArity, fmt.Sprintf("Expected %d arguments but got %d.", expected, got))
}

func (eb *errorBuilder) undefinedVariable(name string) *RuntimeError {
	return eb.makeError(RTUndefinedVar, fmt.Sprintf("Undefined variable '%s'.", name))
}

func (eb *errorBuilder) undefinedProperty(name string) *RuntimeError {
	return eb.makeError(RTUndefinedProp, fmt.Sprintf("Undefined property '%s'.", name))
}

func (eb *errorBuilder) notCallable() *RuntimeError {
	return eb.makeError(RTNotCallable, "Can only call functions and classes.")
}

func (eb *errorBuilder) onlyInstancesHaveProperties() *RuntimeError {
	return eb.makeError(RTNotInstance, "Only instances have properties.")
}

func (eb *errorBuilder) onlyInstancesHaveFields() *RuntimeError {
	return eb.makeError(RTNotInstance, "Only instances have fields.")
}

func (eb *errorBuilder) badSuperclass() *RuntimeError {
	return eb.makeError(RTBadSuperclass, "Superclass must be a class.")
}

func (eb *errorBuilder) stackOverflow() *RuntimeError {
	return eb.makeError(RTStackOverflow, "Stack overflow.")
}
