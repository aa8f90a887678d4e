package driver

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woupiestek/rlox/internal/vm"
)

// runProgram executes src in a fresh session and returns its stdout.
func runProgram(t *testing.T, src string, heap vm.HeapOptions) (string, error) {
	t.Helper()
	var out bytes.Buffer
	session := NewSession(SessionOptions{Stdout: &out, Heap: heap})
	err := session.RunSource("test.lox", []byte(src))
	return out.String(), err
}

func TestPrograms(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"print number", "print 1 + 2;", "3\n"},
		{"print string", `print "hi";`, "hi\n"},
		{"print bool", "print !true;", "false\n"},
		{"print nil", "print nil;", "nil\n"},
		{"grouping precedence", "print (1 + 2) * 3;", "9\n"},
		{"comparison chain", "print 1 < 2 == true;", "true\n"},
		{"string concat", `print "ab" + "cd";`, "abcd\n"},
		{"global var", "var a = 7; print a;", "7\n"},
		{"assignment", "var a = 1; a = a + 1; print a;", "2\n"},
		{"block scope shadowing", `var a = "outer"; { var a = "inner"; print a; } print a;`, "inner\nouter\n"},
		{"if true", "if (true) print 1; else print 2;", "1\n"},
		{"if false", "if (false) print 1; else print 2;", "2\n"},
		{"and short circuit", "print false and 1;", "false\n"},
		{"or short circuit", "print nil or 2;", "2\n"},
		{"while loop", "var i = 0; while (i < 3) { print i; i = i + 1; }", "0\n1\n2\n"},
		{"for loop", "for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2\n"},
		{
			"function call",
			"fun add(a, b) { return a + b; } print add(1, 2);",
			"3\n",
		},
		{
			"recursion",
			"fun fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); }\nprint fib(10);",
			"55\n",
		},
		{
			"closure counter",
			"var counter = (fun () { var i = 0; fun count() { i = i + 1; return i; } return count; })();\n" +
				"print counter(); print counter(); print counter();",
			"1\n2\n3\n",
		},
		{
			"shared upvalue aliasing",
			`fun make() {
  var x = 0;
  fun get() { return x; }
  fun set(v) { x = v; }
  set(42);
  return get;
}
print make()();`,
			"42\n",
		},
		{
			"class with method",
			`class Greeter { hello() { print "hello"; } } Greeter().hello();`,
			"hello\n",
		},
		{
			"init and fields",
			"class Pair { init(a,b) { this.a = a; this.b = b; } }\nvar p = Pair(1,2); print p.a + p.b;",
			"3\n",
		},
		{
			"inheritance and super",
			`class A { greet() { print "A"; } }
class B < A { greet() { super.greet(); print "B"; } }
B().greet();`,
			"A\nB\n",
		},
		{
			"string interning equality",
			`var a = "foo"; var b = "f" + "oo"; print a == b;`,
			"true\n",
		},
		{
			"bound method detaches",
			`class C { init() { this.tag = "c"; } show() { print this.tag; } }
var m = C().show;
m();`,
			"c\n",
		},
		{
			"field shadows method",
			`class C { m() { print "method"; } }
var c = C();
fun shadow() { print "field"; }
c.m = shadow;
c.m();`,
			"field\n",
		},
		{
			"initializer returns this",
			`class C { init() { this.v = 9; } }
var c = C();
var d = c.init();
print d.v;`,
			"9\n",
		},
		{
			"nested closures capture transitively",
			`fun outer() {
  var a = "a";
  fun middle() {
    fun inner() { print a; }
    return inner;
  }
  return middle();
}
outer()();`,
			"a\n",
		},
		{
			"upvalue closed at scope exit",
			`var f;
{
  var x = "captured";
  fun g() { print x; }
  f = g;
}
f();`,
			"captured\n",
		},
		{
			"number formatting integral",
			"print 4 / 2;",
			"2\n",
		},
		{
			"negate and not",
			"print -(3); print !nil;",
			"-3\ntrue\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runProgram(t, tc.src, vm.HeapOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

// The same programs must behave identically when a collection runs before
// every allocation.
func TestProgramsUnderGCStress(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			"closure counter",
			"var counter = (fun () { var i = 0; fun count() { i = i + 1; return i; } return count; })();\n" +
				"print counter(); print counter(); print counter();",
			"1\n2\n3\n",
		},
		{
			"inheritance and super",
			`class A { greet() { print "A"; } }
class B < A { greet() { super.greet(); print "B"; } }
B().greet();`,
			"A\nB\n",
		},
		{
			"garbage in a loop",
			`var keep = "";
for (var i = 0; i < 50; i = i + 1) {
  var garbage = "x" + "y";
  keep = garbage;
}
print keep;`,
			"xy\n",
		},
		{
			"instances become garbage",
			`class Box { init(v) { this.v = v; } }
var last = nil;
for (var i = 0; i < 20; i = i + 1) {
  last = Box(i);
}
print last.v;`,
			"19\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runProgram(t, tc.src, vm.HeapOptions{Stress: true})
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		message string
	}{
		{"add number and nil", "print 1 + nil;", "Operands must be two numbers or two strings."},
		{"negate string", `print -"a";`, "Operand must be a number."},
		{"subtract strings", `print "a" - "b";`, "Operands must be numbers."},
		{"undefined variable", "print missing;", "Undefined variable 'missing'."},
		{"call number", "1();", "Can only call functions and classes."},
		{"wrong arity", "fun f(a) {} f(1, 2);", "Expected 1 arguments but got 2."},
		{"property on number", "print 1.x;", "Only instances have properties."},
		{"set field on number", "1.x = 2;", "Only instances have fields."},
		{"undefined property", "class C {} print C().missing;", "Undefined property 'missing'."},
		{"inherit from non-class", "var NotClass = 1; class Sub < NotClass {}", "Superclass must be a class."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runProgram(t, tc.src, vm.HeapOptions{})
			require.Error(t, err)
			var rerr *vm.RuntimeError
			require.True(t, errors.As(err, &rerr), "want runtime error, got %T", err)
			assert.Equal(t, tc.message, rerr.Message)
		})
	}
}

func TestRuntimeErrorBacktrace(t *testing.T) {
	src := `fun a() { b(); }
fun b() { c(); }
fun c() { c("too many"); }
a();`
	_, err := runProgram(t, src, vm.HeapOptions{})
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.True(t, errors.As(err, &rerr))

	formatted := rerr.Format()
	assert.Contains(t, formatted, "Expected 0 arguments but got 1.")
	assert.Contains(t, formatted, "in c()")
	assert.Contains(t, formatted, "in b()")
	assert.Contains(t, formatted, "in a()")
	assert.Contains(t, formatted, "in script")
}

func TestStackOverflow(t *testing.T) {
	_, err := runProgram(t, "fun f() { f(); } f();", vm.HeapOptions{})
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "Stack overflow.", rerr.Message)
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		message string
	}{
		{"missing semicolon", "print 1", "Expect ';' after value."},
		{"unclosed paren", "print (1;", "Expect ')' after expression."},
		{"return at top level", "return 1;", "Can't return from top-level code."},
		{"this outside class", "print this;", "Can't use 'this' outside of a class."},
		{"super outside class", "print super.x;", "Can't use 'super' outside of a class."},
		{
			"super without superclass",
			"class C { m() { super.m(); } }",
			"Can't use 'super' in a class with no superclass.",
		},
		{"self inheritance", "class A < A {}", "A class can't inherit from itself."},
		{
			"duplicate local",
			"{ var a = 1; var a = 2; }",
			"Already a variable with this name in this scope.",
		},
		{
			"own initializer",
			"{ var a = a; }",
			"Can't read local variable in its own initializer.",
		},
		{
			"return value from init",
			"class C { init() { return 1; } }",
			"Can't return a value from an initializer.",
		},
		{"invalid assignment", "1 + 2 = 3;", "Invalid assignment target."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runProgram(t, tc.src, vm.HeapOptions{})
			require.Error(t, err)
			var cerr *CompileError
			require.True(t, errors.As(err, &cerr), "want compile error, got %T", err)

			found := false
			for _, d := range cerr.Bag.Items() {
				if strings.Contains(d.Message, tc.message) {
					found = true
					break
				}
			}
			assert.True(t, found, "no diagnostic contains %q; got %v", tc.message, cerr.Bag.Items())
		})
	}
}

func TestReplGlobalsPersist(t *testing.T) {
	var out bytes.Buffer
	session := NewSession(SessionOptions{Stdout: &out})

	require.NoError(t, session.RunSource("repl:1", []byte("var a = 10;")))
	require.NoError(t, session.RunSource("repl:2", []byte("fun twice(n) { return 2 * n; }")))
	require.NoError(t, session.RunSource("repl:3", []byte("print twice(a);")))
	assert.Equal(t, "20\n", out.String())
}

func TestReplErrorsDoNotPoisonSession(t *testing.T) {
	var out bytes.Buffer
	session := NewSession(SessionOptions{Stdout: &out})

	require.NoError(t, session.RunSource("repl:1", []byte("var a = 1;")))
	require.Error(t, session.RunSource("repl:2", []byte("print missing;")))
	require.NoError(t, session.RunSource("repl:3", []byte("print a;")))
	assert.Equal(t, "1\n", out.String())
}

func TestClockNative(t *testing.T) {
	out, err := runProgram(t, "print clock() >= 0;", vm.HeapOptions{})
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}
