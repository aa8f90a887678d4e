package fuzztests

import (
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса

// languageSeeds cover every statement and expression form, so the fuzzer
// starts from inputs that reach deep into the compiler before mutating.
var languageSeeds = []string{
	"",
	"print 1 + 2 * 3;",
	`print "con" + "cat";`,
	"var a = 1; a = a + 1; print a;",
	`{ var a = "outer"; { var a = "inner"; print a; } }`,
	"if (1 < 2) print true; else print false;",
	"print nil or 2; print false and 1;",
	"for (var i = 0; i < 3; i = i + 1) print i;",
	"var i = 0; while (i < 3) { i = i + 1; }",
	"fun fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); } print fib(10);",
	"var f = fun (x) { return x * x; }; print f(4);",
	`fun make() { var n = 0; fun inc() { n = n + 1; return n; } return inc; }
var c = make(); print c(); print c();`,
	`class A { init(v) { this.v = v; } get() { return this.v; } }
class B < A { get() { return super.get() + 1; } }
print B(1).get();`,
	"// comment only\n",
	`"unterminated`,
	"var @ = 1;",
	"print (1;",
	"return 1;",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
