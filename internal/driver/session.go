package driver

import (
	"io"

	"github.com/woupiestek/rlox/internal/compiler"
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/lexer"
	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/value"
	"github.com/woupiestek/rlox/internal/vm"
)

// SessionOptions configures interpreter sessions.
type SessionOptions struct {
	Stdout         io.Writer
	MaxDiagnostics int
	Heap           vm.HeapOptions
	Tracer         *vm.Tracer
}

// DefaultMaxDiagnostics bounds diagnostics per compilation when the caller
// gives no limit.
const DefaultMaxDiagnostics = 100

// Session is one interpreter instance: a file set, a VM, and its heap. Run
// and REPL commands hold a session for their whole lifetime so globals and
// interned strings persist across inputs.
type Session struct {
	Files *source.FileSet
	VM    *vm.VM

	maxDiagnostics int
}

// NewSession creates a session with a fresh file set and VM.
func NewSession(opts SessionOptions) *Session {
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = DefaultMaxDiagnostics
	}
	files := source.NewFileSet()
	machine := vm.New(files, vm.Options{
		Stdout: opts.Stdout,
		Heap:   opts.Heap,
		Tracer: opts.Tracer,
	})
	return &Session{
		Files:          files,
		VM:             machine,
		maxDiagnostics: maxDiag,
	}
}

// CompileError reports a failed compilation; the bag holds the details.
type CompileError struct {
	Bag *diag.Bag
}

func (e *CompileError) Error() string {
	return "compilation failed"
}

// CompileFile loads and compiles path without running it.
func (s *Session) CompileFile(path string) (value.Value, error) {
	fileID, err := s.Files.Load(path)
	if err != nil {
		return value.Nil(), err
	}
	return s.compile(s.Files.Get(fileID))
}

// CompileSource compiles an in-memory chunk under a virtual file name. The
// REPL feeds each line through here.
func (s *Session) CompileSource(name string, src []byte) (value.Value, error) {
	fileID := s.Files.AddVirtual(name, src)
	return s.compile(s.Files.Get(fileID))
}

func (s *Session) compile(file *source.File) (value.Value, error) {
	bag := diag.NewBag(s.maxDiagnostics)
	comp := compiler.New(s.VM.Heap(), s.Files, diag.BagReporter{Bag: bag})
	script, ok := comp.Compile(file, &lexer.BagAdapter{Bag: bag})
	if !ok || bag.HasErrors() {
		bag.Sort()
		bag.Dedup()
		return value.Nil(), &CompileError{Bag: bag}
	}
	return script, nil
}

// RunFile compiles and executes path. The error is a file loading error, a
// *CompileError or a *vm.RuntimeError; callers map these to their exit codes.
func (s *Session) RunFile(path string) error {
	script, err := s.CompileFile(path)
	if err != nil {
		return err
	}
	return s.VM.Interpret(script)
}

// RunSource compiles and executes an in-memory chunk.
func (s *Session) RunSource(name string, src []byte) error {
	script, err := s.CompileSource(name, src)
	if err != nil {
		return err
	}
	return s.VM.Interpret(script)
}
