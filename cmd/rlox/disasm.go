package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/woupiestek/rlox/internal/driver"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] script.lox",
	Short: "Compile a Lox script and print its bytecode",
	Long:  `Disasm compiles a script without running it and lists every chunk, including nested function constants`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDisasm,
}

func runDisasm(cmd *cobra.Command, args []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	session, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}

	script, compileErr := session.CompileFile(args[0])
	if compileErr != nil {
		var ce *driver.CompileError
		if errors.As(compileErr, &ce) {
			printDiagnostics(cmd, cfg, ce.Bag, session.Files)
			os.Exit(exitCompileError)
		}
		return compileErr
	}

	driver.Disassemble(os.Stdout, session.VM.Heap(), script)
	return nil
}
