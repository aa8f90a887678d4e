package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/woupiestek/rlox/internal/driver"
	"github.com/woupiestek/rlox/internal/vm"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] script.lox",
	Short: "Compile and execute a Lox script",
	Long:  `Run compiles a Lox source file to bytecode and executes it on the VM`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScript(cmd, args[0])
	},
}

// runScript executes one file and exits with 65 on compile errors or 70 on
// runtime errors. Other failures (unreadable file, bad manifest) surface as
// ordinary command errors.
func runScript(cmd *cobra.Command, path string) error {
	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	session, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}

	runErr := session.RunFile(path)
	if runErr == nil {
		return nil
	}

	// os.Exit skips deferred calls, so flush profiles by hand first.
	var compileErr *driver.CompileError
	if errors.As(runErr, &compileErr) {
		printDiagnostics(cmd, cfg, compileErr.Bag, session.Files)
		cleanup()
		os.Exit(exitCompileError)
	}
	var runtimeErr *vm.RuntimeError
	if errors.As(runErr, &runtimeErr) {
		fmt.Fprint(os.Stderr, runtimeErr.FormatWithFiles(session.Files))
		cleanup()
		os.Exit(exitRuntimeError)
	}
	return runErr
}
