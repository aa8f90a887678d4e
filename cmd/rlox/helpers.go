package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/diagfmt"
	"github.com/woupiestek/rlox/internal/driver"
	"github.com/woupiestek/rlox/internal/project"
	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/vm"
)

const (
	exitCompileError = 65
	exitRuntimeError = 70
)

// loadProjectConfig reads the nearest rlox.toml above the working directory.
// A missing manifest is not an error; a malformed one is.
func loadProjectConfig() (project.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return project.DefaultConfig(), nil
	}
	return project.LoadConfigFrom(cwd)
}

// useColor resolves the --color flag against the manifest and the terminal.
func useColor(cmd *cobra.Command, cfg project.Config, f *os.File) bool {
	flags := cmd.Root().PersistentFlags()
	mode, _ := flags.GetString("color")
	if !flags.Changed("color") && cfg.Interpreter.Color != "" {
		mode = cfg.Interpreter.Color
	}
	switch mode {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		return isTerminal(f)
	}
}

// maxDiagnostics resolves the flag against the manifest.
func maxDiagnostics(cmd *cobra.Command, cfg project.Config) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err == nil && n > 0 {
		return n
	}
	if cfg.Interpreter.MaxDiagnostics > 0 {
		return cfg.Interpreter.MaxDiagnostics
	}
	return driver.DefaultMaxDiagnostics
}

// newSession builds an interpreter session from flags and the manifest.
func newSession(cmd *cobra.Command, cfg project.Config) (*driver.Session, error) {
	flags := cmd.Root().PersistentFlags()

	vmTrace, err := flags.GetBool("vm-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get vm-trace flag: %w", err)
	}
	gcLog, err := flags.GetBool("gc-log")
	if err != nil {
		return nil, fmt.Errorf("failed to get gc-log flag: %w", err)
	}
	gcStress, err := flags.GetBool("gc-stress")
	if err != nil {
		return nil, fmt.Errorf("failed to get gc-stress flag: %w", err)
	}
	gcThreshold, err := flags.GetInt("gc-threshold")
	if err != nil {
		return nil, fmt.Errorf("failed to get gc-threshold flag: %w", err)
	}
	gcGrowth, err := flags.GetInt("gc-growth")
	if err != nil {
		return nil, fmt.Errorf("failed to get gc-growth flag: %w", err)
	}

	if gcThreshold <= 0 {
		gcThreshold = cfg.GC.Threshold
	}
	if gcGrowth <= 0 {
		gcGrowth = cfg.GC.Growth
	}

	var tracer *vm.Tracer
	if vmTrace || gcLog || cfg.GC.Log {
		tracer = vm.NewTracer(os.Stderr)
		tracer.Exec = vmTrace
		tracer.HeapLog = gcLog || cfg.GC.Log
	}

	return driver.NewSession(driver.SessionOptions{
		Stdout:         os.Stdout,
		MaxDiagnostics: maxDiagnostics(cmd, cfg),
		Heap: vm.HeapOptions{
			InitialThreshold: gcThreshold,
			GrowthFactor:     gcGrowth,
			Stress:           gcStress || cfg.GC.Stress,
		},
		Tracer: tracer,
	}), nil
}

// printDiagnostics renders a bag to stderr.
func printDiagnostics(cmd *cobra.Command, cfg project.Config, bag *diag.Bag, files *source.FileSet) {
	diagfmt.Pretty(os.Stderr, bag, files, diagfmt.PrettyOpts{
		Color:     useColor(cmd, cfg, os.Stderr),
		ShowNotes: true,
	})
}
