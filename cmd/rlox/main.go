package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/woupiestek/rlox/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rlox [script.lox]",
	Short: "Lox bytecode compiler and virtual machine",
	Long:  `rlox compiles Lox source to bytecode and executes it on a stack VM`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runRepl(cmd)
		}
		return runScript(cmd, args[0])
	},
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Bool("vm-trace", false, "trace every executed instruction to stderr")
	rootCmd.PersistentFlags().Bool("gc-log", false, "log heap allocations and collections to stderr")
	rootCmd.PersistentFlags().Bool("gc-stress", false, "collect garbage before every allocation")
	rootCmd.PersistentFlags().Int("gc-threshold", 0, "initial collection threshold in bytes")
	rootCmd.PersistentFlags().Int("gc-growth", 0, "threshold growth factor after each collection")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the given file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to the given file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to the given file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
