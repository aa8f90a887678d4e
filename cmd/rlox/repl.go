package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/woupiestek/rlox/internal/driver"
	"github.com/woupiestek/rlox/internal/version"
	"github.com/woupiestek/rlox/internal/vm"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Lox prompt",
	Long:  `Repl reads Lox statements line by line, sharing globals and interned strings across inputs`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd)
	},
}

// runRepl drives the read-eval-print loop over a single long-lived session.
// Compile and runtime errors print and the loop continues; EOF, or an
// interrupt on an empty line, ends it.
func runRepl(cmd *cobra.Command) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	session, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet && cfg.Repl.Banner {
		printBanner(useColor(cmd, cfg, os.Stdout))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer rl.Close()

	errColor := color.New(color.FgRed, color.Bold)
	if !useColor(cmd, cfg, os.Stderr) {
		errColor.DisableColor()
	}

	for lineNo := 1; ; lineNo++ {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		name := fmt.Sprintf("repl:%d", lineNo)
		runErr := session.RunSource(name, []byte(line))
		if runErr == nil {
			continue
		}
		var compileErr *driver.CompileError
		if errors.As(runErr, &compileErr) {
			printDiagnostics(cmd, cfg, compileErr.Bag, session.Files)
			continue
		}
		var runtimeErr *vm.RuntimeError
		if errors.As(runErr, &runtimeErr) {
			errColor.Fprint(os.Stderr, runtimeErr.Format())
			continue
		}
		return runErr
	}
	return nil
}

func printBanner(colorize bool) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dim := lipgloss.NewStyle().Faint(true)
	if !colorize {
		title = lipgloss.NewStyle()
		dim = lipgloss.NewStyle()
	}
	fmt.Println(title.Render("rlox " + version.Plain))
	fmt.Println(dim.Render("type Lox statements; ctrl-D to exit"))
}

// historyFile returns a per-user history path, or empty to disable history.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rlox_history")
}
