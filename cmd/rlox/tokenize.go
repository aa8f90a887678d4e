package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/woupiestek/rlox/internal/diagfmt"
	"github.com/woupiestek/rlox/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] script.lox",
	Short: "Tokenize a Lox source file",
	Long:  `Tokenize breaks down a Lox source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics(cmd, cfg))
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if result.Bag.HasErrors() {
		printDiagnostics(cmd, cfg, result.Bag, result.FileSet)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
