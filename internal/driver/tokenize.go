// Package driver orchestrates the pipeline phases behind the CLI: file
// loading, tokenization, compilation, execution, and the directory checker
// with its on-disk result cache.
package driver

import (
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/lexer"
	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/token"
)

// TokenizeResult carries everything a token dump needs.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads a file and scans it to EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: &lexer.BagAdapter{Bag: bag}})
	tokens := lx.All()

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
