package lexer

import (
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/source"
)

// BagAdapter maps lexer error kinds to diagnostic codes and stores them in
// a diag.Bag.
type BagAdapter struct {
	Bag *diag.Bag
}

func (a *BagAdapter) Report(kind string, span source.Span, msg string) {
	code := diag.LexInfo
	switch kind {
	case ErrUnknownChar:
		code = diag.LexUnknownChar
	case ErrUnterminatedString:
		code = diag.LexUnterminatedString
	}
	a.Bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  msg,
		Primary:  span,
	})
}
