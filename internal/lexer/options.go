package lexer

import (
	"github.com/woupiestek/rlox/internal/source"
)

// Reporter is a thin interface so the lexer does not depend on diag.
// The lexer only calls it; mapping kinds to diagnostic codes is the
// caller's business.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

// Error kinds passed to Reporter.
const (
	ErrUnknownChar        = "unknown-char"
	ErrUnterminatedString = "unterminated-string"
)

type Options struct {
	Reporter Reporter // may be nil; errors are then dropped but lexing continues
}

func (lx *Lexer) report(kind string, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(kind, sp, msg)
	}
}
