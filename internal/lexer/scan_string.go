package lexer

import (
	"github.com/woupiestek/rlox/internal/token"
)

// scanString scans a double-quoted literal. Lox strings have no escape
// sequences and may span multiple lines. Text carries the content without
// the quotes.
func (lx *Lexer) scanString() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	for !lx.cursor.EOF() && lx.cursor.Peek() != '"' {
		lx.cursor.Bump()
	}

	if lx.cursor.EOF() {
		sp := lx.cursor.SpanFrom(m)
		lx.report(ErrUnterminatedString, sp, "Unterminated string.")
		return token.Token{
			Kind: token.Invalid,
			Span: sp,
			Text: lx.cursor.TextFrom(m),
		}
	}

	lx.cursor.Bump() // closing quote
	sp := lx.cursor.SpanFrom(m)
	content := lx.file.Content[sp.Start+1 : sp.End-1]
	return token.Token{
		Kind: token.StringLit,
		Span: sp,
		Text: string(content),
	}
}
