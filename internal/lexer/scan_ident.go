package lexer

import (
	"github.com/woupiestek/rlox/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	text := lx.cursor.TextFrom(m)
	return token.Token{
		Kind: token.LookupIdent(text),
		Span: lx.cursor.SpanFrom(m),
		Text: text,
	}
}
