package lexer

import (
	"github.com/woupiestek/rlox/internal/token"
)

// scanNumber scans a decimal literal with an optional fractional part.
// A trailing '.' is not part of the number: "1." lexes as NumberLit Dot.
func (lx *Lexer) scanNumber() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump() // '.'
		for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	return token.Token{
		Kind: token.NumberLit,
		Span: lx.cursor.SpanFrom(m),
		Text: lx.cursor.TextFrom(m),
	}
}
