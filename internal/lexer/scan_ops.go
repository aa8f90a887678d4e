package lexer

import (
	"github.com/woupiestek/rlox/internal/token"
)

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	m := lx.cursor.Mark()
	ch := lx.cursor.Bump()

	var kind token.Kind
	switch ch {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case '-':
		kind = token.Minus
	case '+':
		kind = token.Plus
	case ';':
		kind = token.Semicolon
	case '/':
		kind = token.Slash
	case '*':
		kind = token.Star
	case '!':
		if lx.cursor.Eat('=') {
			kind = token.BangEq
		} else {
			kind = token.Bang
		}
	case '=':
		if lx.cursor.Eat('=') {
			kind = token.EqEq
		} else {
			kind = token.Assign
		}
	case '<':
		if lx.cursor.Eat('=') {
			kind = token.LtEq
		} else {
			kind = token.Lt
		}
	case '>':
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		} else {
			kind = token.Gt
		}
	default:
		sp := lx.cursor.SpanFrom(m)
		lx.report(ErrUnknownChar, sp, "Unexpected character.")
		return token.Token{
			Kind: token.Invalid,
			Span: sp,
			Text: lx.cursor.TextFrom(m),
		}
	}

	return token.Token{
		Kind: kind,
		Span: lx.cursor.SpanFrom(m),
		Text: lx.cursor.TextFrom(m),
	}
}
