package token

import (
	"github.com/woupiestek/rlox/internal/source"
)

// Token represents a single source token with its location.
// Text holds the token's source text (for a string literal, the content
// between the quotes); identifier and literal handling reads it directly
// instead of re-slicing the file.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, string, boolean or nil
// literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwAnd, KwClass, KwElse, KwFalse, KwFor, KwFun, KwIf, KwNil, KwOr,
		KwPrint, KwReturn, KwSuper, KwThis, KwTrue, KwVar, KwWhile:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// StartsStatement reports whether the token can begin a statement; the
// compiler resynchronizes at these after a parse error.
func (t Token) StartsStatement() bool {
	switch t.Kind {
	case KwClass, KwFun, KwVar, KwFor, KwIf, KwWhile, KwPrint, KwReturn:
		return true
	default:
		return false
	}
}
