package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// NumberLit represents a numeric literal token.
	NumberLit
	// StringLit represents a string literal token.
	StringLit

	// LParen represents the '(' token.
	LParen // (
	// RParen represents the ')' token.
	RParen // )
	// LBrace represents the '{' token.
	LBrace // {
	// RBrace represents the '}' token.
	RBrace // }
	// Comma represents the ',' token.
	Comma // ,
	// Dot represents the '.' token.
	Dot // .
	// Minus represents the '-' token.
	Minus // -
	// Plus represents the '+' token.
	Plus // +
	// Semicolon represents the ';' token.
	Semicolon // ;
	// Slash represents the '/' token.
	Slash // /
	// Star represents the '*' token.
	Star // *

	// Bang represents the '!' token.
	Bang // !
	// BangEq represents the '!=' token.
	BangEq // !=
	// Assign represents the '=' token.
	Assign // =
	// EqEq represents the '==' token.
	EqEq // ==
	// Gt represents the '>' token.
	Gt // >
	// GtEq represents the '>=' token.
	GtEq // >=
	// Lt represents the '<' token.
	Lt // <
	// LtEq represents the '<=' token.
	LtEq // <=

	// KwAnd represents the 'and' keyword.
	KwAnd // and
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwFalse represents the 'false' keyword.
	KwFalse // false
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwFun represents the 'fun' keyword.
	KwFun // fun
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwNil represents the 'nil' keyword.
	KwNil // nil
	// KwOr represents the 'or' keyword.
	KwOr // or
	// KwPrint represents the 'print' keyword.
	KwPrint // print
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwSuper represents the 'super' keyword.
	KwSuper // super
	// KwThis represents the 'this' keyword.
	KwThis // this
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwWhile represents the 'while' keyword.
	KwWhile // while

	kindCount
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	NumberLit: "NumberLit",
	StringLit: "StringLit",
	LParen:    "LParen",
	RParen:    "RParen",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	Comma:     "Comma",
	Dot:       "Dot",
	Minus:     "Minus",
	Plus:      "Plus",
	Semicolon: "Semicolon",
	Slash:     "Slash",
	Star:      "Star",
	Bang:      "Bang",
	BangEq:    "BangEq",
	Assign:    "Assign",
	EqEq:      "EqEq",
	Gt:        "Gt",
	GtEq:      "GtEq",
	Lt:        "Lt",
	LtEq:      "LtEq",
	KwAnd:     "KwAnd",
	KwClass:   "KwClass",
	KwElse:    "KwElse",
	KwFalse:   "KwFalse",
	KwFor:     "KwFor",
	KwFun:     "KwFun",
	KwIf:      "KwIf",
	KwNil:     "KwNil",
	KwOr:      "KwOr",
	KwPrint:   "KwPrint",
	KwReturn:  "KwReturn",
	KwSuper:   "KwSuper",
	KwThis:    "KwThis",
	KwTrue:    "KwTrue",
	KwVar:     "KwVar",
	KwWhile:   "KwWhile",
}

// String returns a stable name for the kind, suitable for token dumps.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
