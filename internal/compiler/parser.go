package compiler

import (
	"fmt"

	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/token"
)

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lx.Next()
		if c.current.Kind != token.Invalid {
			return
		}
		// The lexer already reported the bad token; just note the failure
		// and keep scanning.
		c.hadError = true
	}
}

func (c *Compiler) check(kind token.Kind) bool {
	return c.current.Kind == kind
}

func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind token.Kind, code diag.Code, msg string) {
	if c.check(kind) {
		c.advance()
		return
	}
	c.errorAtCurrent(code, msg)
}

// errorAt reports a compile error at a token. Panic mode suppresses the
// cascade until the parser resynchronizes at a statement boundary.
func (c *Compiler) errorAt(tok token.Token, code diag.Code, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	var where string
	switch tok.Kind {
	case token.EOF:
		where = " at end"
	case token.Invalid:
		where = ""
	default:
		where = fmt.Sprintf(" at '%s'", tok.Text)
	}
	diag.ReportError(c.reporter, code, tok.Span, fmt.Sprintf("Error%s: %s", where, msg))
}

func (c *Compiler) errorAtCurrent(code diag.Code, msg string) {
	c.errorAt(c.current, code, msg)
}

func (c *Compiler) errorAtPrevious(code diag.Code, msg string) {
	c.errorAt(c.previous, code, msg)
}

// synchronize skips tokens until a statement boundary: just past a
// semicolon, or just before a keyword that can start a statement.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.Semicolon {
			return
		}
		if c.current.StartsStatement() {
			return
		}
		c.advance()
	}
}
