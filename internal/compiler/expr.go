package compiler

import (
	"strconv"

	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/token"
	"github.com/woupiestek/rlox/internal/value"
)

// precedence orders operators from loosest to tightest. Parsing at level p
// consumes every operator binding at least as tightly as p.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type rule struct {
	prefix parseFn
	infix  parseFn
	prec   precedence
}

// rules is the Pratt table: one row per token kind that can start or extend
// an expression.
var rules [token.KwWhile + 1]rule

// Populated in init() rather than in the var declaration above: the table
// references methods whose bodies transitively call back into ruleFor/rules,
// which Go's static initialization-order analysis treats as a dependency
// cycle if the table is a var initializer. Assigning it inside an init()
// function sidesteps that analysis without changing the resulting table.
func init() {
	rules = [token.KwWhile + 1]rule{
		token.LParen:    {prefix: (*Compiler).grouping, infix: (*Compiler).call, prec: precCall},
		token.Dot:       {infix: (*Compiler).dot, prec: precCall},
		token.Minus:     {prefix: (*Compiler).unary, infix: (*Compiler).binary, prec: precTerm},
		token.Plus:      {infix: (*Compiler).binary, prec: precTerm},
		token.Slash:     {infix: (*Compiler).binary, prec: precFactor},
		token.Star:      {infix: (*Compiler).binary, prec: precFactor},
		token.Bang:      {prefix: (*Compiler).unary},
		token.BangEq:    {infix: (*Compiler).binary, prec: precEquality},
		token.EqEq:      {infix: (*Compiler).binary, prec: precEquality},
		token.Gt:        {infix: (*Compiler).binary, prec: precComparison},
		token.GtEq:      {infix: (*Compiler).binary, prec: precComparison},
		token.Lt:        {infix: (*Compiler).binary, prec: precComparison},
		token.LtEq:      {infix: (*Compiler).binary, prec: precComparison},
		token.Ident:     {prefix: (*Compiler).variable},
		token.StringLit: {prefix: (*Compiler).stringLit},
		token.NumberLit: {prefix: (*Compiler).number},
		token.KwAnd:     {infix: (*Compiler).and, prec: precAnd},
		token.KwFalse:   {prefix: (*Compiler).literal},
		token.KwFun:     {prefix: (*Compiler).funExpr},
		token.KwNil:     {prefix: (*Compiler).literal},
		token.KwOr:      {infix: (*Compiler).or, prec: precOr},
		token.KwSuper:   {prefix: (*Compiler).super},
		token.KwThis:    {prefix: (*Compiler).this},
		token.KwTrue:    {prefix: (*Compiler).literal},
	}
}

func ruleFor(kind token.Kind) rule {
	if int(kind) < len(rules) {
		return rules[kind]
	}
	return rule{}
}

// parsePrecedence is the Pratt core: one prefix parse, then infix parses
// while the next operator binds at least as tightly.
func (c *Compiler) parsePrecedence(prec precedence) {
	c.advance()
	prefix := ruleFor(c.previous.Kind).prefix
	if prefix == nil {
		c.errorAtPrevious(diag.SynExpectExpression, "Expect expression.")
		return
	}
	canAssign := prec <= precAssignment
	prefix(c, canAssign)

	for prec <= ruleFor(c.current.Kind).prec {
		c.advance()
		ruleFor(c.previous.Kind).infix(c, canAssign)
	}

	if canAssign && c.match(token.Assign) {
		c.errorAtPrevious(diag.CmpInvalidAssignTarget, "Invalid assignment target.")
	}
}

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}

func (c *Compiler) grouping(bool) {
	c.expression()
	c.consume(token.RParen, diag.SynUnclosedParen, "Expect ')' after expression.")
}

func (c *Compiler) number(bool) {
	f, err := strconv.ParseFloat(c.previous.Text, 64)
	if err != nil {
		// The lexer only produces well-formed number tokens.
		c.errorAtPrevious(diag.SynUnexpectedToken, "Invalid number literal.")
		return
	}
	c.emitConstant(value.MakeNumber(f))
}

func (c *Compiler) stringLit(bool) {
	c.emitConstant(c.heap.Intern(c.previous.Text))
}

func (c *Compiler) literal(bool) {
	switch c.previous.Kind {
	case token.KwFalse:
		c.emitOp(bytecode.OpFalse)
	case token.KwNil:
		c.emitOp(bytecode.OpNil)
	case token.KwTrue:
		c.emitOp(bytecode.OpTrue)
	}
}

func (c *Compiler) unary(bool) {
	op := c.previous.Kind
	c.parsePrecedence(precUnary)
	switch op {
	case token.Minus:
		c.emitOp(bytecode.OpNegate)
	case token.Bang:
		c.emitOp(bytecode.OpNot)
	}
}

func (c *Compiler) binary(bool) {
	op := c.previous.Kind
	c.parsePrecedence(ruleFor(op).prec + 1)
	switch op {
	case token.Plus:
		c.emitOp(bytecode.OpAdd)
	case token.Minus:
		c.emitOp(bytecode.OpSubtract)
	case token.Star:
		c.emitOp(bytecode.OpMultiply)
	case token.Slash:
		c.emitOp(bytecode.OpDivide)
	case token.BangEq:
		c.emitOp(bytecode.OpEqual)
		c.emitOp(bytecode.OpNot)
	case token.EqEq:
		c.emitOp(bytecode.OpEqual)
	case token.Gt:
		c.emitOp(bytecode.OpGreater)
	case token.GtEq:
		c.emitOp(bytecode.OpLess)
		c.emitOp(bytecode.OpNot)
	case token.Lt:
		c.emitOp(bytecode.OpLess)
	case token.LtEq:
		c.emitOp(bytecode.OpGreater)
		c.emitOp(bytecode.OpNot)
	}
}

// and short-circuits: the right operand only runs when the left is truthy.
func (c *Compiler) and(bool) {
	end := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(end)
}

func (c *Compiler) or(bool) {
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *Compiler) call(bool) {
	argc := c.argumentList()
	c.emitOps(bytecode.OpCall, argc)
}

// dot compiles property access, assignment, or the fused invoke form.
func (c *Compiler) dot(canAssign bool) {
	c.consume(token.Ident, diag.SynExpectIdentifier, "Expect property name after '.'.")
	name := c.identifierConstant(c.previous.Text)

	switch {
	case canAssign && c.match(token.Assign):
		c.expression()
		c.emitOps(bytecode.OpSetProperty, name)
	case c.match(token.LParen):
		argc := c.argumentList()
		c.emitOps(bytecode.OpInvoke, name)
		c.emitByte(argc)
	default:
		c.emitOps(bytecode.OpGetProperty, name)
	}
}

func (c *Compiler) argumentList() uint8 {
	argc := 0
	if !c.check(token.RParen) {
		for {
			c.expression()
			if argc == maxArgs {
				c.errorAtPrevious(diag.CmpTooManyArguments, "Can't have more than 255 arguments.")
			} else {
				argc++
			}
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RParen, diag.SynUnclosedParen, "Expect ')' after arguments.")
	return uint8(argc)
}

// variable resolves an identifier to a local slot, an upvalue, or a global
// name, and emits the get or set form.
func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp bytecode.OpCode
	var arg uint8

	if idx := c.resolveLocal(c.fc, name.Text); idx != -1 {
		getOp, setOp, arg = bytecode.OpGetLocal, bytecode.OpSetLocal, uint8(idx)
	} else if idx := c.resolveUpvalue(c.fc, name.Text); idx != -1 {
		getOp, setOp, arg = bytecode.OpGetUpvalue, bytecode.OpSetUpvalue, uint8(idx)
	} else {
		getOp, setOp, arg = bytecode.OpGetGlobal, bytecode.OpSetGlobal, c.identifierConstant(name.Text)
	}

	if canAssign && c.match(token.Assign) {
		c.expression()
		c.emitOps(setOp, arg)
	} else {
		c.emitOps(getOp, arg)
	}
}

// funExpr compiles an anonymous function in expression position. It prints
// and backtraces as "anonymous".
func (c *Compiler) funExpr(bool) {
	c.function(kindLambda)
}

func (c *Compiler) this(bool) {
	if c.class == nil {
		c.errorAtPrevious(diag.CmpThisOutsideClass, "Can't use 'this' outside of a class.")
		return
	}
	c.variable(false)
}

// super compiles super.method access or the fused super-invoke form. 'this'
// and 'super' are both resolved as ordinary variables: hidden locals that
// class and method compilation put in scope.
func (c *Compiler) super(bool) {
	if c.class == nil {
		c.errorAtPrevious(diag.CmpSuperOutsideClass, "Can't use 'super' outside of a class.")
	} else if !c.class.hasSuperclass {
		c.errorAtPrevious(diag.CmpSuperNoSuperclass, "Can't use 'super' in a class with no superclass.")
	}

	c.consume(token.Dot, diag.SynUnexpectedToken, "Expect '.' after 'super'.")
	c.consume(token.Ident, diag.SynExpectIdentifier, "Expect superclass method name.")
	name := c.identifierConstant(c.previous.Text)

	c.namedVariable(syntheticToken("this"), false)
	if c.match(token.LParen) {
		argc := c.argumentList()
		c.namedVariable(syntheticToken("super"), false)
		c.emitOps(bytecode.OpSuperInvoke, name)
		c.emitByte(argc)
	} else {
		c.namedVariable(syntheticToken("super"), false)
		c.emitOps(bytecode.OpGetSuper, name)
	}
}

func syntheticToken(text string) token.Token {
	return token.Token{Kind: token.Ident, Text: text}
}
