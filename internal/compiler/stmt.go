package compiler

import (
	"github.com/woupiestek/rlox/internal/bytecode"
	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/token"
)

func (c *Compiler) declaration() {
	switch {
	case c.match(token.KwClass):
		c.classDeclaration()
	case c.match(token.KwFun):
		c.funDeclaration()
	case c.match(token.KwVar):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.KwPrint):
		c.printStatement()
	case c.match(token.KwFor):
		c.forStatement()
	case c.match(token.KwIf):
		c.ifStatement()
	case c.match(token.KwReturn):
		c.returnStatement()
	case c.match(token.KwWhile):
		c.whileStatement()
	case c.match(token.LBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

// parseVariable consumes an identifier and either declares a local or
// returns the constant index of a global name. Locals yield index 0, which
// defineVariable ignores.
func (c *Compiler) parseVariable(code diag.Code, msg string) uint8 {
	c.consume(token.Ident, code, msg)
	c.declareVariable()
	if c.fc.scope > 0 {
		return 0
	}
	return c.identifierConstant(c.previous.Text)
}

// declareVariable registers a local in the current scope. Globals are late
// bound and need no declaration.
func (c *Compiler) declareVariable() {
	if c.fc.scope == 0 {
		return
	}
	name := c.previous
	for i := len(c.fc.locals) - 1; i >= 0; i-- {
		l := &c.fc.locals[i]
		if l.depth != -1 && l.depth < c.fc.scope {
			break
		}
		if l.name == name.Text {
			c.errorAtPrevious(diag.CmpDuplicateLocal, "Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) defineVariable(global uint8) {
	if c.fc.scope > 0 {
		c.markInitialized()
		return
	}
	c.emitOps(bytecode.OpDefineGlobal, global)
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable(diag.SynExpectIdentifier, "Expect variable name.")
	if c.match(token.Assign) {
		c.expression()
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.consume(token.Semicolon, diag.SynExpectSemicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable(diag.SynExpectIdentifier, "Expect function name.")
	// A function may refer to itself; the name is usable as soon as the
	// body starts compiling.
	c.markInitialized()
	c.function(kindFunction)
	c.defineVariable(global)
}

// function compiles a parameter list and body into a nested function, then
// emits OpClosure with the capture descriptors.
func (c *Compiler) function(kind funcKind) {
	c.beginFunc(kind, c.previous)
	c.beginScope()

	if kind == kindLambda {
		c.consume(token.LParen, diag.SynUnclosedParen, "Expect '(' after 'fun'.")
	} else {
		c.consume(token.LParen, diag.SynUnclosedParen, "Expect '(' after function name.")
	}
	if !c.check(token.RParen) {
		for {
			if c.fc.fn.Arity == maxArgs {
				c.errorAtCurrent(diag.CmpTooManyParameters, "Can't have more than 255 parameters.")
			} else {
				c.fc.fn.Arity++
			}
			param := c.parseVariable(diag.SynExpectIdentifier, "Expect parameter name.")
			c.defineVariable(param)
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RParen, diag.SynUnclosedParen, "Expect ')' after parameters.")
	c.consume(token.LBrace, diag.SynUnclosedBrace, "Expect '{' before function body.")
	c.block()

	upvalues := c.fc.upvalues
	fn := c.endFunc()
	if c.hadError {
		return
	}
	c.emitOps(bytecode.OpClosure, c.makeConstant(fn))
	for _, uv := range upvalues {
		if uv.isLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(uv.index)
	}
}

func (c *Compiler) classDeclaration() {
	c.consume(token.Ident, diag.SynExpectIdentifier, "Expect class name.")
	className := c.previous
	nameConst := c.identifierConstant(className.Text)
	c.declareVariable()

	c.emitOps(bytecode.OpClass, nameConst)
	c.defineVariable(nameConst)

	cc := &classCompiler{enclosing: c.class}
	c.class = cc
	defer func() { c.class = cc.enclosing }()

	if c.match(token.Lt) {
		c.consume(token.Ident, diag.SynExpectIdentifier, "Expect superclass name.")
		c.variable(false)
		if className.Text == c.previous.Text {
			c.errorAtPrevious(diag.CmpSelfInherit, "A class can't inherit from itself.")
		}

		// 'super' lives in a scope of its own so sibling classes in one
		// block each get a fresh slot.
		c.beginScope()
		c.addLocal(syntheticToken("super"))
		c.defineVariable(0)

		c.namedVariable(className, false)
		c.emitOp(bytecode.OpInherit)
		cc.hasSuperclass = true
	}

	c.namedVariable(className, false)
	c.consume(token.LBrace, diag.SynUnclosedBrace, "Expect '{' before class body.")
	for !c.check(token.RBrace) && !c.check(token.EOF) {
		c.method()
	}
	c.consume(token.RBrace, diag.SynUnclosedBrace, "Expect '}' after class body.")
	c.emitOp(bytecode.OpPop)

	if cc.hasSuperclass {
		c.endScope()
	}
}

func (c *Compiler) method() {
	c.consume(token.Ident, diag.SynExpectIdentifier, "Expect method name.")
	name := c.identifierConstant(c.previous.Text)
	kind := kindMethod
	if c.previous.Text == "init" {
		kind = kindInitializer
	}
	c.function(kind)
	c.emitOps(bytecode.OpMethod, name)
}

func (c *Compiler) block() {
	for !c.check(token.RBrace) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RBrace, diag.SynUnclosedBrace, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.Semicolon, diag.SynExpectSemicolon, "Expect ';' after value.")
	c.emitOp(bytecode.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.Semicolon, diag.SynExpectSemicolon, "Expect ';' after expression.")
	c.emitOp(bytecode.OpPop)
}

func (c *Compiler) ifStatement() {
	c.consume(token.LParen, diag.SynUnclosedParen, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RParen, diag.SynUnclosedParen, "Expect ')' after condition.")

	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()
	elseJump := c.emitJump(bytecode.OpJump)

	c.patchJump(thenJump)
	c.emitOp(bytecode.OpPop)
	if c.match(token.KwElse) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk().Code)
	c.consume(token.LParen, diag.SynUnclosedParen, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RParen, diag.SynUnclosedParen, "Expect ')' after condition.")

	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop)
}

// forStatement desugars to while form: initializer runs once in its own
// scope, the increment runs after the body via a jump juggle.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LParen, diag.SynUnclosedParen, "Expect '(' after 'for'.")
	switch {
	case c.match(token.Semicolon):
		// No initializer.
	case c.match(token.KwVar):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk().Code)
	exitJump := -1
	if !c.match(token.Semicolon) {
		c.expression()
		c.consume(token.Semicolon, diag.SynExpectSemicolon, "Expect ';' after loop condition.")
		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
		c.emitOp(bytecode.OpPop)
	}

	if !c.match(token.RParen) {
		bodyJump := c.emitJump(bytecode.OpJump)
		incrementStart := len(c.chunk().Code)
		c.expression()
		c.emitOp(bytecode.OpPop)
		c.consume(token.RParen, diag.SynUnclosedParen, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(bytecode.OpPop)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.fc.kind == kindScript {
		c.errorAtPrevious(diag.CmpReturnFromScript, "Can't return from top-level code.")
	}
	if c.match(token.Semicolon) {
		c.emitReturn()
		return
	}
	if c.fc.kind == kindInitializer {
		c.errorAtPrevious(diag.CmpReturnFromInit, "Can't return a value from an initializer.")
	}
	c.expression()
	c.consume(token.Semicolon, diag.SynExpectSemicolon, "Expect ';' after return value.")
	c.emitOp(bytecode.OpReturn)
}
