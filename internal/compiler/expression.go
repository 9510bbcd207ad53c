package compiler

import (
	"errors"
	"strconv"

	"loxvm/internal/bytecode"
	"loxvm/internal/diag"
	"loxvm/internal/token"
	"loxvm/internal/value"
)

func (p *parser) expression() {
	p.parsePrecedence(PrecAssignment)
}

// parsePrecedence - ядро Pratt: префиксное правило для previous, затем
// инфиксные, пока приоритет current не ниже minPrec.
func (p *parser) parsePrecedence(minPrec Precedence) {
	p.advance()
	prefix := getRule(p.previous.Kind).prefix
	if prefix == nil {
		p.error(diag.SynExpectExpression, "Expect expression")
		return
	}
	prefix(p)

	for minPrec <= getRule(p.current.Kind).precedence {
		p.advance()
		getRule(p.previous.Kind).infix(p)
	}
}

func (p *parser) number() {
	n, err := strconv.ParseFloat(p.previous.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// лексер выдаёт только цифры и точку, так что сюда не попадаем
		p.error(diag.SynExpectExpression, "Invalid number literal")
		return
	}
	p.chunk.AppendConstant(value.Number(n), p.previous.Line)
}

func (p *parser) stringLit() {
	text := p.previous.Text
	// кавычки снимаем; лексема всегда "..." целиком
	p.chunk.AppendConstant(value.Str(text[1:len(text)-1]), p.previous.Line)
}

func (p *parser) literal() {
	switch p.previous.Kind {
	case token.False:
		p.emitOp(bytecode.False)
	case token.True:
		p.emitOp(bytecode.True)
	case token.Nil:
		p.emitOp(bytecode.Nil)
	}
}

func (p *parser) grouping() {
	p.expression()
	p.consume(token.RightParen, diag.SynExpectRightParen, "Expect ')' after expression")
}

func (p *parser) unary() {
	op := p.previous.Kind
	p.parsePrecedence(PrecUnary)
	switch op {
	case token.Minus:
		p.emitOp(bytecode.Negate)
	case token.Bang:
		p.emitOp(bytecode.Not)
	}
}

// binary: правый операнд на уровень выше - левая ассоциативность.
func (p *parser) binary() {
	op := p.previous.Kind
	p.parsePrecedence(getRule(op).precedence + 1)

	switch op {
	case token.Plus:
		p.emitOp(bytecode.Add)
	case token.Minus:
		p.emitOp(bytecode.Subtract)
	case token.Star:
		p.emitOp(bytecode.Multiply)
	case token.Slash:
		p.emitOp(bytecode.Divide)
	case token.EqualEqual:
		p.emitOp(bytecode.Equal)
	case token.BangEqual:
		p.emitOps(bytecode.Equal, bytecode.Not)
	case token.Greater:
		p.emitOp(bytecode.Greater)
	case token.GreaterEqual:
		p.emitOps(bytecode.Less, bytecode.Not)
	case token.Less:
		p.emitOp(bytecode.Less)
	case token.LessEqual:
		p.emitOps(bytecode.Greater, bytecode.Not)
	}
}
