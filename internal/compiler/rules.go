package compiler

import (
	"loxvm/internal/token"
)

// Precedence - сила связывания инфиксного оператора, от слабой к сильной.
type Precedence uint8

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

type parseFn func(p *parser)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules индексируется token.Kind. Заполняется в init: правила ссылаются на
// функции, которые сами читают таблицу.
var rules [token.Count]parseRule

func init() {
	rules[token.LeftParen] = parseRule{prefix: (*parser).grouping}
	rules[token.Minus] = parseRule{prefix: (*parser).unary, infix: (*parser).binary, precedence: PrecTerm}
	rules[token.Plus] = parseRule{infix: (*parser).binary, precedence: PrecTerm}
	rules[token.Slash] = parseRule{infix: (*parser).binary, precedence: PrecFactor}
	rules[token.Star] = parseRule{infix: (*parser).binary, precedence: PrecFactor}
	rules[token.Bang] = parseRule{prefix: (*parser).unary}
	rules[token.BangEqual] = parseRule{infix: (*parser).binary, precedence: PrecEquality}
	rules[token.EqualEqual] = parseRule{infix: (*parser).binary, precedence: PrecEquality}
	rules[token.Greater] = parseRule{infix: (*parser).binary, precedence: PrecComparison}
	rules[token.GreaterEqual] = parseRule{infix: (*parser).binary, precedence: PrecComparison}
	rules[token.Less] = parseRule{infix: (*parser).binary, precedence: PrecComparison}
	rules[token.LessEqual] = parseRule{infix: (*parser).binary, precedence: PrecComparison}
	rules[token.Number] = parseRule{prefix: (*parser).number}
	rules[token.String] = parseRule{prefix: (*parser).stringLit}
	rules[token.False] = parseRule{prefix: (*parser).literal}
	rules[token.True] = parseRule{prefix: (*parser).literal}
	rules[token.Nil] = parseRule{prefix: (*parser).literal}
}

func getRule(kind token.Kind) *parseRule {
	return &rules[kind]
}

// InfixPrecedence returns the binding precedence of kind as an infix operator,
// PrecNone when it is not one.
func InfixPrecedence(kind token.Kind) Precedence {
	if int(kind) >= len(rules) {
		return PrecNone
	}
	return rules[kind].precedence
}
