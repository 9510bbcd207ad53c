package lexer

import (
	"loxvm/internal/token"
)

// scanIdentOrKeyword сканирует [A-Za-z_][A-Za-z0-9_]* и проверяет через LookupKeyword.
// Ключевые слова регистрозависимые (только lowercase).
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Identifier, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
