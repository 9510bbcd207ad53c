package lexer

import (
	"loxvm/internal/token"
)

// Поддержка: 0, 123, 1.5, 1. - без экспоненты, без ведущей точки и без '_'.
// Точка без цифр после неё остаётся частью числа: "1." читается как 1.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Eat('.') {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return lx.emit(token.Number, start)
}
