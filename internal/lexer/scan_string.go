package lexer

import (
	"loxvm/internal/token"
)

// "..." без escape-последовательностей. Переводы строк внутри литерала
// разрешены и увеличивают счётчик строк. Text включает кавычки.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() && lx.cursor.Peek() != '"' {
		if lx.cursor.Peek() == '\n' {
			lx.line++
		}
		lx.cursor.Bump()
	}
	if lx.cursor.EOF() {
		// EOF без закрывающей кавычки: ошибка указывает на конец файла
		return lx.errorToken(lx.emptySpan(), MsgUnterminatedString)
	}
	lx.cursor.Bump() // closing '"'
	return lx.emit(token.String, start)
}
