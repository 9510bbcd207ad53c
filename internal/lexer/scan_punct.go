package lexer

import (
	"loxvm/internal/token"
)

// scanPunct разбирает одно- и двухсимвольные операторы. Для `!`, `=`, `<`, `>`
// смотрим один символ вперёд, чтобы отличить, например, `=` от `==`.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	switch ch {
	case '(':
		return lx.emit(token.LeftParen, start)
	case ')':
		return lx.emit(token.RightParen, start)
	case '{':
		return lx.emit(token.LeftBrace, start)
	case '}':
		return lx.emit(token.RightBrace, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case '+':
		return lx.emit(token.Plus, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '/':
		return lx.emit(token.Slash, start)
	case '!':
		return lx.emit(lx.pick('=', token.BangEqual, token.Bang), start)
	case '=':
		return lx.emit(lx.pick('=', token.EqualEqual, token.Equal), start)
	case '<':
		return lx.emit(lx.pick('=', token.LessEqual, token.Less), start)
	case '>':
		return lx.emit(lx.pick('=', token.GreaterEqual, token.Greater), start)
	}

	// неизвестный символ: многобайтовую руну съедаем целиком
	if ch >= utf8RuneSelf {
		lx.cursor.Reset(start)
		lx.bumpRune()
	}
	return lx.errorToken(lx.cursor.SpanFrom(start), MsgUnexpectedChar)
}

func (lx *Lexer) pick(next byte, two, one token.Kind) token.Kind {
	if lx.cursor.Eat(next) {
		return two
	}
	return one
}
