package lexer

import (
	"loxvm/internal/source"
	"loxvm/internal/token"
)

// Lexer выдаёт токены по требованию. Между вызовами хранит только курсор
// и номер строки.
type Lexer struct {
	file   *source.File
	src    string // Token.Text режется отсюда без копирования
	cursor Cursor
	opts   Options
	line   uint32
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		src:    string(file.Content),
		cursor: NewCursor(file),
		opts:   opts,
		line:   1,
	}
}

// Next возвращает следующий токен. Ошибки не паникуют: они приходят как
// token.Error с сообщением в Text. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Line: lx.line,
		}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanPunct()
	}
}

// Line returns the line the cursor is currently on.
func (lx *Lexer) Line() uint32 {
	return lx.line
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: k,
		Span: sp,
		Text: lx.src[sp.Start:sp.End],
		Line: lx.line,
	}
}

// errorToken строит token.Error: Text - сообщение, Span - место ошибки.
func (lx *Lexer) errorToken(sp source.Span, msg string) token.Token {
	lx.report(ErrorCode(msg), sp, msg)
	return token.Token{
		Kind: token.Error,
		Span: sp,
		Text: msg,
		Line: lx.line,
	}
}

// skipTrivia пропускает пробелы, переводы строк и комментарии `//` до конца строки.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r':
			lx.cursor.Bump()
		case '\n':
			lx.line++
			lx.cursor.Bump()
		case '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' || b1 != '/' {
				return
			}
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}
