package lexer

import (
	"loxvm/internal/diag"
	"loxvm/internal/source"
)

// Сообщения, которые лексер кладёт в Text error-токена.
const (
	MsgUnexpectedChar     = "Unexpected character."
	MsgUnterminatedString = "Unterminated string"
)

type Options struct {
	// Reporter получает каждый error-токен сразу при сканировании.
	// Может быть nil: тогда ошибки живут только в токенах, и решает потребитель
	// (компилятор сообщает о них сам, с учётом panic mode).
	Reporter diag.Reporter
}

// ErrorCode maps the message carried by an Error token to its diagnostic code.
func ErrorCode(msg string) diag.Code {
	switch msg {
	case MsgUnterminatedString:
		return diag.LexUnterminatedString
	case MsgUnexpectedChar:
		return diag.LexUnknownChar
	}
	return diag.LexInfo
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
