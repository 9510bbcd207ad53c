package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002

	// Синтаксические
	SynInfo             Code = 2000
	SynExpectExpression Code = 2001
	SynExpectRightParen Code = 2002
	SynExpectEnd        Code = 2003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Lexical information",
		LexUnknownChar:        "Unexpected character",
		LexUnterminatedString: "Unterminated string",
		SynInfo:               "Syntax information",
		SynExpectExpression:   "Expect expression",
		SynExpectRightParen:   "Expect ')' after expression",
		SynExpectEnd:          "Expect end of expression",
	}
)

// IsLexical reports whether the code belongs to the scanner range.
func (c Code) IsLexical() bool {
	return c >= 1000 && c < 2000
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
