package token

import (
	"loxvm/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Line uint32
}

// IsLiteral reports whether the token is a number, string, or literal keyword.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, True, False, Nil:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Identifier }
