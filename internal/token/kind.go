package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Single-character tokens.
	LeftParen  Kind = iota // (
	RightParen             // )
	LeftBrace              // {
	RightBrace             // }
	Comma                  // ,
	Dot                    // .
	Minus                  // -
	Plus                   // +
	Semicolon              // ;
	Slash                  // /
	Star                   // *

	// One or two character tokens.
	Bang         // !
	BangEqual    // !=
	Equal        // =
	EqualEqual   // ==
	Greater      // >
	GreaterEqual // >=
	Less         // <
	LessEqual    // <=

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	// Error marks a lexical error; Text holds the message.
	Error
	// EOF marks the end of the source input. Produced forever once reached.
	EOF

	kindCount
)

var kindNames = [...]string{
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	Comma:        "Comma",
	Dot:          "Dot",
	Minus:        "Minus",
	Plus:         "Plus",
	Semicolon:    "Semicolon",
	Slash:        "Slash",
	Star:         "Star",
	Bang:         "Bang",
	BangEqual:    "BangEqual",
	Equal:        "Equal",
	EqualEqual:   "EqualEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Identifier:   "Identifier",
	String:       "String",
	Number:       "Number",
	And:          "And",
	Class:        "Class",
	Else:         "Else",
	False:        "False",
	For:          "For",
	Fun:          "Fun",
	If:           "If",
	Nil:          "Nil",
	Or:           "Or",
	Print:        "Print",
	Return:       "Return",
	Super:        "Super",
	This:         "This",
	True:         "True",
	Var:          "Var",
	While:        "While",
	Error:        "Error",
	EOF:          "EOF",
}

// Count is the number of token kinds; tables indexed by Kind use it as length.
const Count = int(kindCount)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= And && k <= While
}
