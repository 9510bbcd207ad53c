// Package token defines lexical token kinds for the loxvm scanner.
// Invariants:
//   - Token.Text is a substring of the scanned source (no copies), except for
//     Error tokens, where Text carries the diagnostic message.
//   - Token.Span covers the lexeme; for EOF it is the empty span at the end of input.
//   - Token.Line is the scanner's line counter when the token was produced
//     (the closing line for multi-line strings).
package token
