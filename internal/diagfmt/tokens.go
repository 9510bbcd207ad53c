package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"loxvm/internal/source"
	"loxvm/internal/token"
)

type TokenOutput struct {
	Kind string      `json:"kind" msgpack:"kind"`
	Text string      `json:"text,omitempty" msgpack:"text,omitempty"`
	Line uint32      `json:"line" msgpack:"line"`
	Span source.Span `json:"span" msgpack:"span"`
}

// tokenOutputs обрезает поток на первом EOF
func tokenOutputs(tokens []token.Token) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Line: tok.Line,
			Span: tok.Span,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-13s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d (line %d)\n",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col, tok.Line)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tokenOutputs(tokens))
}

// FormatTokensMsgpack пишет токены одним msgpack-массивом.
func FormatTokensMsgpack(w io.Writer, tokens []token.Token) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(tokenOutputs(tokens))
}

// DecodeTokensMsgpack читает поток, записанный FormatTokensMsgpack.
func DecodeTokensMsgpack(r io.Reader) ([]TokenOutput, error) {
	var out []TokenOutput
	if err := msgpack.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
