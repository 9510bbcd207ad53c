package driver

import (
	"context"
	"fmt"

	"loxvm/internal/diag"
	"loxvm/internal/lexer"
	"loxvm/internal/source"
	"loxvm/internal/token"
	"loxvm/internal/trace"
)

// TokenizeResult holds the full token stream of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // заканчивается EOF
	Bag     *diag.Bag
}

// Tokenize loads path and scans it to EOF, collecting lexical diagnostics.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	ctx, root := trace.Start(ctx, trace.ScopeDriver, "tokenize")
	defer root.End(path)

	fs := source.NewFileSet()
	file, err := loadFile(ctx, fs, path, opts)
	if err != nil {
		return nil, err
	}
	return TokenizeSource(ctx, fs, file, opts), nil
}

// TokenizeSource scans an already loaded file.
func TokenizeSource(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	_, end := opts.phase(ctx, trace.ScopePass, "scan")

	bag := diag.NewBag(opts.MaxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	end(fmt.Sprintf("%d tokens", len(tokens))).
		WithExtra("tokens", fmt.Sprint(len(tokens))).
		WithExtra("errors", fmt.Sprint(bag.Len())).
		End("")

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}
}
