// Package compiler turns source text into a bytecode chunk in a single pass:
// tokens are pulled from the lexer one at a time and a Pratt parser emits
// instructions directly, without building a syntax tree.
package compiler

import (
	"errors"
	"io"

	"loxvm/internal/bytecode"
	"loxvm/internal/diag"
	"loxvm/internal/lexer"
	"loxvm/internal/source"
	"loxvm/internal/token"
)

// ErrCompile is returned when at least one compile error was reported.
var ErrCompile = errors.New("compile error")

type Options struct {
	// Reporter получает все ошибки компиляции. nil - ошибки только считаются.
	Reporter diag.Reporter
	// DebugPrintCode, если задан, получает дизассемблер готового чанка
	// (только при успешной компиляции).
	DebugPrintCode io.Writer
	// ChunkName - заголовок дизассемблера; по умолчанию "code".
	ChunkName string
}

// Stats describes a finished compilation.
type Stats struct {
	Tokens int
	Errors int
}

// parser - состояние на одну компиляцию
type parser struct {
	lx    *lexer.Lexer
	chunk *bytecode.Chunk
	opts  Options

	previous token.Token
	current  token.Token

	hadError  bool // липкий: чанк непригоден
	panicMode bool // гасит каскад ошибок до конца компиляции

	stats Stats
}

// Compile compiles exactly one expression from file into a chunk ending with
// Return. On any error it returns ErrCompile and no chunk.
func Compile(file *source.File, opts Options) (*bytecode.Chunk, error) {
	chunk, _, err := CompileWithStats(file, opts)
	return chunk, err
}

// CompileWithStats is Compile that also reports token and error counts.
func CompileWithStats(file *source.File, opts Options) (*bytecode.Chunk, Stats, error) {
	p := &parser{
		lx:    lexer.New(file, lexer.Options{}),
		chunk: bytecode.New(),
		opts:  opts,
	}

	p.advance() // lookahead
	p.expression()
	p.consume(token.EOF, diag.SynExpectEnd, "Expect end of expression")
	p.endCompiler()

	if p.hadError {
		return nil, p.stats, ErrCompile
	}
	return p.chunk, p.stats, nil
}

func (p *parser) endCompiler() {
	p.emitOp(bytecode.Return)
	if p.opts.DebugPrintCode != nil && !p.hadError {
		name := p.opts.ChunkName
		if name == "" {
			name = "code"
		}
		// ошибки дизассемблера здесь невозможны: чанк только что построен нами
		_ = p.chunk.Disassemble(p.opts.DebugPrintCode, name)
	}
}

// advance сдвигает окно на один токен. Error-токены сообщаются и пропускаются.
func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lx.Next()
		p.stats.Tokens++
		if p.current.Kind != token.Error {
			break
		}
		p.errorAtCurrent(lexer.ErrorCode(p.current.Text), p.current.Text)
	}
}

func (p *parser) consume(kind token.Kind, code diag.Code, msg string) {
	if p.current.Kind == kind {
		p.advance()
		return
	}
	p.errorAtCurrent(code, msg)
}

func (p *parser) errorAtCurrent(code diag.Code, msg string) {
	p.errorAt(p.current, code, msg)
}

func (p *parser) error(code diag.Code, msg string) {
	p.errorAt(p.previous, code, msg)
}

func (p *parser) errorAt(tok token.Token, code diag.Code, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	p.stats.Errors++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, tok.Span, msg, nil)
	}
}

func (p *parser) emitByte(b byte) {
	p.chunk.Append(b, p.previous.Line)
}

func (p *parser) emitOp(op bytecode.Opcode) {
	p.emitByte(byte(op))
}

func (p *parser) emitOps(a, b bytecode.Opcode) {
	p.emitOp(a)
	p.emitOp(b)
}
