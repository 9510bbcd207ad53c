package driver

import (
	"context"
	"fmt"
	"io"

	"loxvm/internal/bytecode"
	"loxvm/internal/compiler"
	"loxvm/internal/diag"
	"loxvm/internal/source"
	"loxvm/internal/trace"
)

// CompileOptions configures CompileFile.
type CompileOptions struct {
	Options
	// Reporter additionally receives every diagnostic (e.g. a classic
	// stderr printer). The result's Bag always gets them.
	Reporter diag.Reporter
	// DebugPrintCode receives the disassembly of a successful compile.
	DebugPrintCode io.Writer
}

// CompileResult is the outcome of compiling one file. Chunk is nil when
// compilation failed.
type CompileResult struct {
	FileSet *source.FileSet
	File    *source.File
	Chunk   *bytecode.Chunk
	Bag     *diag.Bag
	Stats   compiler.Stats
}

// CompileFile loads and compiles path without running it. Compile failures
// return the result together with an error matching compiler.ErrCompile.
func CompileFile(ctx context.Context, path string, opts CompileOptions) (*CompileResult, error) {
	ctx, root := trace.Start(ctx, trace.ScopeDriver, "compile")
	defer root.End(path)

	fs := source.NewFileSet()
	file, err := loadFile(ctx, fs, path, opts.Options)
	if err != nil {
		return nil, err
	}
	return compileLoaded(ctx, fs, file, opts)
}

func compileLoaded(ctx context.Context, fs *source.FileSet, file *source.File, opts CompileOptions) (*CompileResult, error) {
	_, end := opts.phase(ctx, trace.ScopePass, "compile")

	bag := diag.NewBag(opts.MaxDiagnostics)
	var reporter diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Reporter != nil {
		reporter = diag.MultiReporter{reporter, opts.Reporter}
	}

	chunk, stats, err := compiler.CompileWithStats(file, compiler.Options{
		Reporter:       reporter,
		DebugPrintCode: opts.DebugPrintCode,
		ChunkName:      fs.RelPath(file),
	})
	res := &CompileResult{FileSet: fs, File: file, Bag: bag, Stats: stats}

	span := end(fmt.Sprintf("%d tokens, %d errors", stats.Tokens, stats.Errors)).
		WithExtra("tokens", fmt.Sprint(stats.Tokens))
	if err != nil {
		span.WithExtra("errors", fmt.Sprint(stats.Errors)).End("failed")
		return res, err
	}
	res.Chunk = chunk
	span.WithExtra("bytes", fmt.Sprint(chunk.Len())).
		WithExtra("constants", fmt.Sprint(len(chunk.Constants()))).
		End("")
	return res, nil
}
