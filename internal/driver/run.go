package driver

import (
	"context"
	"fmt"
	"io"
	"os"

	"loxvm/internal/diagfmt"
	"loxvm/internal/source"
	"loxvm/internal/trace"
	"loxvm/internal/value"
	"loxvm/internal/vm"
)

// RunOptions configures RunFile.
type RunOptions struct {
	Options
	Stdout io.Writer // по умолчанию os.Stdout
	Stderr io.Writer // по умолчанию os.Stderr
	Color  bool

	DebugPrintCode io.Writer
	Trace          io.Writer // трасса исполнения VM
}

// RunResult describes a finished run.
type RunResult struct {
	FileSet  *source.FileSet
	Compile  *CompileResult
	Value    value.Value
	HasValue bool
	Steps    uint64
}

// RunFile loads, compiles and executes path. Compile diagnostics and runtime
// errors are printed to Stderr in the classic format. The error matches
// ErrLoad, compiler.ErrCompile, vm.ErrCompile or vm.ErrRuntime.
func RunFile(ctx context.Context, path string, opts RunOptions) (*RunResult, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	ctx, root := trace.Start(ctx, trace.ScopeDriver, "run")
	defer root.End(path)

	fs := source.NewFileSet()
	file, err := loadFile(ctx, fs, path, opts.Options)
	if err != nil {
		return nil, err
	}

	comp, err := compileLoaded(ctx, fs, file, CompileOptions{
		Options:        opts.Options,
		Reporter:       diagfmt.NewClassicReporter(opts.Stderr, fs, diagfmt.ClassicOpts{Color: opts.Color}),
		DebugPrintCode: opts.DebugPrintCode,
	})
	res := &RunResult{FileSet: fs, Compile: comp}
	if err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	_, end := opts.phase(ctx, trace.ScopePass, "execute")
	machine := vm.New(vm.Options{
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
		Files:  fs,
		Color:  opts.Color,
		Trace:  opts.Trace,
	})
	err = machine.Execute(comp.Chunk)
	res.Value, res.HasValue = machine.Result()
	res.Steps = machine.Steps()

	span := end(fmt.Sprintf("%d steps", res.Steps)).WithExtra("steps", fmt.Sprint(res.Steps))
	if err != nil {
		span.End(err.Error())
		return res, err
	}
	if res.HasValue {
		span.WithExtra("result", res.Value.String())
	}
	span.End("")
	return res, nil
}
