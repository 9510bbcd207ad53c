package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"loxvm/internal/compiler"
	"loxvm/internal/diag"
	"loxvm/internal/source"
	"loxvm/internal/trace"
)

// SourceExt is the extension of loxvm source files.
const SourceExt = ".lox"

// CheckOptions configures Check.
type CheckOptions struct {
	Options
	// Jobs limits parallel workers; <= 0 means GOMAXPROCS.
	Jobs int
	// Events receives per-file progress. Check closes it when done.
	Events chan<- Event
	// Cache, если задан, позволяет пропускать неизменившиеся файлы.
	Cache *CheckCache
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Stats  compiler.Stats
	Err    error // ошибка загрузки или компиляции
	Cached bool
}

// CheckResult collects all files of a Check run.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// HasErrors reports whether any file failed to load or compile.
func (r *CheckResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Err != nil || r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics returns the diagnostics of every file, sorted by position.
func (r *CheckResult) Diagnostics() []diag.Diagnostic {
	all := diag.NewBag(0)
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			all.Merge(r.Files[i].Bag)
		}
	}
	all.Sort()
	return all.Items()
}

// ExpandPaths replaces directories with the *.lox files below them, sorted.
// Explicit file arguments are kept as given.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// пусть ошибку загрузки сообщит сам Check
			out = append(out, p)
			continue
		}
		files, err := listLoxFiles(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func listLoxFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Check compiles every file in paths concurrently without running them.
// Files are loaded up front into one FileSet, which workers then only read.
func Check(ctx context.Context, paths []string, opts CheckOptions) (*CheckResult, error) {
	if opts.Events != nil {
		defer close(opts.Events)
	}
	ctx, root := trace.Start(ctx, trace.ScopeDriver, "check")
	defer root.End(fmt.Sprintf("%d files", len(paths)))

	fileSet := source.NewFileSet()
	results := make([]FileResult, len(paths))
	for i, path := range paths {
		results[i] = FileResult{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}
		send(ctx, opts.Events, Event{File: path, Stage: StageNone, Status: StatusQueued})
	}

	_, endLoad := opts.phase(ctx, trace.ScopePass, "load")
	loaded := make([]*source.File, len(paths))
	for i, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			results[i].Err = fmt.Errorf("%w: %w", ErrLoad, err)
			send(ctx, opts.Events, Event{File: path, Stage: StageLoad, Status: StatusError})
			continue
		}
		results[i].FileID = id
		loaded[i] = fileSet.Get(id)
	}
	endLoad(fmt.Sprintf("%d files", len(paths))).End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	_, endCompile := opts.phase(ctx, trace.ScopePass, "compile")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i := range paths {
		if loaded[i] == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индексы уникальны для каждой горутины, мьютекс не нужен
			checkOne(gctx, fileSet, loaded[i], &results[i], opts)
			return nil
		})
	}
	err := g.Wait()
	endCompile("").End("")
	if err != nil {
		return nil, err
	}
	return &CheckResult{FileSet: fileSet, Files: results}, nil
}

func checkOne(ctx context.Context, fileSet *source.FileSet, file *source.File, res *FileResult, opts CheckOptions) {
	_, span := trace.Start(ctx, trace.ScopeFile, res.Path)
	defer span.End("")

	if opts.Cache != nil {
		if entry, ok := opts.Cache.Lookup(file.Content); ok {
			entry.restore(file.ID, res)
			span.WithExtra("cache", "hit")
			send(ctx, opts.Events, Event{File: res.Path, Stage: StageCompile, Status: StatusCached})
			return
		}
	}

	send(ctx, opts.Events, Event{File: res.Path, Stage: StageCompile, Status: StatusWorking})
	_, stats, err := compiler.CompileWithStats(file, compiler.Options{
		Reporter: diag.BagReporter{Bag: res.Bag},
	})
	res.Stats = stats
	res.Err = err

	if opts.Cache != nil {
		if putErr := opts.Cache.Store(file.Content, newCacheEntry(res)); putErr != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache", putErr.Error(), span.ID())
		}
	}

	status := StatusDone
	if err != nil {
		status = StatusError
	}
	send(ctx, opts.Events, Event{File: res.Path, Stage: StageCompile, Status: status})
}

func send(ctx context.Context, ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
