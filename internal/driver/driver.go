// Package driver runs the loxvm pipeline (load, scan, compile, execute) for
// the CLI, with tracing spans, phase timings and progress events.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loxvm/internal/observ"
	"loxvm/internal/source"
	"loxvm/internal/trace"
)

// ErrLoad wraps failures to read a source file.
var ErrLoad = errors.New("load source")

// Options are shared by every driver entry point.
type Options struct {
	// MaxDiagnostics caps each file's diagnostic bag; 0 means no cap.
	MaxDiagnostics int
	// Timer, если задан, получает длительность каждой фазы.
	Timer *observ.Timer
	// Observer is notified when a phase starts and ends.
	Observer PhaseObserver
}

// phase starts a timed and traced phase. The returned function ends it.
func (o Options) phase(ctx context.Context, scope trace.Scope, name string) (context.Context, func(note string) *trace.Span) {
	ctx, span := trace.Start(ctx, scope, name)
	idx := o.Timer.Begin(name)
	started := time.Now()
	if o.Observer != nil {
		o.Observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return ctx, func(note string) *trace.Span {
		o.Timer.End(idx, note)
		if o.Observer != nil {
			o.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(started)})
		}
		return span
	}
}

// loadFile reads path into fs inside a "load" phase.
func loadFile(ctx context.Context, fs *source.FileSet, path string, opts Options) (*source.File, error) {
	_, end := opts.phase(ctx, trace.ScopePass, "load")
	id, err := fs.Load(path)
	if err != nil {
		end("failed").End(err.Error())
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	file := fs.Get(id)
	end(fmt.Sprintf("%d bytes", len(file.Content))).
		WithExtra("bytes", fmt.Sprint(len(file.Content))).
		End("")
	return file, nil
}
