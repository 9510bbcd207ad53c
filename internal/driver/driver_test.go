package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loxvm/internal/compiler"
	"loxvm/internal/diag"
	"loxvm/internal/observ"
	"loxvm/internal/token"
	"loxvm/internal/trace"
	"loxvm/internal/vm"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.lox", "(-1 + 2) * 3 - 4 / 2\n")

	var out, errOut, traceBuf bytes.Buffer
	tr := trace.NewStreamTracer(&traceBuf, trace.LevelPhase, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)
	timer := observ.NewTimer()

	var phases []string
	res, err := RunFile(ctx, path, RunOptions{
		Options: Options{
			Timer: timer,
			Observer: func(ev PhaseEvent) {
				if ev.Status == PhaseStart {
					phases = append(phases, ev.Name)
				}
			},
		},
		Stdout: &out,
		Stderr: &errOut,
	})
	if err != nil {
		t.Fatalf("RunFile: %v (stderr %q)", err, errOut.String())
	}
	if out.String() != "1\n" || !res.HasValue || res.Value.AsNumber() != 1 {
		t.Fatalf("unexpected output %q / %v", out.String(), res.Value)
	}
	if strings.Join(phases, ",") != "load,compile,execute" {
		t.Fatalf("unexpected phases %v", phases)
	}
	if len(timer.Report().Phases) != 3 {
		t.Fatalf("timer should record 3 phases: %+v", timer.Report())
	}
	for _, want := range []string{"driver:run", "pass:load", "pass:compile", "pass:execute", "result=1"} {
		if !strings.Contains(traceBuf.String(), want) {
			t.Errorf("trace lacks %q:\n%s", want, traceBuf.String())
		}
	}
}

func TestRunFileErrors(t *testing.T) {
	dir := t.TempDir()

	var out, errOut bytes.Buffer
	opts := RunOptions{Stdout: &out, Stderr: &errOut}

	_, err := RunFile(context.Background(), writeFile(t, dir, "bad.lox", "1 +\n"), opts)
	if !errors.Is(err, compiler.ErrCompile) {
		t.Fatalf("expected compile error, got %v", err)
	}
	if errOut.String() != "[line 2] Error at end: Expect expression\n" {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}

	errOut.Reset()
	_, err = RunFile(context.Background(), writeFile(t, dir, "rt.lox", "\n-\"x\""), opts)
	if !errors.Is(err, vm.ErrRuntime) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if errOut.String() != "Operand must be a number\n[line 2] in script\n" {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}

	_, err = RunFile(context.Background(), filepath.Join(dir, "missing.lox"), opts)
	if !errors.Is(err, ErrLoad) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected load error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed, got %q", out.String())
	}
}

func TestTokenize(t *testing.T) {
	dir := t.TempDir()
	res, err := Tokenize(context.Background(), writeFile(t, dir, "t.lox", "1 + @\n\"a"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	kinds := make([]token.Kind, 0, len(res.Tokens))
	for _, tok := range res.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.Number, token.Plus, token.Error, token.Error, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected kinds %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, kinds[i], want[i])
		}
	}
	items := res.Bag.Items()
	if len(items) != 2 || items[0].Code != diag.LexUnknownChar || items[1].Code != diag.LexUnterminatedString {
		t.Fatalf("unexpected diagnostics %+v", items)
	}
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	var dump bytes.Buffer
	res, err := CompileFile(context.Background(), writeFile(t, dir, "c.lox", "1 + 2"), CompileOptions{DebugPrintCode: &dump})
	if err != nil {
		t.Fatal(err)
	}
	if res.Chunk == nil || res.Chunk.Len() != 6 || res.Stats.Tokens == 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.HasPrefix(dump.String(), "== ") {
		t.Fatalf("unexpected dump %q", dump.String())
	}

	res, err = CompileFile(context.Background(), writeFile(t, dir, "e.lox", "(1"), CompileOptions{})
	if !errors.Is(err, compiler.ErrCompile) || res.Chunk != nil || !res.Bag.HasErrors() {
		t.Fatalf("expected failed compile, got %v / %+v", err, res)
	}
	if res.Bag.Items()[0].Code != diag.SynExpectRightParen {
		t.Fatalf("unexpected code %v", res.Bag.Items()[0].Code)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.lox", "1 + 2")
	writeFile(t, dir, "sub/b.lox", "1 +\n(")
	writeFile(t, dir, "sub/c.lox", "\"s\" == nil")
	writeFile(t, dir, "notes.txt", "ignored")

	paths, err := ExpandPaths([]string{dir, filepath.Join(dir, "missing.lox")})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 4 || !strings.HasSuffix(paths[0], "a.lox") || !strings.HasSuffix(paths[3], "missing.lox") {
		t.Fatalf("unexpected paths %v", paths)
	}

	events := make(chan Event, 64)
	res, err := Check(context.Background(), paths, CheckOptions{Jobs: 2, Events: events})
	if err != nil {
		t.Fatal(err)
	}
	finished := 0
	for ev := range events {
		if ev.Finished() {
			finished++
		}
	}
	if finished != 4 {
		t.Fatalf("expected 4 finished events, got %d", finished)
	}

	if !res.HasErrors() {
		t.Fatal("expected errors")
	}
	if res.Files[0].Err != nil || res.Files[2].Err != nil {
		t.Fatalf("a.lox and c.lox must compile: %v %v", res.Files[0].Err, res.Files[2].Err)
	}
	if !errors.Is(res.Files[1].Err, compiler.ErrCompile) {
		t.Fatalf("b.lox must fail: %v", res.Files[1].Err)
	}
	if !errors.Is(res.Files[3].Err, ErrLoad) {
		t.Fatalf("missing.lox must fail to load: %v", res.Files[3].Err)
	}
	diags := res.Diagnostics()
	if len(diags) != 1 || diags[0].Code != diag.SynExpectExpression {
		t.Fatalf("panic mode should leave one diagnostic: %+v", diags)
	}
}

func TestCheckCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCheckCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	bad := writeFile(t, dir, "bad.lox", "1 2")
	good := writeFile(t, dir, "good.lox", "true")

	first, err := Check(context.Background(), []string{bad, good}, CheckOptions{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if first.Files[0].Cached || first.Files[1].Cached {
		t.Fatal("first run must not hit the cache")
	}

	second, err := Check(context.Background(), []string{bad, good}, CheckOptions{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Files[0].Cached || !second.Files[1].Cached {
		t.Fatal("second run must hit the cache")
	}
	if !errors.Is(second.Files[0].Err, compiler.ErrCompile) || second.Files[1].Err != nil {
		t.Fatalf("cached errors differ: %v %v", second.Files[0].Err, second.Files[1].Err)
	}
	got := diag.FormatShortDiagnostics(second.Diagnostics(), second.FileSet, false)
	want := diag.FormatShortDiagnostics(first.Diagnostics(), first.FileSet, false)
	if got != want || got == "" {
		t.Fatalf("cached diagnostics differ:\n%s\nvs\n%s", got, want)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Lookup([]byte("1 2")); ok {
		t.Fatal("DropAll must clear entries")
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll on empty cache: %v", err)
	}
}

func TestCheckCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Check(ctx, []string{writeFile(t, dir, "a.lox", "1")}, CheckOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
