package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loxvm/internal/compiler"
	"loxvm/internal/diagfmt"
	"loxvm/internal/driver"
	"loxvm/internal/vm"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return cliResult{code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "ok.lox", "(-1 + 2) * 3 - 4 / 2\n")

	for _, args := range [][]string{{path}, {"run", path}} {
		res := runCLI(t, "", args...)
		if res.code != exitOK || res.stdout != "1\n" || res.stderr != "" {
			t.Fatalf("%v: %+v", args, res)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	res := runCLI(t, "", "a.lox", "b.lox")
	if res.code != exitUsage || res.stderr != "Usage: loxvm [path]\n" {
		t.Fatalf("two paths: %+v", res)
	}
	res = runCLI(t, "", "--no-such-flag")
	if res.code != exitUsage || !strings.Contains(res.stderr, "no-such-flag") {
		t.Fatalf("unknown flag: %+v", res)
	}
	res = runCLI(t, "", "run")
	if res.code != exitUsage {
		t.Fatalf("run without file: %+v", res)
	}
	res = runCLI(t, "", "--color=sometimes", "version")
	if res.code != exitUsage {
		t.Fatalf("bad color: %+v", res)
	}
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, "", writeSource(t, dir, "syntax.lox", "(1 + 2"))
	if res.code != exitCompile || res.stderr != "[line 1] Error at end: Expect ')' after expression\n" {
		t.Fatalf("compile error: %+v", res)
	}

	res = runCLI(t, "", writeSource(t, dir, "lex.lox", "1 + $"))
	if res.code != exitCompile || res.stderr != "[line 1] Error: Unexpected character.\n" {
		t.Fatalf("lexical error: %+v", res)
	}

	res = runCLI(t, "", writeSource(t, dir, "type.lox", "1 +\n\"a\""))
	want := "Operands must be two numbers or two strings\n[line 2] in script\n"
	if res.code != exitRuntime || res.stderr != want || res.stdout != "" {
		t.Fatalf("runtime error: %+v", res)
	}

	res = runCLI(t, "", filepath.Join(dir, "missing.lox"))
	if res.code != exitIOError || !strings.HasPrefix(res.stderr, "loxvm: load source: ") {
		t.Fatalf("missing file: %+v", res)
	}
}

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{usageErrorf("x"), exitUsage},
		{&exitError{code: 42}, 42},
		{fmt.Errorf("%w: nope", driver.ErrLoad), exitIOError},
		{fmt.Errorf("f.lox: %w", compiler.ErrCompile), exitCompile},
		{&vm.Error{Kind: vm.KindCompile, Code: vm.CodeBadOpcode}, exitCompile},
		{&vm.Error{Kind: vm.KindRuntime, Code: vm.CodeOperandNumber}, exitRuntime},
		{errors.New("other"), exitFailure},
	}
	for _, tc := range cases {
		if got := exitCodeFor(tc.err); got != tc.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestREPLPiped(t *testing.T) {
	stdin := "1 + 1\n\n-nil\n:help\n\"a\" + \"b\"\n:quit\n2\n"
	for _, args := range [][]string{nil, {"repl"}} {
		res := runCLI(t, stdin, args...)
		if res.code != exitOK {
			t.Fatalf("%v: exit %d (%s)", args, res.code, res.stderr)
		}
		if res.stdout != "2\nab\n" {
			t.Fatalf("%v: stdout %q", args, res.stdout)
		}
		wantErr := "Operand must be a number\n[line 1] in script\nunknown command. Type :quit to exit.\n"
		if res.stderr != wantErr {
			t.Fatalf("%v: stderr %q", args, res.stderr)
		}
	}
}

func TestREPLCompileErrorContinues(t *testing.T) {
	res := runCLI(t, "1 +\n3\n")
	if res.code != exitOK || res.stdout != "3\n" || res.stderr != "[line 1] Error at end: Expect expression\n" {
		t.Fatalf("unexpected %+v", res)
	}
}

func TestTokenizeCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "t.lox", "1 + nil")

	res := runCLI(t, "", "tokenize", "--format", "json", path)
	if res.code != exitOK {
		t.Fatalf("tokenize: %+v", res)
	}
	var toks []diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(res.stdout), &toks); err != nil {
		t.Fatal(err)
	}
	if len(toks) != 4 || toks[2].Kind != "Nil" || toks[3].Kind != "EOF" {
		t.Fatalf("unexpected tokens %+v", toks)
	}

	res = runCLI(t, "", "tokenize", "--format", "msgpack", path)
	decoded, err := diagfmt.DecodeTokensMsgpack(strings.NewReader(res.stdout))
	if err != nil || len(decoded) != 4 {
		t.Fatalf("msgpack: %v %+v", err, decoded)
	}

	res = runCLI(t, "", "tokenize", writeSource(t, dir, "bad.lox", "\"open"))
	if res.code != exitCompile || res.stderr != "[line 1] Error: Unterminated string\n" {
		t.Fatalf("lexical errors: %+v", res)
	}
	if !strings.Contains(res.stdout, "Error") || !strings.Contains(res.stdout, "EOF") {
		t.Fatalf("pretty output: %q", res.stdout)
	}

	res = runCLI(t, "", "tokenize", "--format", "xml", path)
	if res.code != exitUsage {
		t.Fatalf("bad format: %+v", res)
	}
}

func TestDisasmCommand(t *testing.T) {
	dir := t.TempDir()
	res := runCLI(t, "", "disasm", writeSource(t, dir, "d.lox", "!(1 >= 2)"))
	if res.code != exitOK {
		t.Fatalf("disasm: %+v", res)
	}
	for _, want := range []string{"== ", "OP_CONSTANT", "OP_LESS", "OP_NOT", "OP_RETURN"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("disassembly lacks %q:\n%s", want, res.stdout)
		}
	}
	res = runCLI(t, "", "disasm", writeSource(t, dir, "e.lox", "1 2"))
	if res.code != exitCompile || res.stderr != "[line 1] Error at '2': Expect end of expression\n" {
		t.Fatalf("disasm error: %+v", res)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "good.lox", "1 + 2")
	writeSource(t, dir, "bad.lox", "1 2")

	res := runCLI(t, "", "check", "--ui=off", dir)
	if res.code != exitCompile {
		t.Fatalf("check: %+v", res)
	}
	if !strings.Contains(res.stdout, "error SYN2003 ") || !strings.Contains(res.stdout, ":1:3 Expect end of expression") {
		t.Fatalf("short diagnostics: %q", res.stdout)
	}
	if !strings.HasSuffix(res.stdout, "checked 2 files: 1 failed\n") {
		t.Fatalf("summary: %q", res.stdout)
	}

	res = runCLI(t, "", "check", "--format=json", filepath.Join(dir, "bad.lox"))
	var payload map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatalf("json output %q: %v", res.stdout, err)
	}

	res = runCLI(t, "", "check", "--ui=off", "--quiet", filepath.Join(dir, "good.lox"))
	if res.code != exitOK || res.stdout != "" {
		t.Fatalf("quiet check: %+v", res)
	}

	res = runCLI(t, "", "check", "--ui=off", filepath.Join(dir, "none.lox"))
	if res.code != exitIOError || !strings.Contains(res.stderr, "load source") {
		t.Fatalf("missing file: %+v", res)
	}
	if res.stdout != "checked 1 file: 1 failed\n" {
		t.Fatalf("single file summary: %q", res.stdout)
	}

	res = runCLI(t, "", "check")
	if res.code != exitUsage {
		t.Fatalf("check without paths: %+v", res)
	}
}

func TestShouldUseTUI(t *testing.T) {
	var buf bytes.Buffer
	cases := []struct {
		mode  uiMode
		files int
		want  bool
	}{
		{uiModeOn, 1, true},
		{uiModeOff, 5, false},
		// буфер не терминал
		{uiModeAuto, 5, false},
		{uiModeAuto, 1, false},
	}
	for _, c := range cases {
		if got := shouldUseTUI(c.mode, &buf, c.files); got != c.want {
			t.Errorf("shouldUseTUI(%s, %d) = %v, want %v", c.mode, c.files, got, c.want)
		}
	}
	for _, v := range []string{"", " AUTO ", "on", "off"} {
		if _, err := readUIMode(v); err != nil {
			t.Errorf("readUIMode(%q): %v", v, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("readUIMode accepted an unknown mode")
	}
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, "", "version", "--format=json", "--full")
	var payload versionPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "loxvm" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	res = runCLI(t, "", "--color=off", "version")
	if !strings.HasPrefix(res.stdout, "loxvm ") {
		t.Fatalf("pretty version: %q", res.stdout)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeSource(t, dir, configFileName, "[debug]\nprint_code = true\n\n[diagnostics]\ncolor = \"off\"\n")
	path := writeSource(t, dir, "c.lox", "1")

	res := runCLI(t, "", "--config", cfg, path)
	if res.code != exitOK || !strings.Contains(res.stdout, "OP_RETURN") || !strings.HasSuffix(res.stdout, "\n1\n") {
		t.Fatalf("print_code from config: %+v", res)
	}

	res = runCLI(t, "", "--config", cfg, "--print-code=false", path)
	if res.stdout != "1\n" {
		t.Fatalf("flag must override config: %+v", res)
	}

	bad := writeSource(t, dir, "bad.toml", "[debug]\nprint_cod = true\n")
	res = runCLI(t, "", "--config", bad, path)
	if res.code != exitFailure || !strings.Contains(res.stderr, "unknown keys: debug.print_cod") {
		t.Fatalf("unknown key: %+v", res)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, configFileName, "")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	found, ok, err := findConfig(nested)
	if err != nil || !ok || found != filepath.Join(dir, configFileName) {
		t.Fatalf("findConfig = %q %v %v", found, ok, err)
	}
}

func TestTimingsAndTrace(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "x.lox", "2 * 3")

	res := runCLI(t, "", "--timings", path)
	if res.stdout != "6\n" || !strings.Contains(res.stderr, "timings:") || !strings.Contains(res.stderr, "execute") {
		t.Fatalf("timings: %+v", res)
	}

	res = runCLI(t, "", "--trace=-", path)
	for _, want := range []string{"driver:run", "pass:compile", "pass:execute"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("trace lacks %q:\n%s", want, res.stderr)
		}
	}

	res = runCLI(t, "", "--trace-level=phase", "--trace-mode=ring", writeSource(t, dir, "bad.lox", "-nil"))
	if res.code != exitRuntime || !strings.Contains(res.stderr, "trace: last events before failure:") {
		t.Fatalf("ring dump: %+v", res)
	}

	res = runCLI(t, "", "--trace-exec", path)
	if !strings.Contains(res.stdout, "[ 2 ][ 3 ]") || !strings.HasSuffix(res.stdout, "6\n") {
		t.Fatalf("trace-exec: %q", res.stdout)
	}
}
