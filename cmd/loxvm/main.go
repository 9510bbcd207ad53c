package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"loxvm/internal/version"
)

// main runs the CLI and exits with the status chosen by exitCodeFor:
// 64 usage, 65 compile error, 70 runtime error, 74 unreadable input.
func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	if args == nil {
		// cobra подставляет os.Args, если args == nil
		args = []string{}
	}
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.finish(stderr, err)
	return reportError(stderr, err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "loxvm [path]",
		Short: "Bytecode compiler and virtual machine for Lox expressions",
		Long: `loxvm compiles Lox expressions to bytecode and runs them on a stack VM.
Without arguments it starts an interactive prompt; with a path it runs that file.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("Usage: loxvm [path]")
			}
			return nil
		},
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runREPL(cmd, a)
			}
			return runFile(cmd, a, args[0])
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error() + "\n" + cmd.UsageString()}
	})

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "path to loxvm.toml (default: search upward from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.Bool("print-code", false, "disassemble every compiled chunk")
	pf.Bool("trace-exec", false, "print the stack and each instruction while executing")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(
		newRunCmd(a),
		newReplCmd(a),
		newTokenizeCmd(a),
		newDisasmCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isTerminalWriter is isTerminal for writers that may not be files.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
