package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loxvm/internal/driver"
	"loxvm/internal/observ"
	"loxvm/internal/trace"
	"loxvm/internal/vm"
)

// app is the state shared by all commands of one invocation.
type app struct {
	settings settings
	tracer   trace.Tracer
	timer    *observ.Timer
	cleanups []func()
}

// setup runs before every command: settings, colour, tracing, profiling.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	st, err := resolveSettings(cmd.Flags())
	if err != nil {
		return err
	}
	a.settings = st
	color.NoColor = !a.colorFor(cmd.ErrOrStderr())

	cleanupTrace, err := setupTracing(cmd, a)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, cleanupTrace)

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, cleanupProf)

	if st.timings {
		a.timer = observ.NewTimer()
	}
	return nil
}

// finish prints timings, dumps the trace ring when the command failed and
// releases tracing and profiling resources.
func (a *app) finish(stderr io.Writer, err error) {
	if a.timer != nil && !a.settings.quiet {
		fmt.Fprint(stderr, a.timer.Summary())
	}
	if err != nil {
		if ring := trace.RingOf(a.tracer); ring != nil {
			fmt.Fprintln(stderr, "trace: last events before failure:")
			if dumpErr := ring.Dump(stderr, trace.FormatText); dumpErr != nil {
				fmt.Fprintf(stderr, "trace: dump error: %v\n", dumpErr)
			}
		}
	}
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

func (a *app) colorFor(w io.Writer) bool {
	switch a.settings.color {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return isTerminalWriter(w)
	}
}

func (a *app) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics: a.settings.maxDiagnostics,
		Timer:          a.timer,
	}
}

// debugWriters returns the disassembly and execution-trace writers enabled
// by --print-code and --trace-exec.
func (a *app) debugWriters(cmd *cobra.Command) (printCode, traceExec io.Writer) {
	if a.settings.printCode {
		printCode = cmd.OutOrStdout()
	}
	if a.settings.traceExec {
		traceExec = cmd.OutOrStdout()
	}
	return printCode, traceExec
}

func (a *app) newVM(cmd *cobra.Command) *vm.VM {
	printCode, traceExec := a.debugWriters(cmd)
	return vm.New(vm.Options{
		Stdout:         cmd.OutOrStdout(),
		Stderr:         cmd.ErrOrStderr(),
		Color:          a.colorFor(cmd.ErrOrStderr()),
		DebugPrintCode: printCode,
		Trace:          traceExec,
	})
}
