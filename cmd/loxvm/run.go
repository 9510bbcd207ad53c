package main

import (
	"github.com/spf13/cobra"

	"loxvm/internal/driver"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [flags] file.lox",
		Short: "Compile and run a source file",
		Long:  `Run compiles the file to bytecode, executes it and prints the resulting value`,
		Args:  exactArgs(1, "Usage: loxvm run file.lox"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, a, args[0])
		},
	}
}

func runFile(cmd *cobra.Command, a *app, path string) error {
	printCode, traceExec := a.debugWriters(cmd)
	_, err := driver.RunFile(cmd.Context(), path, driver.RunOptions{
		Options:        a.driverOptions(),
		Stdout:         cmd.OutOrStdout(),
		Stderr:         cmd.ErrOrStderr(),
		Color:          a.colorFor(cmd.ErrOrStderr()),
		DebugPrintCode: printCode,
		Trace:          traceExec,
	})
	return err
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s", usage)
		}
		return nil
	}
}
