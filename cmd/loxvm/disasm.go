package main

import (
	"github.com/spf13/cobra"

	"loxvm/internal/diagfmt"
	"loxvm/internal/driver"
)

func newDisasmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm file.lox",
		Short: "Compile a source file and print its bytecode",
		Long:  `Disasm compiles the file without running it and prints the chunk disassembly`,
		Args:  exactArgs(1, "Usage: loxvm disasm file.lox"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(cmd, a, args[0])
		},
	}
}

func runDisasm(cmd *cobra.Command, a *app, path string) error {
	opts := driver.CompileOptions{Options: a.driverOptions()}
	res, err := driver.CompileFile(cmd.Context(), path, opts)
	if err != nil {
		if res != nil {
			for _, d := range res.Bag.Items() {
				cmd.PrintErrln(diagfmt.FormatClassic(res.FileSet, d))
			}
		}
		return err
	}
	return res.Chunk.Disassemble(cmd.OutOrStdout(), res.FileSet.RelPath(res.File))
}
