package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loxvm/internal/compiler"
	"loxvm/internal/diagfmt"
	"loxvm/internal/driver"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.lox",
		Short: "Tokenize a source file",
		Long:  `Tokenize breaks a source file down into its tokens, ending with EOF`,
		Args:  exactArgs(1, "Usage: loxvm tokenize [--format pretty|json|msgpack] file.lox"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, a, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	return cmd
}

func runTokenize(cmd *cobra.Command, a *app, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return usageErrorf("unknown format: %s (expected pretty|json|msgpack)", format)
	}

	result, err := driver.Tokenize(cmd.Context(), path, a.driverOptions())
	if err != nil {
		return err
	}

	// Выводим диагностику в stderr, если есть
	stderr := cmd.ErrOrStderr()
	for _, d := range result.Bag.Items() {
		fmt.Fprintln(stderr, diagfmt.FormatClassic(result.FileSet, d))
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	case "msgpack":
		err = diagfmt.FormatTokensMsgpack(out, result.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("%s: %w", path, compiler.ErrCompile)
	}
	return nil
}
