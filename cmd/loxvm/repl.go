package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"loxvm/internal/vm"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive prompt",
		Long: `Repl reads one line at a time and interprets it on a single VM.
Errors are printed and the session continues; :quit or Ctrl-D exits.`,
		Args: exactArgs(0, "Usage: loxvm repl"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, a)
		},
	}
}

// prompter is the part of *liner.State the loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// scannerPrompter reads piped input without echoing a prompt.
type scannerPrompter struct {
	sc *bufio.Scanner
}

func (p *scannerPrompter) Prompt(string) (string, error) {
	if p.sc.Scan() {
		return p.sc.Text(), nil
	}
	if err := p.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func runREPL(cmd *cobra.Command, a *app) error {
	machine := a.newVM(cmd)
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isTerminal(in) || !isTerminalWriter(cmd.OutOrStdout()) {
		sc := bufio.NewScanner(cmd.InOrStdin())
		return replLoop(&scannerPrompter{sc: sc}, machine, "", cmd.ErrOrStderr(), nil)
	}
	return interactiveREPL(cmd, a, machine)
}

func interactiveREPL(cmd *cobra.Command, a *app, machine *vm.VM) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := a.settings.historyPath
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	err := replLoop(ln, machine, a.settings.prompt, cmd.ErrOrStderr(), ln.AppendHistory)
	fmt.Fprintln(cmd.OutOrStdout())
	return err
}

// replLoop interprets one line per prompt until EOF or :quit. Interpret
// errors are already printed by the VM and do not end the session.
func replLoop(p prompter, machine *vm.VM, prompt string, stderr io.Writer, remember func(string)) error {
	for {
		line, err := p.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.ToLower(trimmed) == ":quit" {
				return nil
			}
			fmt.Fprintln(stderr, "unknown command. Type :quit to exit.")
			continue
		}

		if remember != nil {
			remember(line)
		}
		_ = machine.Interpret(line)
	}
}
