package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"loxvm/internal/diag"
	"loxvm/internal/diagfmt"
	"loxvm/internal/driver"
)

const cacheAppName = "loxvm"

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch mode := uiMode(strings.TrimSpace(strings.ToLower(value))); mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI: в auto прогресс показывается только в терминале и только
// когда файлов больше одного.
func shouldUseTUI(mode uiMode, out io.Writer, files int) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return files > 1 && isTerminalWriter(out)
}

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] path...",
		Short: "Compile source files without running them",
		Long: `Check compiles every given file (directories are searched for *.lox) in
parallel and reports all diagnostics. Nothing is executed.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("Usage: loxvm check [flags] path...")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, a, args)
		},
	}
	cmd.Flags().String("format", "short", "diagnostics format (short|json)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Int("jobs", runtime.GOMAXPROCS(0), "parallel workers")
	cmd.Flags().Bool("cache", false, "reuse results for unchanged files from the user cache directory")
	cmd.Flags().Bool("clear-cache", false, "drop cached results before checking")
	return cmd
}

func runCheck(cmd *cobra.Command, a *app, args []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	if format != "short" && format != "json" {
		return usageErrorf("unknown format: %s (expected short|json)", format)
	}
	uiValue, _ := flags.GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return usageErrorf("%v", err)
	}
	jobs, _ := flags.GetInt("jobs")
	useCache, _ := flags.GetBool("cache")
	clearCache, _ := flags.GetBool("clear-cache")

	files, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return usageErrorf("no %s files found in %s", driver.SourceExt, strings.Join(args, " "))
	}

	opts := driver.CheckOptions{Options: a.driverOptions(), Jobs: jobs}
	if useCache || clearCache {
		cache, err := driver.OpenCheckCache(cacheAppName)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
		}
		if useCache {
			opts.Cache = cache
		}
	}

	out := cmd.OutOrStdout()
	var res *driver.CheckResult
	if format == "short" && !a.settings.quiet && shouldUseTUI(mode, out, len(files)) {
		res, err = runCheckWithUI(cmd.Context(), out, "checking", files, opts)
	} else {
		res, err = driver.Check(cmd.Context(), files, opts)
	}
	if err != nil {
		return err
	}
	return reportCheck(cmd, a, res, format)
}

func reportCheck(cmd *cobra.Command, a *app, res *driver.CheckResult, format string) error {
	out, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	diags := res.Diagnostics()

	if format == "json" {
		err := diagfmt.JSON(out, diags, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			Max:              a.settings.maxDiagnostics,
		})
		if err != nil {
			return err
		}
	} else {
		if text := diag.FormatShortDiagnostics(diags, res.FileSet, false); text != "" {
			fmt.Fprintln(out, text)
		}
	}

	loadFailed, compileFailed, cached := 0, 0, 0
	for _, f := range res.Files {
		switch {
		case errors.Is(f.Err, driver.ErrLoad):
			loadFailed++
			fmt.Fprintf(stderr, "loxvm: %v\n", f.Err)
		case f.Err != nil:
			compileFailed++
		}
		if f.Cached {
			cached++
		}
	}

	if !a.settings.quiet && format == "short" {
		newPrinter().Fprintf(out, msgChecked, len(res.Files))
		fmt.Fprintf(out, ": %d failed", loadFailed+compileFailed)
		if cached > 0 {
			fmt.Fprintf(out, ", %d cached", cached)
		}
		fmt.Fprintln(out)
	}

	switch {
	case compileFailed > 0:
		return &exitError{code: exitCompile}
	case loadFailed > 0:
		return &exitError{code: exitIOError}
	}
	return nil
}
