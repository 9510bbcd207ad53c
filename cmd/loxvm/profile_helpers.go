package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loxvm/internal/prof"
)

// setupProfiling inspects profiling flags and starts the requested profilers.
// The returned cleanup is safe to call multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Flags()

	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}

	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	cleaned := false
	return func() {
		if cleaned {
			return
		}
		cleaned = true
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
