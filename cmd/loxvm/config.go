package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = "loxvm.toml"

// fileConfig mirrors loxvm.toml. Every section is optional.
//
//	[repl]
//	prompt = "> "
//	history = "~/.loxvm_history"
//
//	[debug]
//	print_code = false
//	trace_execution = false
//
//	[diagnostics]
//	color = "auto"
//	max = 100
type fileConfig struct {
	REPL        replConfig        `toml:"repl"`
	Debug       debugConfig       `toml:"debug"`
	Diagnostics diagnosticsConfig `toml:"diagnostics"`
}

type replConfig struct {
	Prompt  *string `toml:"prompt"`
	History *string `toml:"history"`
}

type debugConfig struct {
	PrintCode      bool `toml:"print_code"`
	TraceExecution bool `toml:"trace_execution"`
}

type diagnosticsConfig struct {
	Color string `toml:"color"`
	Max   int    `toml:"max"`
}

// findConfig walks from startDir up to the filesystem root looking for
// loxvm.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if c := cfg.Diagnostics.Color; c != "" {
		if _, err := readColorMode(c); err != nil {
			return fileConfig{}, fmt.Errorf("%s: [diagnostics].color: %w", path, err)
		}
	}
	if cfg.Diagnostics.Max < 0 {
		return fileConfig{}, fmt.Errorf("%s: [diagnostics].max must not be negative", path)
	}
	return cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
