package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

const (
	defaultPrompt      = "> "
	defaultHistoryFile = ".loxvm_history"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid color value %q (expected auto|on|off)", value)
	}
}

// settings is the effective configuration: loxvm.toml values overridden by
// explicitly set flags.
type settings struct {
	configPath     string
	color          colorMode
	quiet          bool
	timings        bool
	maxDiagnostics int
	printCode      bool
	traceExec      bool
	prompt         string
	historyPath    string // "" отключает историю
}

func resolveSettings(flags *pflag.FlagSet) (settings, error) {
	st := settings{
		color:          colorAuto,
		maxDiagnostics: 100,
		prompt:         defaultPrompt,
		historyPath:    expandHome(filepath.Join("~", defaultHistoryFile)),
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return st, err
	}
	if configPath == "" {
		found, ok, err := findConfig(".")
		if err != nil {
			return st, err
		}
		if ok {
			configPath = found
		}
	}
	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return st, err
		}
		st.configPath = configPath
		st.applyConfig(cfg)
	}

	if flags.Changed("color") {
		value, _ := flags.GetString("color")
		if st.color, err = readColorMode(value); err != nil {
			return st, usageErrorf("%v", err)
		}
	}
	if flags.Changed("max-diagnostics") {
		st.maxDiagnostics, _ = flags.GetInt("max-diagnostics")
	}
	if flags.Changed("print-code") {
		st.printCode, _ = flags.GetBool("print-code")
	}
	if flags.Changed("trace-exec") {
		st.traceExec, _ = flags.GetBool("trace-exec")
	}
	st.quiet, _ = flags.GetBool("quiet")
	st.timings, _ = flags.GetBool("timings")
	return st, nil
}

func (st *settings) applyConfig(cfg fileConfig) {
	if cfg.REPL.Prompt != nil {
		st.prompt = *cfg.REPL.Prompt
	}
	if cfg.REPL.History != nil {
		st.historyPath = expandHome(*cfg.REPL.History)
	}
	st.printCode = cfg.Debug.PrintCode
	st.traceExec = cfg.Debug.TraceExecution
	if cfg.Diagnostics.Color != "" {
		// значение уже проверено в loadConfig
		st.color, _ = readColorMode(cfg.Diagnostics.Color)
	}
	if cfg.Diagnostics.Max > 0 {
		st.maxDiagnostics = cfg.Diagnostics.Max
	}
}
