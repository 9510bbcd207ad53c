package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loxvm/internal/trace"
)

// setupTracing inspects trace-related flags, creates the tracer and attaches
// it to the command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command, a *app) (func(), error) {
	flags := cmd.Flags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		a.tracer = trace.Nop
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, usageErrorf("%v", err)
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	}
	if traceOutput == "" || traceOutput == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	a.tracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	heartbeat := trace.StartHeartbeat(tracer, heartbeatInterval)

	cleanup := func() {
		heartbeat.Stop()
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
