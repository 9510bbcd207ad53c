// Package trace records what the loxvm pipeline is doing: which file is being
// scanned, compiled or executed, and how long every pass took.
//
// # Usage
//
//	loxvm run --trace=- --trace-level=phase script.lox
//	loxvm check --trace=trace.ndjson --trace-level=detail a.lox b.lox
//
// # Tracers
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory, dumped on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Each event has a scope, from the coarsest to the finest:
//
//   - ScopeDriver: one CLI operation (run, check, disasm)
//   - ScopePass: scan / compile / execute of one source
//   - ScopeFile: per-file work inside a parallel check
//   - ScopeInstr: single VM instructions
//
// The level picks how deep events are emitted: phase keeps driver and pass,
// detail adds files, debug emits everything.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "compile", parentID)
//	defer span.End("")
package trace
