// Package diag defines the diagnostic model shared by the scanner, the
// compiler and the command-line tooling.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string form
//     (LEXnnnn for the scanner, SYNnnnn for the compiler, RUNnnnn for
//     runtime failures surfaced by tooling, IOnnnn for file loading).
//   - Message – the human oriented text printed after "Error ...:".
//   - Primary span – the source.Span of the offending token. An empty span
//     at the end of a file denotes the end-of-input token.
//   - Notes – optional secondary spans/messages.
//
// # Emitting diagnostics
//
// Phases report through a Reporter so that emission is decoupled from
// storage and rendering. BagReporter collects into a Bag; MultiReporter fans
// out to several sinks (for example a Bag plus the immediate console printer
// in internal/diagfmt).
//
// Package diag does not perform any IO; rendering lives in internal/diagfmt
// and FormatShortDiagnostics.
package diag
