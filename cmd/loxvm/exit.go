package main

import (
	"errors"
	"fmt"
	"io"

	"loxvm/internal/compiler"
	"loxvm/internal/driver"
	"loxvm/internal/vm"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 64 // EX_USAGE
	exitCompile = 65 // EX_DATAERR
	exitRuntime = 70 // EX_SOFTWARE
	exitIOError = 74 // EX_IOERR
)

type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitError carries a status for failures that were already shown.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func exitCodeFor(err error) int {
	var ue *usageError
	var ee *exitError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue):
		return exitUsage
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, driver.ErrLoad):
		return exitIOError
	case errors.Is(err, compiler.ErrCompile), errors.Is(err, vm.ErrCompile):
		return exitCompile
	case errors.Is(err, vm.ErrRuntime):
		return exitRuntime
	default:
		return exitFailure
	}
}

// alreadyReported: compile diagnostics and runtime errors are printed where
// they happen, in the language's own format.
func alreadyReported(err error) bool {
	var ee *exitError
	return errors.As(err, &ee) ||
		errors.Is(err, compiler.ErrCompile) ||
		errors.Is(err, vm.ErrCompile) ||
		errors.Is(err, vm.ErrRuntime)
}

func reportError(stderr io.Writer, err error) int {
	code := exitCodeFor(err)
	if err == nil || alreadyReported(err) {
		return code
	}
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(stderr, ue.msg)
		return code
	}
	fmt.Fprintf(stderr, "loxvm: %v\n", err)
	return code
}
