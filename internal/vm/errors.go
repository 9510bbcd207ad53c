package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrCompile matches errors from compilation failures and from malformed
	// bytecode found during execution.
	ErrCompile = errors.New("compile error")
	// ErrRuntime matches errors raised by a running program.
	ErrRuntime = errors.New("runtime error")
)

// ErrorKind separates compile-time from run-time failures.
type ErrorKind uint8

const (
	KindCompile ErrorKind = iota + 1
	KindRuntime
)

func (k ErrorKind) String() string {
	switch k {
	case KindCompile:
		return "compile error"
	case KindRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// Code identifies the type of VM failure.
type Code int

// Stable codes - do not change values.
const (
	CodeNone            Code = 0    // compile errors carry their diagnostics separately
	CodeOperandNumber   Code = 1001 // VM1001: unary operand is not a number
	CodeOperandsNumbers Code = 1002 // VM1002: binary operands are not numbers
	CodeOperandsAdd     Code = 1003 // VM1003: Add on mismatched operands
	CodeBadOpcode       Code = 1900 // VM1900: byte with no defined behaviour
	CodeBadOperand      Code = 1901 // VM1901: truncated or out-of-range operand
)

// String returns the code as "VM1001" format.
func (c Code) String() string {
	return fmt.Sprintf("VM%d", c)
}

// Error is returned by Interpret and Execute.
type Error struct {
	Kind    ErrorKind
	Code    Code
	Message string
	Line    uint32 // строка инструкции, 0 для ошибок компиляции
	Offset  int    // смещение инструкции в чанке, -1 если не относится
	cause   error
}

func (e *Error) Error() string {
	if e.Code == CodeNone {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %s: %s [line %d]", e.Kind, e.Code, e.Message, e.Line)
}

// Is makes errors.Is(err, ErrCompile) / errors.Is(err, ErrRuntime) work.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrCompile:
		return e.Kind == KindCompile
	case ErrRuntime:
		return e.Kind == KindRuntime
	}
	return false
}

func (e *Error) Unwrap() error { return e.cause }

// errorBuilder helps construct Error values at the current instruction.
type errorBuilder struct {
	vm *VM
}

func (eb *errorBuilder) makeError(kind ErrorKind, code Code, msg string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: msg,
		Line:    eb.vm.chunk.Line(eb.vm.instrStart),
		Offset:  eb.vm.instrStart,
		cause:   cause,
	}
}

func (eb *errorBuilder) operandNumber() *Error {
	return eb.makeError(KindRuntime, CodeOperandNumber, "Operand must be a number", nil)
}

func (eb *errorBuilder) operandsNumbers() *Error {
	return eb.makeError(KindRuntime, CodeOperandsNumbers, "Operands must be numbers", nil)
}

func (eb *errorBuilder) operandsAdd() *Error {
	return eb.makeError(KindRuntime, CodeOperandsAdd, "Operands must be two numbers or two strings", nil)
}

func (eb *errorBuilder) badOpcode(raw byte) *Error {
	return eb.makeError(KindCompile, CodeBadOpcode, fmt.Sprintf("Unknown opcode 0x%02x", raw), nil)
}

func (eb *errorBuilder) badOperand(err error) *Error {
	return eb.makeError(KindCompile, CodeBadOperand, fmt.Sprintf("Malformed operand: %v", err), err)
}
