// Package vm executes bytecode chunks on an operand stack.
package vm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"loxvm/internal/bytecode"
	"loxvm/internal/compiler"
	"loxvm/internal/diag"
	"loxvm/internal/diagfmt"
	"loxvm/internal/source"
	"loxvm/internal/value"
)

// Options configures VM execution.
type Options struct {
	Stdout io.Writer // результат Return; по умолчанию os.Stdout
	Stderr io.Writer // ошибки компиляции и исполнения; по умолчанию os.Stderr

	// Files holds sources compiled by this VM. Files passed to InterpretFile
	// must belong to it so diagnostics can be resolved to lines.
	Files *source.FileSet
	// Reporter receives compile diagnostics. nil prints them to Stderr in the
	// classic `[line N] Error at 'x': msg` form.
	Reporter diag.Reporter
	Color    bool

	DebugPrintCode io.Writer // дизассемблер каждого скомпилированного чанка
	Trace          io.Writer // стек и инструкция перед каждым шагом
}

// VM owns one chunk at a time and an operand stack that survives between
// Interpret calls.
type VM struct {
	opts   Options
	files  *source.FileSet
	tracer *Tracer
	eb     errorBuilder

	chunk      *bytecode.Chunk
	ip         int
	instrStart int // смещение начала текущей инструкции
	stack      stack

	result    value.Value
	hasResult bool
	steps     uint64
}

// New creates a VM with the given options.
func New(opts Options) *VM {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Files == nil {
		opts.Files = source.NewFileSet()
	}
	vm := &VM{
		opts:  opts,
		files: opts.Files,
		chunk: bytecode.New(),
	}
	if opts.Trace != nil {
		vm.tracer = NewTracer(opts.Trace)
	}
	vm.eb = errorBuilder{vm: vm}
	return vm
}

// Files returns the file set used for compiled sources.
func (vm *VM) Files() *source.FileSet { return vm.files }

// Interpret compiles src as the virtual file "script" and runs it. Every call
// reuses the same file slot, so a long REPL session does not grow the set.
func (vm *VM) Interpret(src string) error {
	id := vm.files.SetVirtual("script", []byte(src))
	return vm.InterpretFile(vm.files.Get(id))
}

// InterpretFile compiles file and runs the result. On compile failure the
// VM state is left untouched and an error matching ErrCompile is returned.
func (vm *VM) InterpretFile(file *source.File) error {
	chunk, err := compiler.Compile(file, compiler.Options{
		Reporter:       vm.reporter(),
		DebugPrintCode: vm.opts.DebugPrintCode,
	})
	if err != nil {
		return &Error{Kind: KindCompile, Message: "compilation failed", Offset: -1, cause: err}
	}
	return vm.Execute(chunk)
}

// Execute replaces the owned chunk, resets the instruction pointer and runs.
// Runtime errors are printed to Stderr and returned.
func (vm *VM) Execute(chunk *bytecode.Chunk) error {
	vm.chunk = chunk
	vm.ip = 0
	vm.hasResult = false
	vm.result = value.Nil()

	err := vm.run()
	if err == nil {
		return nil
	}
	var vmErr *Error
	if errors.As(err, &vmErr) {
		diagfmt.RuntimeError(vm.opts.Stderr, vmErr.Message, vmErr.Line, vm.opts.Color)
	}
	return err
}

// Result returns the value produced by the last Return, if any.
func (vm *VM) Result() (value.Value, bool) {
	return vm.result, vm.hasResult
}

// Steps returns the number of instructions executed since New.
func (vm *VM) Steps() uint64 { return vm.steps }

// StackSnapshot returns a copy of the operand stack, bottom first.
func (vm *VM) StackSnapshot() []value.Value {
	return append([]value.Value(nil), vm.stack.slots...)
}

func (vm *VM) reporter() diag.Reporter {
	if vm.opts.Reporter != nil {
		return vm.opts.Reporter
	}
	return diagfmt.NewClassicReporter(vm.opts.Stderr, vm.files, diagfmt.ClassicOpts{Color: vm.opts.Color})
}

func (vm *VM) run() error {
	vm.stack.reset()
	for vm.ip < vm.chunk.Len() {
		vm.instrStart = vm.ip
		if vm.tracer != nil {
			vm.tracer.TraceInstr(vm.chunk, vm.ip, vm.stack.slots)
		}
		vm.steps++

		raw, err := vm.chunk.NextByte(&vm.ip)
		if err != nil {
			return vm.eb.badOperand(err)
		}
		switch op := bytecode.Decode(raw); op {
		case bytecode.Constant, bytecode.ConstantLong:
			v, err := vm.chunk.ReadConstant(&vm.ip, op == bytecode.ConstantLong)
			if err != nil {
				return vm.eb.badOperand(err)
			}
			// пул констант не делит объекты со стеком
			vm.stack.push(v.Clone())

		case bytecode.Nil:
			vm.stack.push(value.Nil())
		case bytecode.True:
			vm.stack.push(value.Bool(true))
		case bytecode.False:
			vm.stack.push(value.Bool(false))

		case bytecode.Negate:
			if !vm.stack.peek(0).IsNumber() {
				return vm.eb.operandNumber()
			}
			vm.stack.push(value.Number(-vm.stack.pop().AsNumber()))

		case bytecode.Not:
			vm.stack.push(value.Bool(vm.stack.pop().IsFalsey()))

		case bytecode.Add:
			b, a := vm.stack.peek(0), vm.stack.peek(1)
			switch {
			case a.IsString() && b.IsString():
				vm.stack.pop()
				vm.stack.pop()
				as, _ := a.AsString()
				bs, _ := b.AsString()
				vm.stack.push(value.Obj(value.Concat(as, bs)))
			case a.IsNumber() && b.IsNumber():
				vm.stack.pop()
				vm.stack.pop()
				vm.stack.push(value.Number(a.AsNumber() + b.AsNumber()))
			default:
				return vm.eb.operandsAdd()
			}

		case bytecode.Subtract, bytecode.Multiply, bytecode.Divide, bytecode.Greater, bytecode.Less:
			if err := vm.binaryNumber(op); err != nil {
				return err
			}

		case bytecode.Equal:
			b := vm.stack.pop()
			a := vm.stack.pop()
			vm.stack.push(value.Bool(a.Equal(b)))

		case bytecode.Return:
			vm.result = vm.stack.pop()
			vm.hasResult = true
			if _, err := fmt.Fprintln(vm.opts.Stdout, vm.result); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			return nil

		default:
			return vm.eb.badOpcode(raw)
		}
	}
	return nil
}

// binaryNumber: оба операнда обязаны быть числами; a лежит под b.
func (vm *VM) binaryNumber(op bytecode.Opcode) error {
	if !vm.stack.peek(0).IsNumber() || !vm.stack.peek(1).IsNumber() {
		return vm.eb.operandsNumbers()
	}
	b := vm.stack.pop().AsNumber()
	a := vm.stack.pop().AsNumber()
	switch op {
	case bytecode.Subtract:
		vm.stack.push(value.Number(a - b))
	case bytecode.Multiply:
		vm.stack.push(value.Number(a * b))
	case bytecode.Divide:
		// IEEE-754: деление на ноль даёт ±Inf или NaN
		vm.stack.push(value.Number(a / b))
	case bytecode.Greater:
		vm.stack.push(value.Bool(a > b))
	case bytecode.Less:
		vm.stack.push(value.Bool(a < b))
	}
	return nil
}
