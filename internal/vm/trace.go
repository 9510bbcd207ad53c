package vm

import (
	"fmt"
	"io"

	"loxvm/internal/bytecode"
	"loxvm/internal/value"
)

// Tracer outputs execution traces for debugging.
// Format, before every instruction:
//
//	          [ 1 ][ 2 ]
//	0004    1 OP_ADD
type Tracer struct {
	w io.Writer
}

// NewTracer creates a new tracer that writes to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// TraceInstr prints the stack and the instruction at offset.
func (t *Tracer) TraceInstr(chunk *bytecode.Chunk, offset int, slots []value.Value) {
	if t == nil || t.w == nil {
		return
	}
	fmt.Fprint(t.w, "          ")
	for _, v := range slots {
		fmt.Fprintf(t.w, "[ %s ]", v)
	}
	fmt.Fprintln(t.w)
	// ошибки декодирования вернёт сам run, здесь только печать
	_, _ = chunk.DisassembleInstruction(t.w, offset)
}
