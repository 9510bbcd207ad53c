package bytecode

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnknownOpcode is reported by the disassembler for bytes that decode to Unknown.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Disassemble writes a readable dump of the whole chunk:
//
//	== name ==
//	0000    1 OP_CONSTANT         0 '1.2'
//	0002    | OP_NEGATE
//
// The line column is printed only when it differs from the previous
// instruction's line. Unknown opcodes are printed and skipped; the first such
// problem is returned once the dump is complete.
func (c *Chunk) Disassemble(w io.Writer, name string) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", name); err != nil {
		return err
	}
	var firstErr error
	for offset := 0; offset < len(c.code); {
		next, err := c.DisassembleInstruction(w, offset)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if errors.Is(err, ErrTruncated) || next <= offset {
			break
		}
		offset = next
	}
	return firstErr
}

// DisassembleInstruction writes the instruction at offset and returns the
// offset of the next one.
func (c *Chunk) DisassembleInstruction(w io.Writer, offset int) (int, error) {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Line(offset) == c.Line(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Line(offset))
	}

	raw := c.code[offset]
	op := Decode(raw)
	ip := offset + 1
	switch op {
	case Unknown:
		fmt.Fprintf(w, "%s 0x%02x\n", op, raw)
		return ip, fmt.Errorf("%w 0x%02x at offset %d", ErrUnknownOpcode, raw, offset)
	case Constant, ConstantLong:
		idx, err := c.readIndex(&ip, op == ConstantLong)
		if err != nil {
			fmt.Fprintf(w, "%-16s <truncated>\n", op)
			return len(c.code), err
		}
		v, ok := c.Constant(idx)
		if !ok {
			fmt.Fprintf(w, "%-16s %4d <bad constant>\n", op, idx)
			return ip, fmt.Errorf("%w: %d", ErrBadConstant, idx)
		}
		fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, v)
		return ip, nil
	default:
		fmt.Fprintf(w, "%s\n", op)
		return ip, nil
	}
}
