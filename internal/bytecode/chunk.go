package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"loxvm/internal/value"

	"fortio.org/safecast"
)

// maxShortConstant is the largest pool index encoded with Constant.
const maxShortConstant = 0xFF

var (
	// ErrTruncated is returned when an instruction's operand runs past the end of the code.
	ErrTruncated = errors.New("truncated instruction")
	// ErrBadConstant is returned when a constant operand is not a valid pool index.
	ErrBadConstant = errors.New("constant index out of range")
)

// Chunk is an append-only instruction buffer with a parallel per-byte line
// table and an ordered constant pool. len(lines) == len(code) always holds.
type Chunk struct {
	code      []byte
	lines     []uint32
	constants []value.Value
}

// New returns an empty chunk.
func New() *Chunk {
	return &Chunk{
		code:  make([]byte, 0, 64),
		lines: make([]uint32, 0, 64),
	}
}

// Append adds one raw byte produced by source line `line`.
func (c *Chunk) Append(b byte, line uint32) {
	c.code = append(c.code, b)
	c.lines = append(c.lines, line)
}

// AppendOp adds an operand-less instruction.
func (c *Chunk) AppendOp(op Opcode, line uint32) {
	c.Append(byte(op), line)
}

// AppendConstant pushes v onto the pool and emits the load instruction for it.
// The encoding is chosen per insertion: indices up to 255 use the 2-byte
// Constant form, larger ones the 5-byte ConstantLong form.
// Returns the pool index.
func (c *Chunk) AppendConstant(v value.Value, line uint32) int {
	c.constants = append(c.constants, v)
	idx := len(c.constants) - 1
	if idx <= maxShortConstant {
		c.AppendOp(Constant, line)
		c.Append(byte(idx), line)
		return idx
	}
	wide, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(fmt.Errorf("constant pool overflow: %w", err))
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], wide)
	c.AppendOp(ConstantLong, line)
	for _, b := range buf {
		c.Append(b, line)
	}
	return idx
}

// Len returns the number of code bytes.
func (c *Chunk) Len() int { return len(c.code) }

// Code returns the raw instruction stream. Callers must not modify it.
func (c *Chunk) Code() []byte { return c.code }

// Lines returns the per-byte line table. Callers must not modify it.
func (c *Chunk) Lines() []uint32 { return c.lines }

// Constants returns the constant pool. Callers must not modify it.
func (c *Chunk) Constants() []value.Value { return c.constants }

// Line returns the source line of the byte at offset, or 0 when out of range.
func (c *Chunk) Line(offset int) uint32 {
	if offset < 0 || offset >= len(c.lines) {
		return 0
	}
	return c.lines[offset]
}

// Constant returns pool entry idx.
func (c *Chunk) Constant(idx int) (value.Value, bool) {
	if idx < 0 || idx >= len(c.constants) {
		return value.Value{}, false
	}
	return c.constants[idx], true
}

// NextByte returns the byte at *ip and advances *ip.
func (c *Chunk) NextByte(ip *int) (byte, error) {
	if *ip < 0 || *ip >= len(c.code) {
		return 0, fmt.Errorf("%w: offset %d", ErrTruncated, *ip)
	}
	b := c.code[*ip]
	*ip++
	return b, nil
}

// ReadConstant decodes the operand of a constant-load instruction starting at
// *ip (just past the opcode) and returns the referenced constant. wide selects
// the 4-byte ConstantLong operand.
func (c *Chunk) ReadConstant(ip *int, wide bool) (value.Value, error) {
	idx, err := c.readIndex(ip, wide)
	if err != nil {
		return value.Value{}, err
	}
	v, ok := c.Constant(idx)
	if !ok {
		return value.Value{}, fmt.Errorf("%w: %d (pool size %d)", ErrBadConstant, idx, len(c.constants))
	}
	return v, nil
}

func (c *Chunk) readIndex(ip *int, wide bool) (int, error) {
	if !wide {
		b, err := c.NextByte(ip)
		return int(b), err
	}
	if *ip < 0 || *ip+4 > len(c.code) {
		return 0, fmt.Errorf("%w: offset %d", ErrTruncated, *ip)
	}
	idx := binary.BigEndian.Uint32(c.code[*ip : *ip+4])
	*ip += 4
	return int(idx), nil
}
