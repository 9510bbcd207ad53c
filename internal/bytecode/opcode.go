// Package bytecode defines the instruction set, the Chunk container that the
// compiler emits into and the VM executes, and a disassembler.
package bytecode

import "fmt"

// Opcode is a single instruction byte. Byte values are stable.
type Opcode byte

const (
	// Unknown marks a byte with no mapping. Never emitted by the compiler.
	Unknown Opcode = iota
	Return
	// Constant: 1-byte constant pool index follows.
	Constant
	// ConstantLong: 4-byte big-endian constant pool index follows.
	ConstantLong
	Nil
	True
	False
	Negate
	Not
	Add
	Subtract
	Multiply
	Divide
	Equal
	Greater
	Less

	opcodeCount
)

var opcodeNames = [...]string{
	Unknown:      "OP_UNKNOWN",
	Return:       "OP_RETURN",
	Constant:     "OP_CONSTANT",
	ConstantLong: "OP_CONSTANT_LONG",
	Nil:          "OP_NIL",
	True:         "OP_TRUE",
	False:        "OP_FALSE",
	Negate:       "OP_NEGATE",
	Not:          "OP_NOT",
	Add:          "OP_ADD",
	Subtract:     "OP_SUBTRACT",
	Multiply:     "OP_MULTIPLY",
	Divide:       "OP_DIVIDE",
	Equal:        "OP_EQUAL",
	Greater:      "OP_GREATER",
	Less:         "OP_LESS",
}

// Decode maps a raw byte to its opcode. It is total: bytes without a
// mapping decode to Unknown.
func Decode(b byte) Opcode {
	if Opcode(b) >= opcodeCount {
		return Unknown
	}
	return Opcode(b)
}

// OperandBytes returns how many operand bytes follow the opcode.
func (op Opcode) OperandBytes() int {
	switch op {
	case Constant:
		return 1
	case ConstantLong:
		return 4
	default:
		return 0
	}
}

// Valid reports whether op is a defined, executable instruction.
func (op Opcode) Valid() bool {
	return op != Unknown && op < opcodeCount
}

func (op Opcode) String() string {
	if op < opcodeCount {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OP_UNKNOWN(0x%02x)", byte(op))
}
