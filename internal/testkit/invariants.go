package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"loxvm/internal/bytecode"
	"loxvm/internal/source"
	"loxvm/internal/token"
)

// CheckChunkInvariants runs the structural checks every compiled chunk must pass:
// 1) the line table has exactly one entry per code byte
// 2) every byte at an instruction boundary decodes to a valid opcode
// 3) operands are not truncated and constant operands index into the pool
// 4) the chunk ends with Return
func CheckChunkInvariants(c *bytecode.Chunk) error {
	if c == nil {
		return fmt.Errorf("nil chunk")
	}
	if len(c.Lines()) != c.Len() {
		return fmt.Errorf("line table length %d != code length %d", len(c.Lines()), c.Len())
	}
	if c.Len() == 0 {
		return fmt.Errorf("empty chunk")
	}

	var last bytecode.Opcode
	for ip := 0; ip < c.Len(); {
		offset := ip
		b, err := c.NextByte(&ip)
		if err != nil {
			return err
		}
		op := bytecode.Decode(b)
		if !op.Valid() {
			return fmt.Errorf("offset %d: invalid opcode 0x%02x", offset, b)
		}
		switch op {
		case bytecode.Constant, bytecode.ConstantLong:
			if _, err := c.ReadConstant(&ip, op == bytecode.ConstantLong); err != nil {
				return fmt.Errorf("offset %d: %w", offset, err)
			}
		}
		if c.Line(offset) == 0 {
			return fmt.Errorf("offset %d: line 0", offset)
		}
		last = op
	}
	if last != bytecode.Return {
		return fmt.Errorf("chunk ends with %v, want %v", last, bytecode.Return)
	}
	return nil
}

// CheckTokenSpans verifies that a token stream (ending with EOF) is well formed:
// 1) spans point into sf and stay within its content
// 2) spans are ordered and do not overlap
// 3) non-error tokens carry exactly the source text under their span
// 4) line numbers never decrease
func CheckTokenSpans(sf *source.File, toks []token.Token) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		return fmt.Errorf("token stream must end with EOF")
	}

	var prevEnd, prevLine uint32
	for i, tok := range toks {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d: bad span %v", i, sp)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d: span %v overlaps previous end %d", i, sp, prevEnd)
		}
		if tok.Kind != token.Error && sf.Text(sp) != tok.Text {
			return fmt.Errorf("token %d: text %q != source %q", i, tok.Text, sf.Text(sp))
		}
		if tok.Line < prevLine {
			return fmt.Errorf("token %d: line went backwards %d -> %d", i, prevLine, tok.Line)
		}
		prevEnd, prevLine = sp.End, tok.Line
	}
	return nil
}
