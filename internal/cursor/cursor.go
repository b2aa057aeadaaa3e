// Package cursor provides sequential access to a function's instructions.
package cursor

import "github.com/wippyai/move-decompiler/bytecode"

// Cursor walks a code unit forward. Only Next moves the position; the
// lookup methods never fail and return a Nop sentinel when out of range.
type Cursor struct {
	code []bytecode.Instruction
	pos  int
	last int
}

// New returns a cursor positioned before the first instruction.
func New(code []bytecode.Instruction) *Cursor {
	return &Cursor{code: code, last: -1}
}

// Next returns the next instruction and its offset, or ok=false at the end.
func (c *Cursor) Next() (offset int, instr bytecode.Instruction, ok bool) {
	if c.pos >= len(c.code) {
		return len(c.code), bytecode.Nop, false
	}
	offset = c.pos
	c.last = offset
	c.pos++
	return offset, c.code[offset], true
}

// Absolute returns the instruction at offset.
func (c *Cursor) Absolute(offset int) bytecode.Instruction {
	if offset < 0 || offset >= len(c.code) {
		return bytecode.Nop
	}
	return c.code[offset]
}

// Relative returns the instruction delta positions from the last returned offset.
func (c *Cursor) Relative(delta int) bytecode.Instruction {
	return c.Absolute(c.last + delta)
}

// Remaining returns the instructions not yet consumed.
func (c *Cursor) Remaining() []bytecode.Instruction {
	return c.code[c.pos:]
}

// Slice returns the instructions in [from, to), clamped to the code.
func (c *Cursor) Slice(from, to int) []bytecode.Instruction {
	from = max(from, 0)
	to = min(to, len(c.code))
	if from >= to {
		return nil
	}
	return c.code[from:to]
}
