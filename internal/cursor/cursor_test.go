package cursor

import (
	"testing"

	"github.com/wippyai/move-decompiler/bytecode"
)

func sample() []bytecode.Instruction {
	return []bytecode.Instruction{
		bytecode.LdU8(1),
		bytecode.Branch(bytecode.OpBrFalse, 3),
		bytecode.Simple(bytecode.OpPop),
		bytecode.Simple(bytecode.OpRet),
	}
}

func TestNext(t *testing.T) {
	c := New(sample())
	for want := 0; want < 4; want++ {
		off, instr, ok := c.Next()
		if !ok {
			t.Fatalf("Next at %d returned !ok", want)
		}
		if off != want {
			t.Errorf("offset = %d, want %d", off, want)
		}
		if instr.Opcode != sample()[want].Opcode {
			t.Errorf("opcode = %v", instr.Opcode)
		}
	}
	if _, instr, ok := c.Next(); ok || instr.Opcode != bytecode.OpNop {
		t.Errorf("Next past end = %v, %v", instr, ok)
	}
	if len(c.Remaining()) != 0 {
		t.Error("Remaining should be empty")
	}
}

func TestLookupsDoNotMove(t *testing.T) {
	c := New(sample())
	_, _, _ = c.Next()

	tests := []struct {
		name string
		got  bytecode.Instruction
		want bytecode.Opcode
	}{
		{"absolute in range", c.Absolute(3), bytecode.OpRet},
		{"absolute negative", c.Absolute(-1), bytecode.OpNop},
		{"absolute past end", c.Absolute(99), bytecode.OpNop},
		{"relative next", c.Relative(1), bytecode.OpBrFalse},
		{"relative self", c.Relative(0), bytecode.OpLdU8},
		{"relative before start", c.Relative(-5), bytecode.OpNop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Opcode != tt.want {
				t.Errorf("got %v, want %v", tt.got.Opcode, tt.want)
			}
		})
	}
	if len(c.Remaining()) != 3 {
		t.Errorf("Remaining = %d", len(c.Remaining()))
	}
	if off, instr, ok := c.Next(); !ok || off != 1 || instr.Opcode != bytecode.OpBrFalse {
		t.Errorf("Next after lookups = %d, %v, %v", off, instr, ok)
	}
}

func TestSlice(t *testing.T) {
	c := New(sample())
	if got := c.Slice(1, 3); len(got) != 2 {
		t.Errorf("Slice(1,3) len = %d", len(got))
	}
	if got := c.Slice(-4, 100); len(got) != 4 {
		t.Errorf("clamped Slice len = %d", len(got))
	}
	if got := c.Slice(3, 1); got != nil {
		t.Errorf("empty Slice = %v", got)
	}
}

func TestEmpty(t *testing.T) {
	c := New(nil)
	if _, _, ok := c.Next(); ok {
		t.Error("Next on empty code")
	}
	if c.Relative(0).Opcode != bytecode.OpNop {
		t.Error("Relative on fresh cursor should be Nop")
	}
}
