package locals

import (
	"testing"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/fixture"
	"github.com/wippyai/move-decompiler/internal/types"
)

func decode(tok bytecode.SignatureToken) types.Type {
	names := map[bytecode.TokenKind]string{
		bytecode.TokenU8:   "u8",
		bytecode.TokenU64:  "u64",
		bytecode.TokenBool: "bool",
	}
	return types.Type{Kind: types.KindPrimitive, Name: names[tok.Kind]}
}

func TestNames(t *testing.T) {
	tbl := New(bytecode.Signature{fixture.U64, fixture.Bool}, bytecode.Signature{fixture.U8}, decode)

	tests := []struct {
		idx  int
		want string
	}{
		{0, "_arg0"},
		{1, "_arg1"},
		{2, "_var0"},
	}
	for _, tt := range tests {
		if got := tbl.Name(tt.idx); got != tt.want {
			t.Errorf("Name(%d) = %q, want %q", tt.idx, got, tt.want)
		}
	}

	if !tbl.Use(1) || !tbl.Use(2) {
		t.Fatal("Use on valid slots returned false")
	}
	if got := tbl.Name(1); got != "arg1" {
		t.Errorf("Name(1) after use = %q", got)
	}
	if got := tbl.Name(2); got != "var0" {
		t.Errorf("Name(2) after use = %q", got)
	}
	if got := tbl.Name(0); got != "_arg0" {
		t.Errorf("Name(0) = %q", got)
	}
}

func TestUseIsSticky(t *testing.T) {
	tbl := New(nil, bytecode.Signature{fixture.U8}, decode)
	tbl.Use(0)
	tbl.Use(0)
	if d, _ := tbl.Get(0); !d.Used {
		t.Error("slot should stay used")
	}
}

func TestOutOfRange(t *testing.T) {
	tbl := New(bytecode.Signature{fixture.U8}, nil, decode)
	if tbl.Use(5) || tbl.Use(-1) {
		t.Error("Use out of range should fail")
	}
	if _, ok := tbl.Get(1); ok {
		t.Error("Get out of range should fail")
	}
	if tbl.Type(3).Kind != types.KindInvalid {
		t.Error("Type out of range should be invalid")
	}
	if tbl.Len() != 1 || tbl.Params() != 1 {
		t.Errorf("Len %d Params %d", tbl.Len(), tbl.Params())
	}
}

func TestTypes(t *testing.T) {
	tbl := New(bytecode.Signature{fixture.U64}, bytecode.Signature{fixture.Bool}, decode)
	if got := tbl.Type(1).String(); got != "bool" {
		t.Errorf("Type(1) = %q", got)
	}
}
