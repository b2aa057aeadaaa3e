package types

import (
	"testing"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/fixture"
	"github.com/wippyai/move-decompiler/internal/generics"
	"github.com/wippyai/move-decompiler/internal/imports"
)

func TestDecode(t *testing.T) {
	b := fixture.NewModule(fixture.Addr(0x2), "Market")
	own, _ := b.Struct(fixture.Struct{Name: "Order"})
	coin := b.Module(fixture.Addr(0x1), "Coin")
	foreign := b.StructHandle(coin, "Coin", bytecode.AbilityStore, bytecode.StructTypeParam{})
	other := b.Module(fixture.Addr(0x3), "Coin")
	aliased := b.StructHandle(other, "Coin", 0)
	m := b.Build()

	gens := generics.New(m.Identifiers).Function([]bytecode.AbilitySet{0, 0})
	r := NewResolver(m, imports.New(m)).WithGenerics(gens)

	tests := []struct {
		name string
		tok  bytecode.SignatureToken
		want string
	}{
		{"bool", fixture.Bool, "bool"},
		{"u256", fixture.U256, "u256"},
		{"signer", fixture.Signer, "signer"},
		{"vector", bytecode.VectorOf(fixture.U8), "vector<u8>"},
		{"ref", bytecode.RefOf(fixture.Address, false), "&address"},
		{"mut ref", bytecode.RefOf(bytecode.VectorOf(fixture.U64), true), "&mut vector<u64>"},
		{"own struct", bytecode.StructOf(own), "Order"},
		{"imported generic struct", bytecode.StructOf(foreign, bytecode.TypeParam(1)), "Coin::Coin<T1>"},
		{"aliased struct", bytecode.StructOf(aliased), "Coin_1::Coin"},
		{"type param", bytecode.TypeParam(0), "T"},
		{"nested", bytecode.VectorOf(bytecode.StructOf(foreign, bytecode.VectorOf(bytecode.TypeParam(0)))), "vector<Coin::Coin<vector<T>>>"},
		{"missing struct", bytecode.StructOf(99), "/*invalid*/"},
		{"missing type param", bytecode.TypeParam(7), "/*invalid*/"},
		{"missing element", bytecode.SignatureToken{Kind: bytecode.TokenVector}, "/*invalid*/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Decode(tt.tok).String(); got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeFunction(t *testing.T) {
	b := fixture.NewModule(fixture.Addr(0x1), "M")
	m := b.Build()
	got := Decode(m, bytecode.RefOf(bytecode.TypeParam(0), false), imports.New(m), generics.New(nil).Function([]bytecode.AbilitySet{0}))
	if got.String() != "&T" {
		t.Errorf("Decode = %q", got)
	}
	if got.Deref().String() != "T" {
		t.Errorf("Deref = %q", got.Deref())
	}
}

func TestModulePrefixFallback(t *testing.T) {
	b := fixture.NewModule(fixture.Addr(0x1), "M")
	lib := b.Module(fixture.Addr(0xab), "Lib")
	h := b.StructHandle(lib, "S", 0)
	m := b.Build()

	r := NewResolver(m, nil)
	if got, _ := r.StructName(h); got != "0xab::Lib::S" {
		t.Errorf("StructName without imports = %q", got)
	}
	if _, ok := r.ModulePrefix(50); ok {
		t.Error("missing module should fail")
	}
	if p, ok := r.ModulePrefix(m.Self); !ok || p != "" {
		t.Errorf("self prefix = %q, %v", p, ok)
	}
}

func TestSignature(t *testing.T) {
	b := fixture.NewModule(fixture.Addr(0x1), "M")
	sig := b.Sig(fixture.U8, fixture.Bool)
	m := b.Build()
	r := NewResolver(m, imports.New(m))
	got, ok := r.Signature(sig)
	if !ok || len(got) != 2 || got[1].String() != "bool" {
		t.Errorf("Signature = %v, %v", got, ok)
	}
	if _, ok := r.Signature(200); ok {
		t.Error("out of range signature should fail")
	}
}
