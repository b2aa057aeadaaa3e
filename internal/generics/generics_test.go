package generics

import (
	"testing"

	"github.com/wippyai/move-decompiler/bytecode"
)

func TestNewPicksFirstFree(t *testing.T) {
	tests := []struct {
		name        string
		identifiers []string
		want        string
	}{
		{"no identifiers", nil, "T"},
		{"exact clash", []string{"T", "Coin"}, "G"},
		{"digit suffix clash", []string{"T12"}, "G"},
		{"letter suffix is fine", []string{"Token", "Tx"}, "T"},
		{"several", []string{"T", "G1", "V", "Addr"}, "A"},
		{"skips S to U", []string{"T", "G", "V", "A", "B", "C", "D", "E", "F", "H", "I", "J", "K", "L", "M", "N", "O", "P", "Q", "R", "S"}, "U"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.identifiers).Prefix(); got != tt.want {
				t.Errorf("Prefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFallbackIsDeterministic(t *testing.T) {
	all := append([]string{}, preference...)
	all = append(all, "T_1")
	first := New(all).Prefix()
	if first != "T__" {
		t.Errorf("fallback = %q, want T__", first)
	}
	for range 5 {
		if got := New(all).Prefix(); got != first {
			t.Fatalf("fallback changed: %q vs %q", got, first)
		}
	}
}

func TestGenericName(t *testing.T) {
	a := New([]string{"T"})
	if got := a.Create(0, 0).Name(); got != "G" {
		t.Errorf("Name() = %q", got)
	}
	if got := a.Create(3, 0).Name(); got != "G3" {
		t.Errorf("Name() = %q", got)
	}
}

func TestDeclaration(t *testing.T) {
	a := New(nil)
	tests := []struct {
		g    Generic
		want string
	}{
		{a.Create(0, 0), "T"},
		{a.Create(1, bytecode.AbilityDrop|bytecode.AbilityCopy), "T1: copy, drop"},
		{a.Create(2, bytecode.AbilityStore|bytecode.AbilityKey), "T2: key, store"},
		{Generic{Prefix: "T", Abilities: bytecode.AbilityStore, Phantom: true}, "phantom T: store"},
	}
	for _, tt := range tests {
		if got := tt.g.Declaration(); got != tt.want {
			t.Errorf("Declaration() = %q, want %q", got, tt.want)
		}
	}
}

func TestList(t *testing.T) {
	a := New(nil)
	if got := List(nil); got != "" {
		t.Errorf("List(nil) = %q", got)
	}
	gens := a.Struct([]bytecode.StructTypeParam{
		{Constraints: bytecode.AbilityStore, IsPhantom: true},
		{},
	})
	if got := List(gens); got != "<phantom T: store, T1>" {
		t.Errorf("List = %q", got)
	}
	fn := a.Function([]bytecode.AbilitySet{bytecode.AbilityCopy})
	if got := List(fn); got != "<T: copy>" {
		t.Errorf("List = %q", got)
	}
	multi := a.Function([]bytecode.AbilitySet{bytecode.AbilityDrop | bytecode.AbilityCopy, bytecode.AbilityKey})
	if got := List(multi); got != "<T: copy, drop, T1: key>" {
		t.Errorf("List = %q", got)
	}
}
