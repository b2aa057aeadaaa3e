// Package generics names type parameters without clashing with identifiers
// already present in a unit.
package generics

import (
	"strconv"
	"strings"

	"github.com/wippyai/move-decompiler/bytecode"
)

// preference is the order in which base names are tried.
var preference = []string{
	"T", "G", "V", "A", "B", "C", "D", "E", "F", "H", "I",
	"J", "K", "L", "M", "N", "O", "P", "Q", "R", "S", "U",
}

// Allocator holds the base name chosen for one unit.
type Allocator struct {
	prefix string
}

// New picks the first preferred name that no identifier equals and that is
// not the stem of an identifier made of the name plus decimal digits.
// When every name collides the fallback is T_, T__, ... whichever is free first.
func New(identifiers []string) *Allocator {
	taken := make(map[string]bool, len(identifiers))
	for _, id := range identifiers {
		taken[strings.TrimRight(id, "0123456789")] = true
	}
	for _, name := range preference {
		if !taken[name] {
			return &Allocator{prefix: name}
		}
	}
	name := preference[0]
	for {
		name += "_"
		if !taken[name] {
			return &Allocator{prefix: name}
		}
	}
}

// ForUnit builds an allocator from a unit's identifier pool.
func ForUnit(u bytecode.Unit) *Allocator {
	return New(u.Common().Identifiers)
}

// Prefix is the chosen base name.
func (a *Allocator) Prefix() string {
	return a.prefix
}

// Create returns the type parameter at index with the given constraints.
func (a *Allocator) Create(index int, abilities bytecode.AbilitySet) Generic {
	return Generic{Prefix: a.prefix, Index: index, Abilities: abilities}
}

// Function returns the type parameters of a function handle or script.
func (a *Allocator) Function(params []bytecode.AbilitySet) []Generic {
	gens := make([]Generic, len(params))
	for i, p := range params {
		gens[i] = a.Create(i, p)
	}
	return gens
}

// Struct returns the type parameters of a struct handle.
func (a *Allocator) Struct(params []bytecode.StructTypeParam) []Generic {
	gens := make([]Generic, len(params))
	for i, p := range params {
		gens[i] = a.Create(i, p.Constraints)
		gens[i].Phantom = p.IsPhantom
	}
	return gens
}

// Generic is a named type parameter.
type Generic struct {
	Prefix    string
	Index     int
	Abilities bytecode.AbilitySet
	Phantom   bool
}

// Name is the prefix, followed by the index when it is not zero.
func (g Generic) Name() string {
	if g.Index == 0 {
		return g.Prefix
	}
	return g.Prefix + strconv.Itoa(g.Index)
}

// Declaration renders the parameter as it appears in a declaration,
// e.g. "phantom T1: copy, drop".
func (g Generic) Declaration() string {
	var b strings.Builder
	if g.Phantom {
		b.WriteString("phantom ")
	}
	b.WriteString(g.Name())
	if names := g.Abilities.Names(); len(names) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(names, ", "))
	}
	return b.String()
}

// List renders "<A, B>" for declarations, or "" when empty.
func List(gens []Generic) string {
	if len(gens) == 0 {
		return ""
	}
	parts := make([]string, len(gens))
	for i, g := range gens {
		parts[i] = g.Declaration()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
