// Package locals tracks a function's parameters and local variables.
package locals

import (
	"strconv"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/types"
)

// Kind distinguishes parameters from declared locals.
type Kind uint8

const (
	Param Kind = iota
	Var
)

// Descriptor describes one local slot.
type Descriptor struct {
	Type    types.Type
	Kind    Kind
	Ordinal int
	Used    bool
}

// Table is an index-addressed arena of local slots. Parameters come first,
// followed by declared locals.
type Table struct {
	slots []Descriptor
}

// New builds a table from the parameter and local signatures, decoding each
// type with decode.
func New(params, vars bytecode.Signature, decode func(bytecode.SignatureToken) types.Type) *Table {
	t := &Table{slots: make([]Descriptor, 0, len(params)+len(vars))}
	for i, p := range params {
		t.slots = append(t.slots, Descriptor{Kind: Param, Ordinal: i, Type: decode(p)})
	}
	for i, v := range vars {
		t.slots = append(t.slots, Descriptor{Kind: Var, Ordinal: i, Type: decode(v)})
	}
	return t
}

// Len is the number of slots.
func (t *Table) Len() int {
	return len(t.slots)
}

// Params is the number of parameter slots.
func (t *Table) Params() int {
	n := 0
	for _, s := range t.slots {
		if s.Kind == Param {
			n++
		}
	}
	return n
}

// Get returns the descriptor at index.
func (t *Table) Get(i int) (Descriptor, bool) {
	if i < 0 || i >= len(t.slots) {
		return Descriptor{}, false
	}
	return t.slots[i], true
}

// Valid reports whether i is a slot.
func (t *Table) Valid(i int) bool {
	return i >= 0 && i < len(t.slots)
}

// Use marks slot i as referenced. It returns false for invalid slots.
func (t *Table) Use(i int) bool {
	if !t.Valid(i) {
		return false
	}
	t.slots[i].Used = true
	return true
}

// Name is arg<n> or var<n>, prefixed with an underscore while unused.
func (t *Table) Name(i int) string {
	s, ok := t.Get(i)
	if !ok {
		return "_invalid" + strconv.Itoa(i)
	}
	var name string
	if s.Kind == Param {
		name = "arg" + strconv.Itoa(s.Ordinal)
	} else {
		name = "var" + strconv.Itoa(s.Ordinal)
	}
	if !s.Used {
		name = "_" + name
	}
	return name
}

// Type returns the declared type of slot i.
func (t *Table) Type(i int) types.Type {
	s, ok := t.Get(i)
	if !ok {
		return types.Invalid
	}
	return s.Type
}
