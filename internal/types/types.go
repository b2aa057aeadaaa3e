// Package types turns signature tokens into renderable type trees.
package types

import (
	"strings"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/generics"
	"github.com/wippyai/move-decompiler/internal/imports"
)

// Kind classifies a Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindVector
	KindReference
	KindMutableReference
	KindStruct
	KindParam
)

// Type is a decoded type ready for rendering.
type Type struct {
	Elem *Type
	Name string
	Args []Type
	Kind Kind
}

// Invalid is returned for tokens that reference missing table entries.
var Invalid = Type{Kind: KindInvalid, Name: "/*invalid*/"}

func (t Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Type) write(b *strings.Builder) {
	switch t.Kind {
	case KindVector:
		b.WriteString("vector<")
		t.elem().write(b)
		b.WriteByte('>')
	case KindReference:
		b.WriteByte('&')
		t.elem().write(b)
	case KindMutableReference:
		b.WriteString("&mut ")
		t.elem().write(b)
	case KindStruct:
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte('>')
		}
	default:
		b.WriteString(t.Name)
	}
}

func (t Type) elem() Type {
	if t.Elem == nil {
		return Invalid
	}
	return *t.Elem
}

// Deref strips one level of reference.
func (t Type) Deref() Type {
	if t.Kind == KindReference || t.Kind == KindMutableReference {
		return t.elem()
	}
	return t
}

// Resolver decodes tokens in the context of one unit. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	unit     bytecode.Unit
	tables   *bytecode.Tables
	imports  *imports.Table
	generics []generics.Generic
	self     int
}

// NewResolver returns a resolver with no type parameters in scope.
func NewResolver(u bytecode.Unit, imp *imports.Table) *Resolver {
	self := -1
	if m, ok := u.(*bytecode.CompiledModule); ok {
		self = int(m.Self)
	}
	return &Resolver{unit: u, tables: u.Common(), imports: imp, self: self}
}

// WithGenerics returns a copy of r with gens in scope.
func (r *Resolver) WithGenerics(gens []generics.Generic) *Resolver {
	c := *r
	c.generics = gens
	return &c
}

// Generics returns the type parameters in scope.
func (r *Resolver) Generics() []generics.Generic {
	return r.generics
}

// Unit returns the unit being decoded.
func (r *Resolver) Unit() bytecode.Unit {
	return r.unit
}

// Decode converts a token to a Type.
func Decode(u bytecode.Unit, tok bytecode.SignatureToken, imp *imports.Table, gens []generics.Generic) Type {
	return NewResolver(u, imp).WithGenerics(gens).Decode(tok)
}

// Decode converts a token to a Type. Out-of-range indices yield Invalid.
func (r *Resolver) Decode(tok bytecode.SignatureToken) Type {
	switch tok.Kind {
	case bytecode.TokenBool:
		return primitive("bool")
	case bytecode.TokenU8:
		return primitive("u8")
	case bytecode.TokenU16:
		return primitive("u16")
	case bytecode.TokenU32:
		return primitive("u32")
	case bytecode.TokenU64:
		return primitive("u64")
	case bytecode.TokenU128:
		return primitive("u128")
	case bytecode.TokenU256:
		return primitive("u256")
	case bytecode.TokenAddress:
		return primitive("address")
	case bytecode.TokenSigner:
		return primitive("signer")
	case bytecode.TokenVector:
		return r.wrap(KindVector, tok.Elem)
	case bytecode.TokenReference:
		return r.wrap(KindReference, tok.Elem)
	case bytecode.TokenMutableReference:
		return r.wrap(KindMutableReference, tok.Elem)
	case bytecode.TokenStruct, bytecode.TokenStructInst:
		name, ok := r.StructName(tok.Index)
		if !ok {
			return Invalid
		}
		t := Type{Kind: KindStruct, Name: name}
		for _, a := range tok.TypeArgs {
			t.Args = append(t.Args, r.Decode(a))
		}
		return t
	case bytecode.TokenTypeParameter:
		if int(tok.Index) >= len(r.generics) {
			return Invalid
		}
		return Type{Kind: KindParam, Name: r.generics[tok.Index].Name()}
	}
	return Invalid
}

// DecodeAll decodes every token of a signature.
func (r *Resolver) DecodeAll(sig bytecode.Signature) []Type {
	out := make([]Type, len(sig))
	for i, tok := range sig {
		out[i] = r.Decode(tok)
	}
	return out
}

// Signature decodes the signature at index, or returns false when out of range.
func (r *Resolver) Signature(idx uint16) ([]Type, bool) {
	sig, ok := r.tables.SignatureAt(idx)
	if !ok {
		return nil, false
	}
	return r.DecodeAll(sig), true
}

func (r *Resolver) wrap(kind Kind, elem *bytecode.SignatureToken) Type {
	if elem == nil {
		return Invalid
	}
	e := r.Decode(*elem)
	return Type{Kind: kind, Elem: &e}
}

func primitive(name string) Type {
	return Type{Kind: KindPrimitive, Name: name}
}

// StructName renders a struct handle: bare for the unit's own module,
// Alias::Name for imported ones and 0x<addr>::<module>::<Name> otherwise.
func (r *Resolver) StructName(handle uint16) (string, bool) {
	h, ok := bytecode.At(r.tables.StructHandles, handle)
	if !ok {
		return "", false
	}
	name, ok := r.tables.Identifier(h.Name)
	if !ok {
		return "", false
	}
	prefix, ok := r.ModulePrefix(h.Module)
	if !ok {
		return "", false
	}
	return prefix + name, true
}

// ModulePrefix returns "" for the unit's own module and "Alias::" otherwise.
func (r *Resolver) ModulePrefix(module uint16) (string, bool) {
	if int(module) == r.self {
		return "", true
	}
	h, ok := bytecode.At(r.tables.ModuleHandles, module)
	if !ok {
		return "", false
	}
	addr, name, ok := r.tables.ModuleID(h)
	if !ok {
		return "", false
	}
	if r.imports != nil {
		if alias, ok := r.imports.Get(addr, name); ok {
			return alias + "::", true
		}
	}
	return addr.Hex() + "::" + name + "::", true
}
