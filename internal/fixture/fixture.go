// Package fixture builds compiled Move units in memory for tests and tools.
//
// Pools are interned, so asking for the same identifier, address, signature
// or module twice returns the same index.
package fixture

import (
	"strconv"
	"strings"

	"github.com/wippyai/move-decompiler/bytecode"
)

// Addr returns a 32-byte address whose last byte is b.
func Addr(b byte) bytecode.Address {
	return AddrN(b, bytecode.DefaultAddressLength)
}

// AddrN returns an n-byte address whose last byte is b.
func AddrN(b byte, n int) bytecode.Address {
	a := make(bytecode.Address, n)
	a[n-1] = b
	return a
}

// Common primitive tokens.
var (
	Bool    = bytecode.Primitive(bytecode.TokenBool)
	U8      = bytecode.Primitive(bytecode.TokenU8)
	U16     = bytecode.Primitive(bytecode.TokenU16)
	U32     = bytecode.Primitive(bytecode.TokenU32)
	U64     = bytecode.Primitive(bytecode.TokenU64)
	U128    = bytecode.Primitive(bytecode.TokenU128)
	U256    = bytecode.Primitive(bytecode.TokenU256)
	Address = bytecode.Primitive(bytecode.TokenAddress)
	Signer  = bytecode.Primitive(bytecode.TokenSigner)
)

type moduleKey struct {
	addr string
	name string
}

// Builder accumulates tables for one module or script.
type Builder struct {
	t       bytecode.Tables
	m       bytecode.CompiledModule
	idents  map[string]uint16
	addrs   map[string]uint16
	sigs    map[string]uint16
	modules map[moduleKey]uint16
}

// NewModule starts a module named name at address a.
func NewModule(a bytecode.Address, name string) *Builder {
	b := newBuilder(len(a))
	b.m.Self = b.Module(a, name)
	return b
}

// NewScript starts a script whose addresses are n bytes wide.
func NewScript(n int) *Builder {
	return newBuilder(n)
}

func newBuilder(addrLen int) *Builder {
	b := &Builder{
		idents:  make(map[string]uint16),
		addrs:   make(map[string]uint16),
		sigs:    make(map[string]uint16),
		modules: make(map[moduleKey]uint16),
	}
	b.t.AddressLength = addrLen
	return b
}

// Version overrides the binary format version.
func (b *Builder) Version(v uint32) *Builder {
	b.t.Version = v
	return b
}

// Ident interns an identifier.
func (b *Builder) Ident(s string) uint16 {
	if i, ok := b.idents[s]; ok {
		return i
	}
	i := uint16(len(b.t.Identifiers))
	b.t.Identifiers = append(b.t.Identifiers, s)
	b.idents[s] = i
	return i
}

// Address interns an address.
func (b *Builder) Address(a bytecode.Address) uint16 {
	key := string(a)
	if i, ok := b.addrs[key]; ok {
		return i
	}
	i := uint16(len(b.t.AddressIdentifiers))
	b.t.AddressIdentifiers = append(b.t.AddressIdentifiers, a)
	b.addrs[key] = i
	return i
}

// Sig interns a signature.
func (b *Builder) Sig(toks ...bytecode.SignatureToken) uint16 {
	key := sigKey(toks)
	if i, ok := b.sigs[key]; ok {
		return i
	}
	i := uint16(len(b.t.Signatures))
	b.t.Signatures = append(b.t.Signatures, bytecode.Signature(append([]bytecode.SignatureToken{}, toks...)))
	b.sigs[key] = i
	return i
}

func sigKey(toks []bytecode.SignatureToken) string {
	var sb strings.Builder
	for _, t := range toks {
		writeTokenKey(&sb, t)
		sb.WriteByte(';')
	}
	return sb.String()
}

func writeTokenKey(sb *strings.Builder, t bytecode.SignatureToken) {
	sb.WriteString(strconv.Itoa(int(t.Kind)))
	switch t.Kind {
	case bytecode.TokenVector, bytecode.TokenReference, bytecode.TokenMutableReference:
		sb.WriteByte('(')
		if t.Elem != nil {
			writeTokenKey(sb, *t.Elem)
		}
		sb.WriteByte(')')
	case bytecode.TokenStruct, bytecode.TokenTypeParameter:
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(t.Index)))
	case bytecode.TokenStructInst:
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(t.Index)))
		sb.WriteByte('<')
		for _, a := range t.TypeArgs {
			writeTokenKey(sb, a)
			sb.WriteByte(',')
		}
		sb.WriteByte('>')
	}
}

// Module interns a module handle.
func (b *Builder) Module(a bytecode.Address, name string) uint16 {
	key := moduleKey{addr: string(a), name: name}
	if i, ok := b.modules[key]; ok {
		return i
	}
	h := bytecode.ModuleHandle{Address: b.Address(a), Name: b.Ident(name)}
	i := uint16(len(b.t.ModuleHandles))
	b.t.ModuleHandles = append(b.t.ModuleHandles, h)
	b.modules[key] = i
	return i
}

// Self returns the module's own handle index.
func (b *Builder) Self() uint16 {
	return b.m.Self
}

// Field is a named struct field.
type Field struct {
	Name string
	Type bytecode.SignatureToken
}

// Struct describes a struct defined in the module.
type Struct struct {
	Name       string
	Fields     []Field
	TypeParams []bytecode.StructTypeParam
	Abilities  bytecode.AbilitySet
	Native     bool
}

// StructHandle adds a handle for a struct in module.
func (b *Builder) StructHandle(module uint16, name string, abilities bytecode.AbilitySet, params ...bytecode.StructTypeParam) uint16 {
	i := uint16(len(b.t.StructHandles))
	b.t.StructHandles = append(b.t.StructHandles, bytecode.StructHandle{
		Module:     module,
		Name:       b.Ident(name),
		Abilities:  abilities,
		TypeParams: params,
	})
	return i
}

// Struct defines a struct in the module, returning its handle and definition indices.
func (b *Builder) Struct(s Struct) (handle, def uint16) {
	handle = b.StructHandle(b.m.Self, s.Name, s.Abilities, s.TypeParams...)
	d := bytecode.StructDef{Handle: handle, Native: s.Native}
	for _, f := range s.Fields {
		d.Fields = append(d.Fields, bytecode.FieldDef{Name: b.Ident(f.Name), Type: f.Type})
	}
	def = uint16(len(b.m.StructDefs))
	b.m.StructDefs = append(b.m.StructDefs, d)
	return handle, def
}

// StructInst adds a struct definition instantiation.
func (b *Builder) StructInst(def uint16, args ...bytecode.SignatureToken) uint16 {
	i := uint16(len(b.m.StructDefInstantiations))
	b.m.StructDefInstantiations = append(b.m.StructDefInstantiations, bytecode.StructDefInstantiation{
		Def:      def,
		TypeArgs: b.Sig(args...),
	})
	return i
}

// FieldHandle adds a handle for field of struct definition def.
func (b *Builder) FieldHandle(def, field uint16) uint16 {
	i := uint16(len(b.m.FieldHandles))
	b.m.FieldHandles = append(b.m.FieldHandles, bytecode.FieldHandle{Owner: def, Field: field})
	return i
}

// FieldInst adds a field instantiation.
func (b *Builder) FieldInst(handle uint16, args ...bytecode.SignatureToken) uint16 {
	i := uint16(len(b.m.FieldInstantiations))
	b.m.FieldInstantiations = append(b.m.FieldInstantiations, bytecode.FieldInstantiation{
		Handle:   handle,
		TypeArgs: b.Sig(args...),
	})
	return i
}

// Function describes a function defined in the module.
type Function struct {
	Name       string
	TypeParams []bytecode.AbilitySet
	Params     []bytecode.SignatureToken
	Returns    []bytecode.SignatureToken
	Locals     []bytecode.SignatureToken
	Code       []bytecode.Instruction
	Acquires   []uint16
	Visibility bytecode.Visibility
	Entry      bool
	Native     bool
}

// FunctionHandle adds a handle for a function in module.
func (b *Builder) FunctionHandle(module uint16, name string, params, returns []bytecode.SignatureToken, typeParams ...bytecode.AbilitySet) uint16 {
	i := uint16(len(b.t.FunctionHandles))
	b.t.FunctionHandles = append(b.t.FunctionHandles, bytecode.FunctionHandle{
		Module:     module,
		Name:       b.Ident(name),
		Parameters: b.Sig(params...),
		Return:     b.Sig(returns...),
		TypeParams: typeParams,
	})
	return i
}

// Function defines a function in the module, returning its handle and definition indices.
func (b *Builder) Function(f Function) (handle, def uint16) {
	handle = b.FunctionHandle(b.m.Self, f.Name, f.Params, f.Returns, f.TypeParams...)
	d := bytecode.FunctionDef{
		Handle:     handle,
		Visibility: f.Visibility,
		IsEntry:    f.Entry,
		IsNative:   f.Native,
		Acquires:   f.Acquires,
	}
	if !f.Native {
		d.Code = &bytecode.CodeUnit{Locals: b.Sig(f.Locals...), Code: f.Code}
	}
	def = uint16(len(b.m.FunctionDefs))
	b.m.FunctionDefs = append(b.m.FunctionDefs, d)
	return handle, def
}

// FunctionInst adds a function instantiation.
func (b *Builder) FunctionInst(handle uint16, args ...bytecode.SignatureToken) uint16 {
	i := uint16(len(b.t.FunctionInstantiations))
	b.t.FunctionInstantiations = append(b.t.FunctionInstantiations, bytecode.FunctionInstantiation{
		Handle:   handle,
		TypeArgs: b.Sig(args...),
	})
	return i
}

// Constant adds a constant pool entry.
func (b *Builder) Constant(typ bytecode.SignatureToken, data []byte) uint16 {
	i := uint16(len(b.t.Constants))
	b.t.Constants = append(b.t.Constants, bytecode.Constant{Type: typ, Data: data})
	return i
}

// Friend declares a friend module.
func (b *Builder) Friend(a bytecode.Address, name string) {
	b.m.Friends = append(b.m.Friends, bytecode.ModuleHandle{Address: b.Address(a), Name: b.Ident(name)})
}

// Build returns the module.
func (b *Builder) Build() *bytecode.CompiledModule {
	m := b.m
	m.Tables = b.t
	return &m
}

// Script returns a script with the given entry function.
func (b *Builder) Script(typeParams []bytecode.AbilitySet, params, locals []bytecode.SignatureToken, code []bytecode.Instruction) *bytecode.CompiledScript {
	s := &bytecode.CompiledScript{
		TypeParams: typeParams,
		Parameters: b.Sig(params...),
		Code:       bytecode.CodeUnit{Locals: b.Sig(locals...), Code: code},
	}
	s.Tables = b.t
	return s
}

// Bytes encodes the module.
func (b *Builder) Bytes() ([]byte, error) {
	return b.Build().Encode()
}
