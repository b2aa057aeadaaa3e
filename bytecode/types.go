package bytecode

import (
	"encoding/hex"
	"strings"
)

// Unit is a decoded compiled unit: either a *CompiledModule or a *CompiledScript.
type Unit interface {
	// Common returns the tables shared by modules and scripts.
	Common() *Tables
	isUnit()
}

// Tables holds the pools shared by modules and scripts.
type Tables struct {
	ModuleHandles          []ModuleHandle
	StructHandles          []StructHandle
	FunctionHandles        []FunctionHandle
	FunctionInstantiations []FunctionInstantiation
	Signatures             []Signature
	Identifiers            []string
	AddressIdentifiers     []Address
	Constants              []Constant
	Metadata               []Metadata

	Version       uint32
	AddressLength int
}

// CompiledModule is a published Move module.
type CompiledModule struct {
	Tables

	StructDefs              []StructDef
	StructDefInstantiations []StructDefInstantiation
	FunctionDefs            []FunctionDef
	FieldHandles            []FieldHandle
	FieldInstantiations     []FieldInstantiation
	Friends                 []ModuleHandle

	// Self indexes the module's own handle in ModuleHandles.
	Self uint16
}

// CompiledScript is a transaction script with a single entry function.
type CompiledScript struct {
	Tables

	TypeParams []AbilitySet
	Parameters uint16
	Code       CodeUnit
}

func (m *CompiledModule) Common() *Tables { return &m.Tables }
func (s *CompiledScript) Common() *Tables { return &s.Tables }

func (*CompiledModule) isUnit() {}
func (*CompiledScript) isUnit() {}

// SelfHandle returns the module's own handle.
func (m *CompiledModule) SelfHandle() (ModuleHandle, bool) {
	return at(m.ModuleHandles, m.Self)
}

// Name returns the module's own name.
func (m *CompiledModule) Name() string {
	h, ok := m.SelfHandle()
	if !ok {
		return ""
	}
	name, _ := m.Identifier(h.Name)
	return name
}

// ModuleHandle identifies a module by address and name.
type ModuleHandle struct {
	Address uint16
	Name    uint16
}

// StructHandle references a struct defined in some module.
type StructHandle struct {
	TypeParams []StructTypeParam
	Module     uint16
	Name       uint16
	Abilities  AbilitySet
}

// StructTypeParam is a struct type parameter with its constraints.
type StructTypeParam struct {
	Constraints AbilitySet
	IsPhantom   bool
}

// FunctionHandle references a function defined in some module.
type FunctionHandle struct {
	TypeParams []AbilitySet
	Module     uint16
	Name       uint16
	Parameters uint16
	Return     uint16
}

// FunctionInstantiation pairs a generic function handle with type arguments.
type FunctionInstantiation struct {
	Handle   uint16
	TypeArgs uint16
}

// Signature is an ordered list of types.
type Signature []SignatureToken

// Constant is a BCS-encoded value with its type.
type Constant struct {
	Data []byte
	Type SignatureToken
}

// Metadata is an opaque key/value attachment.
type Metadata struct {
	Key   []byte
	Value []byte
}

// StructDef defines a struct owned by the module.
type StructDef struct {
	Fields []FieldDef
	Handle uint16
	Native bool
}

// FieldDef is a named, typed struct field.
type FieldDef struct {
	Type SignatureToken
	Name uint16
}

// StructDefInstantiation pairs a generic struct definition with type arguments.
type StructDefInstantiation struct {
	Def      uint16
	TypeArgs uint16
}

// FunctionDef defines a function owned by the module.
type FunctionDef struct {
	Code       *CodeUnit
	Acquires   []uint16
	Handle     uint16
	Visibility Visibility
	IsEntry    bool
	IsNative   bool
}

// CodeUnit is a function body: locals signature and instructions.
type CodeUnit struct {
	Code   []Instruction
	Locals uint16
}

// FieldHandle references a field of a struct definition.
type FieldHandle struct {
	Owner uint16
	Field uint16
}

// FieldInstantiation pairs a field handle with type arguments.
type FieldInstantiation struct {
	Handle   uint16
	TypeArgs uint16
}

// Visibility of a function definition.
type Visibility byte

const (
	VisibilityPrivate Visibility = 0
	VisibilityPublic  Visibility = 1
	VisibilityScript  Visibility = 2
	VisibilityFriend  Visibility = 3
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityPublic:
		return "public"
	case VisibilityScript:
		return "public(script)"
	case VisibilityFriend:
		return "public(friend)"
	}
	return "unknown"
}

// AbilitySet is a bit set of struct/type parameter abilities.
type AbilitySet uint8

const (
	AbilityCopy  AbilitySet = 0x1
	AbilityDrop  AbilitySet = 0x2
	AbilityStore AbilitySet = 0x4
	AbilityKey   AbilitySet = 0x8

	abilityAll = AbilityCopy | AbilityDrop | AbilityStore | AbilityKey
)

// Has reports whether every ability in other is present.
func (a AbilitySet) Has(other AbilitySet) bool {
	return a&other == other
}

// Names lists the abilities in render order: copy, drop, key, store.
func (a AbilitySet) Names() []string {
	var names []string
	if a.Has(AbilityCopy) {
		names = append(names, "copy")
	}
	if a.Has(AbilityDrop) {
		names = append(names, "drop")
	}
	if a.Has(AbilityKey) {
		names = append(names, "key")
	}
	if a.Has(AbilityStore) {
		names = append(names, "store")
	}
	return names
}

// Address is an account address of the configured width.
type Address []byte

// Hex renders the address as 0x-prefixed hex with leading zeros trimmed.
func (a Address) Hex() string {
	s := strings.TrimLeft(hex.EncodeToString(a), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

func (a Address) String() string {
	return a.Hex()
}

// SignatureToken is a type in a signature, tagged by Kind.
type SignatureToken struct {
	// Elem is the element type for vectors and references.
	Elem *SignatureToken
	// TypeArgs are the arguments of a struct instantiation.
	TypeArgs []SignatureToken
	Kind     TokenKind
	// Index is the struct handle index for structs or the parameter index for type parameters.
	Index uint16
}

// TokenKind is the tag of a SignatureToken.
type TokenKind byte

const (
	TokenBool             = TokenKind(TagBool)
	TokenU8               = TokenKind(TagU8)
	TokenU16              = TokenKind(TagU16)
	TokenU32              = TokenKind(TagU32)
	TokenU64              = TokenKind(TagU64)
	TokenU128             = TokenKind(TagU128)
	TokenU256             = TokenKind(TagU256)
	TokenAddress          = TokenKind(TagAddress)
	TokenSigner           = TokenKind(TagSigner)
	TokenVector           = TokenKind(TagVector)
	TokenStruct           = TokenKind(TagStruct)
	TokenStructInst       = TokenKind(TagStructInst)
	TokenReference        = TokenKind(TagReference)
	TokenMutableReference = TokenKind(TagMutReference)
	TokenTypeParameter    = TokenKind(TagTypeParameter)
)

// Primitive returns the token for a primitive kind.
func Primitive(k TokenKind) SignatureToken {
	return SignatureToken{Kind: k}
}

// VectorOf returns vector<elem>.
func VectorOf(elem SignatureToken) SignatureToken {
	return SignatureToken{Kind: TokenVector, Elem: &elem}
}

// RefOf returns &elem, or &mut elem when mutable.
func RefOf(elem SignatureToken, mutable bool) SignatureToken {
	k := TokenReference
	if mutable {
		k = TokenMutableReference
	}
	return SignatureToken{Kind: k, Elem: &elem}
}

// StructOf returns a struct token, instantiated when args are given.
func StructOf(handle uint16, args ...SignatureToken) SignatureToken {
	if len(args) == 0 {
		return SignatureToken{Kind: TokenStruct, Index: handle}
	}
	return SignatureToken{Kind: TokenStructInst, Index: handle, TypeArgs: args}
}

// TypeParam returns a type parameter token.
func TypeParam(index uint16) SignatureToken {
	return SignatureToken{Kind: TokenTypeParameter, Index: index}
}

// IsReference reports whether the token is & or &mut.
func (t SignatureToken) IsReference() bool {
	return t.Kind == TokenReference || t.Kind == TokenMutableReference
}

// Identifier returns the identifier at index i.
func (t *Tables) Identifier(i uint16) (string, bool) {
	return at(t.Identifiers, i)
}

// AddressAt returns the address identifier at index i.
func (t *Tables) AddressAt(i uint16) (Address, bool) {
	return at(t.AddressIdentifiers, i)
}

// SignatureAt returns the signature at index i.
func (t *Tables) SignatureAt(i uint16) (Signature, bool) {
	return at(t.Signatures, i)
}

// ModuleID resolves a module handle to its address and name.
func (t *Tables) ModuleID(h ModuleHandle) (Address, string, bool) {
	addr, ok := t.AddressAt(h.Address)
	if !ok {
		return nil, "", false
	}
	name, ok := t.Identifier(h.Name)
	if !ok {
		return nil, "", false
	}
	return addr, name, true
}

func at[T any](s []T, i uint16) (T, bool) {
	if int(i) >= len(s) {
		var zero T
		return zero, false
	}
	return s[i], true
}

// At is the bounds-checked index lookup used by consumers of the tables.
func At[T any](s []T, i uint16) (T, bool) {
	return at(s, i)
}
