package bytecode

import "fmt"

// Opcode is a Move bytecode instruction opcode.
type Opcode byte

const (
	OpPop                    Opcode = 0x01
	OpRet                    Opcode = 0x02
	OpBrTrue                 Opcode = 0x03
	OpBrFalse                Opcode = 0x04
	OpBranch                 Opcode = 0x05
	OpLdU64                  Opcode = 0x06
	OpLdConst                Opcode = 0x07
	OpLdTrue                 Opcode = 0x08
	OpLdFalse                Opcode = 0x09
	OpCopyLoc                Opcode = 0x0A
	OpMoveLoc                Opcode = 0x0B
	OpStLoc                  Opcode = 0x0C
	OpMutBorrowLoc           Opcode = 0x0D
	OpImmBorrowLoc           Opcode = 0x0E
	OpMutBorrowField         Opcode = 0x0F
	OpImmBorrowField         Opcode = 0x10
	OpCall                   Opcode = 0x11
	OpPack                   Opcode = 0x12
	OpUnpack                 Opcode = 0x13
	OpReadRef                Opcode = 0x14
	OpWriteRef               Opcode = 0x15
	OpAdd                    Opcode = 0x16
	OpSub                    Opcode = 0x17
	OpMul                    Opcode = 0x18
	OpMod                    Opcode = 0x19
	OpDiv                    Opcode = 0x1A
	OpBitOr                  Opcode = 0x1B
	OpBitAnd                 Opcode = 0x1C
	OpXor                    Opcode = 0x1D
	OpOr                     Opcode = 0x1E
	OpAnd                    Opcode = 0x1F
	OpNot                    Opcode = 0x20
	OpEq                     Opcode = 0x21
	OpNeq                    Opcode = 0x22
	OpLt                     Opcode = 0x23
	OpGt                     Opcode = 0x24
	OpLe                     Opcode = 0x25
	OpGe                     Opcode = 0x26
	OpAbort                  Opcode = 0x27
	OpNop                    Opcode = 0x28
	OpExists                 Opcode = 0x29
	OpMutBorrowGlobal        Opcode = 0x2A
	OpImmBorrowGlobal        Opcode = 0x2B
	OpMoveFrom               Opcode = 0x2C
	OpMoveTo                 Opcode = 0x2D
	OpFreezeRef              Opcode = 0x2E
	OpShl                    Opcode = 0x2F
	OpShr                    Opcode = 0x30
	OpLdU8                   Opcode = 0x31
	OpLdU128                 Opcode = 0x32
	OpCastU8                 Opcode = 0x33
	OpCastU64                Opcode = 0x34
	OpCastU128               Opcode = 0x35
	OpMutBorrowFieldGeneric  Opcode = 0x36
	OpImmBorrowFieldGeneric  Opcode = 0x37
	OpCallGeneric            Opcode = 0x38
	OpPackGeneric            Opcode = 0x39
	OpUnpackGeneric          Opcode = 0x3A
	OpExistsGeneric          Opcode = 0x3B
	OpMutBorrowGlobalGeneric Opcode = 0x3C
	OpImmBorrowGlobalGeneric Opcode = 0x3D
	OpMoveFromGeneric        Opcode = 0x3E
	OpMoveToGeneric          Opcode = 0x3F
	OpVecPack                Opcode = 0x40
	OpVecLen                 Opcode = 0x41
	OpVecImmBorrow           Opcode = 0x42
	OpVecMutBorrow           Opcode = 0x43
	OpVecPushBack            Opcode = 0x44
	OpVecPopBack             Opcode = 0x45
	OpVecUnpack              Opcode = 0x46
	OpVecSwap                Opcode = 0x47
	OpLdU16                  Opcode = 0x48
	OpLdU32                  Opcode = 0x49
	OpLdU256                 Opcode = 0x4A
	OpCastU16                Opcode = 0x4B
	OpCastU32                Opcode = 0x4C
	OpCastU256               Opcode = 0x4D
)

// immKind describes how an opcode's immediate is encoded.
type immKind uint8

const (
	immNone   immKind = iota
	immBranch         // ULEB u16 code offset
	immLocal          // u8 local index
	immIndex          // ULEB u16 pool index
	immVector         // ULEB u16 signature index + u64 LE count
	immU8
	immU16
	immU32
	immU64
	immU128
	immU256
)

type opcodeInfo struct {
	name string
	imm  immKind
}

// opcodes maps every known opcode byte to its name and immediate layout.
// Bytes with an empty name are not Move opcodes.
var opcodes = [256]opcodeInfo{
	OpPop:                    {"Pop", immNone},
	OpRet:                    {"Ret", immNone},
	OpBrTrue:                 {"BrTrue", immBranch},
	OpBrFalse:                {"BrFalse", immBranch},
	OpBranch:                 {"Branch", immBranch},
	OpLdU64:                  {"LdU64", immU64},
	OpLdConst:                {"LdConst", immIndex},
	OpLdTrue:                 {"LdTrue", immNone},
	OpLdFalse:                {"LdFalse", immNone},
	OpCopyLoc:                {"CopyLoc", immLocal},
	OpMoveLoc:                {"MoveLoc", immLocal},
	OpStLoc:                  {"StLoc", immLocal},
	OpMutBorrowLoc:           {"MutBorrowLoc", immLocal},
	OpImmBorrowLoc:           {"ImmBorrowLoc", immLocal},
	OpMutBorrowField:         {"MutBorrowField", immIndex},
	OpImmBorrowField:         {"ImmBorrowField", immIndex},
	OpCall:                   {"Call", immIndex},
	OpPack:                   {"Pack", immIndex},
	OpUnpack:                 {"Unpack", immIndex},
	OpReadRef:                {"ReadRef", immNone},
	OpWriteRef:               {"WriteRef", immNone},
	OpAdd:                    {"Add", immNone},
	OpSub:                    {"Sub", immNone},
	OpMul:                    {"Mul", immNone},
	OpMod:                    {"Mod", immNone},
	OpDiv:                    {"Div", immNone},
	OpBitOr:                  {"BitOr", immNone},
	OpBitAnd:                 {"BitAnd", immNone},
	OpXor:                    {"Xor", immNone},
	OpOr:                     {"Or", immNone},
	OpAnd:                    {"And", immNone},
	OpNot:                    {"Not", immNone},
	OpEq:                     {"Eq", immNone},
	OpNeq:                    {"Neq", immNone},
	OpLt:                     {"Lt", immNone},
	OpGt:                     {"Gt", immNone},
	OpLe:                     {"Le", immNone},
	OpGe:                     {"Ge", immNone},
	OpAbort:                  {"Abort", immNone},
	OpNop:                    {"Nop", immNone},
	OpExists:                 {"Exists", immIndex},
	OpMutBorrowGlobal:        {"MutBorrowGlobal", immIndex},
	OpImmBorrowGlobal:        {"ImmBorrowGlobal", immIndex},
	OpMoveFrom:               {"MoveFrom", immIndex},
	OpMoveTo:                 {"MoveTo", immIndex},
	OpFreezeRef:              {"FreezeRef", immNone},
	OpShl:                    {"Shl", immNone},
	OpShr:                    {"Shr", immNone},
	OpLdU8:                   {"LdU8", immU8},
	OpLdU128:                 {"LdU128", immU128},
	OpCastU8:                 {"CastU8", immNone},
	OpCastU64:                {"CastU64", immNone},
	OpCastU128:               {"CastU128", immNone},
	OpMutBorrowFieldGeneric:  {"MutBorrowFieldGeneric", immIndex},
	OpImmBorrowFieldGeneric:  {"ImmBorrowFieldGeneric", immIndex},
	OpCallGeneric:            {"CallGeneric", immIndex},
	OpPackGeneric:            {"PackGeneric", immIndex},
	OpUnpackGeneric:          {"UnpackGeneric", immIndex},
	OpExistsGeneric:          {"ExistsGeneric", immIndex},
	OpMutBorrowGlobalGeneric: {"MutBorrowGlobalGeneric", immIndex},
	OpImmBorrowGlobalGeneric: {"ImmBorrowGlobalGeneric", immIndex},
	OpMoveFromGeneric:        {"MoveFromGeneric", immIndex},
	OpMoveToGeneric:          {"MoveToGeneric", immIndex},
	OpVecPack:                {"VecPack", immVector},
	OpVecLen:                 {"VecLen", immIndex},
	OpVecImmBorrow:           {"VecImmBorrow", immIndex},
	OpVecMutBorrow:           {"VecMutBorrow", immIndex},
	OpVecPushBack:            {"VecPushBack", immIndex},
	OpVecPopBack:             {"VecPopBack", immIndex},
	OpVecUnpack:              {"VecUnpack", immVector},
	OpVecSwap:                {"VecSwap", immIndex},
	OpLdU16:                  {"LdU16", immU16},
	OpLdU32:                  {"LdU32", immU32},
	OpLdU256:                 {"LdU256", immU256},
	OpCastU16:                {"CastU16", immNone},
	OpCastU32:                {"CastU32", immNone},
	OpCastU256:               {"CastU256", immNone},
}

// Known reports whether the opcode byte is a defined Move opcode.
func (o Opcode) Known() bool {
	return opcodes[o].name != ""
}

func (o Opcode) String() string {
	if name := opcodes[o].name; name != "" {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02x)", byte(o))
}

// Instruction is a decoded bytecode instruction.
type Instruction struct {
	Imm    any
	Opcode Opcode
}

// BranchImm is the target code offset of BrTrue, BrFalse and Branch.
type BranchImm struct {
	Offset uint16
}

// LocalImm is the local slot of CopyLoc, MoveLoc, StLoc and the local borrows.
type LocalImm struct {
	Index uint8
}

// IndexImm is a pool index (constant, handle, definition, instantiation or signature).
type IndexImm struct {
	Index uint16
}

// VectorImm is the element signature and element count of VecPack and VecUnpack.
type VectorImm struct {
	Count uint64
	Sig   uint16
}

// U8Imm is the value of LdU8.
type U8Imm struct{ Value uint8 }

// U16Imm is the value of LdU16.
type U16Imm struct{ Value uint16 }

// U32Imm is the value of LdU32.
type U32Imm struct{ Value uint32 }

// U64Imm is the value of LdU64.
type U64Imm struct{ Value uint64 }

// U128Imm is the little-endian value of LdU128.
type U128Imm struct{ Value [16]byte }

// U256Imm is the little-endian value of LdU256.
type U256Imm struct{ Value [32]byte }

// Branch returns the branch target if the instruction is a branch.
func (i Instruction) Branch() (uint16, bool) {
	if b, ok := i.Imm.(BranchImm); ok {
		return b.Offset, true
	}
	return 0, false
}

// Local returns the local index of a local-slot instruction.
func (i Instruction) Local() (uint8, bool) {
	if l, ok := i.Imm.(LocalImm); ok {
		return l.Index, true
	}
	return 0, false
}

// Index returns the pool index of an indexed instruction.
func (i Instruction) Index() (uint16, bool) {
	switch imm := i.Imm.(type) {
	case IndexImm:
		return imm.Index, true
	case VectorImm:
		return imm.Sig, true
	}
	return 0, false
}

// IsBranch reports whether the opcode transfers control within the function.
func (o Opcode) IsBranch() bool {
	return o == OpBrTrue || o == OpBrFalse || o == OpBranch
}

// IsTerminal reports whether the opcode ends straight-line execution.
func (o Opcode) IsTerminal() bool {
	return o == OpRet || o == OpAbort || o == OpBranch
}

// Nop is the sentinel instruction returned for out-of-range lookups.
var Nop = Instruction{Opcode: OpNop}

// Convenience constructors, used by encoders and fixtures.

func Simple(op Opcode) Instruction             { return Instruction{Opcode: op} }
func Branch(op Opcode, off uint16) Instruction { return Instruction{Opcode: op, Imm: BranchImm{Offset: off}} }
func Local(op Opcode, idx uint8) Instruction   { return Instruction{Opcode: op, Imm: LocalImm{Index: idx}} }
func Indexed(op Opcode, idx uint16) Instruction {
	return Instruction{Opcode: op, Imm: IndexImm{Index: idx}}
}
func Vector(op Opcode, sig uint16, count uint64) Instruction {
	return Instruction{Opcode: op, Imm: VectorImm{Sig: sig, Count: count}}
}
func LdU8(v uint8) Instruction   { return Instruction{Opcode: OpLdU8, Imm: U8Imm{Value: v}} }
func LdU16(v uint16) Instruction { return Instruction{Opcode: OpLdU16, Imm: U16Imm{Value: v}} }
func LdU32(v uint32) Instruction { return Instruction{Opcode: OpLdU32, Imm: U32Imm{Value: v}} }
func LdU64(v uint64) Instruction { return Instruction{Opcode: OpLdU64, Imm: U64Imm{Value: v}} }
