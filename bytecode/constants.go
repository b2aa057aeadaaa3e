package bytecode

// Move binary format magic number and supported versions.
var Magic = [4]byte{0xA1, 0x1C, 0xEB, 0x0B}

const (
	// VersionMin is the oldest binary format version accepted.
	VersionMin uint32 = 1
	// VersionMax is the newest binary format version accepted.
	VersionMax uint32 = 6

	// DefaultAddressLength is the account address width used when none is configured.
	DefaultAddressLength = 32
)

// Table kinds identify each table in the binary header.
const (
	TableModuleHandles      byte = 0x1
	TableStructHandles      byte = 0x2
	TableFunctionHandles    byte = 0x3
	TableFunctionInst       byte = 0x4
	TableSignatures         byte = 0x5
	TableConstantPool       byte = 0x6
	TableIdentifiers        byte = 0x7
	TableAddressIdentifiers byte = 0x8
	TableStructDefs         byte = 0xA
	TableStructDefInst      byte = 0xB
	TableFunctionDefs       byte = 0xC
	TableFieldHandle        byte = 0xD
	TableFieldInst          byte = 0xE
	TableFriendDecls        byte = 0xF
	TableMetadata           byte = 0x10
)

// TableName returns a readable name for a table kind, or "" if unknown.
func TableName(kind byte) string {
	switch kind {
	case TableModuleHandles:
		return "module_handles"
	case TableStructHandles:
		return "struct_handles"
	case TableFunctionHandles:
		return "function_handles"
	case TableFunctionInst:
		return "function_instantiations"
	case TableSignatures:
		return "signatures"
	case TableConstantPool:
		return "constant_pool"
	case TableIdentifiers:
		return "identifiers"
	case TableAddressIdentifiers:
		return "address_identifiers"
	case TableStructDefs:
		return "struct_defs"
	case TableStructDefInst:
		return "struct_def_instantiations"
	case TableFunctionDefs:
		return "function_defs"
	case TableFieldHandle:
		return "field_handles"
	case TableFieldInst:
		return "field_instantiations"
	case TableFriendDecls:
		return "friend_decls"
	case TableMetadata:
		return "metadata"
	}
	return ""
}

// moduleOnlyTable reports whether a table can only appear in a module.
func moduleOnlyTable(kind byte) bool {
	switch kind {
	case TableStructDefs, TableStructDefInst, TableFunctionDefs,
		TableFieldHandle, TableFieldInst, TableFriendDecls:
		return true
	}
	return false
}

// Signature token tags.
const (
	TagBool          byte = 0x1
	TagU8            byte = 0x2
	TagU64           byte = 0x3
	TagU128          byte = 0x4
	TagAddress       byte = 0x5
	TagReference     byte = 0x6
	TagMutReference  byte = 0x7
	TagStruct        byte = 0x8
	TagTypeParameter byte = 0x9
	TagVector        byte = 0xA
	TagStructInst    byte = 0xB
	TagSigner        byte = 0xC
	TagU16           byte = 0xD
	TagU32           byte = 0xE
	TagU256          byte = 0xF
)

// Struct field information kinds.
const (
	FieldsNative   byte = 0x1
	FieldsDeclared byte = 0x2
)

// Function definition flag bits (version 2 and later).
const (
	FlagNative byte = 0x2
	FlagEntry  byte = 0x4
)

// Version 1 packed visibility and native into one byte.
const (
	legacyFlagPublic byte = 0x1
	legacyFlagNative byte = 0x2
)

// Limits enforced while decoding.
const (
	MaxTableCount      = 255
	MaxIdentifierSize  = 65535
	MaxConstantSize    = 65535
	MaxMetadataSize    = 65535
	MaxSignatureDepth  = 256
	MaxCodeSize        = 65535
	MaxTypeParameters  = 255
	MaxFieldCount      = 255
	MaxSignatureLength = 255
)
