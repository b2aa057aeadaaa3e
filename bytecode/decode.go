package bytecode

import (
	"bytes"
	"cmp"
	"io"
	"slices"

	"github.com/wippyai/move-decompiler/internal/binary"
	"github.com/wippyai/move-decompiler/errors"
)

// Option configures decoding.
type Option func(*options)

type options struct {
	addressLength int
}

// WithAddressLength sets the account address width in bytes.
func WithAddressLength(n int) Option {
	return func(o *options) {
		o.addressLength = n
	}
}

func buildOptions(opts []Option) options {
	o := options{addressLength: DefaultAddressLength}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Deserialize decodes a compiled module or script.
// Units with any module-only table are modules; otherwise the script layout
// is tried first and the module layout second.
func Deserialize(data []byte, opts ...Option) (Unit, error) {
	o := buildOptions(opts)
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if h.hasModuleTables() {
		return decodeModule(h, o)
	}
	s, scriptErr := decodeScript(h, o)
	if scriptErr == nil {
		return s, nil
	}
	m, err := decodeModule(h, o)
	if err != nil {
		return nil, scriptErr
	}
	return m, nil
}

// DeserializeModule decodes a compiled module.
func DeserializeModule(data []byte, opts ...Option) (*CompiledModule, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	return decodeModule(h, buildOptions(opts))
}

// DeserializeScript decodes a compiled script.
func DeserializeScript(data []byte, opts ...Option) (*CompiledScript, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if h.hasModuleTables() {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"header"}, "script contains module-only tables")
	}
	return decodeScript(h, buildOptions(opts))
}

type header struct {
	tables        map[byte][]byte
	trailer       []byte
	version       uint32
	trailerOffset int
}

type tableEntry struct {
	kind   byte
	offset uint32
	length uint32
}

func (h *header) hasModuleTables() bool {
	for kind := range h.tables {
		if moduleOnlyTable(kind) {
			return true
		}
	}
	return false
}

func readHeader(data []byte) (*header, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return nil, decodeError("header", r, err)
	}
	if !bytes.Equal(magic, Magic[:]) {
		return nil, errors.New(errors.PhaseDecode, errors.KindBadMagic).
			Table("header").
			At(0).
			Value(magic).
			Detail("bad magic %x", magic).
			Build()
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, decodeError("header", r, err)
	}
	if version < VersionMin || version > VersionMax {
		return nil, errors.New(errors.PhaseDecode, errors.KindBadVersion).
			Table("header").
			At(len(Magic)).
			Value(version).
			Detail("unsupported version %d (supported %d..%d)", version, VersionMin, VersionMax).
			Build()
	}

	count, err := r.ReadULEBBounded(MaxTableCount)
	if err != nil {
		return nil, decodeError("header", r, err)
	}

	entries := make([]tableEntry, 0, count)
	seen := make(map[byte]bool, count)
	for range count {
		pos := r.Position()
		kind, err := r.ReadByte()
		if err != nil {
			return nil, decodeError("header", r, err)
		}
		if TableName(kind) == "" {
			e := errors.InvalidEnum(errors.PhaseDecode, "header", kind, "table kind")
			e.Offset, e.HasOffset = pos, true
			return nil, e
		}
		if seen[kind] {
			return nil, errors.New(errors.PhaseDecode, errors.KindDuplicate).
				Table("header").
				At(pos).
				Value(kind).
				Detail("duplicate table %s", TableName(kind)).
				Build()
		}
		seen[kind] = true
		offset, err := r.ReadU32()
		if err != nil {
			return nil, decodeError("header", r, err)
		}
		length, err := r.ReadU32()
		if err != nil {
			return nil, decodeError("header", r, err)
		}
		entries = append(entries, tableEntry{kind: kind, offset: offset, length: length})
	}

	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b tableEntry) int {
		return cmp.Compare(a.offset, b.offset)
	})

	var end uint64
	for _, e := range sorted {
		if uint64(e.offset) != end {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Table(TableName(e.kind)).
				Value(e.offset).
				Detail("table at offset %d is not contiguous (expected %d)", e.offset, end).
				Build()
		}
		end += uint64(e.length)
	}

	start := r.Position()
	if uint64(start)+end > uint64(len(data)) {
		return nil, errors.Truncated(errors.PhaseDecode, "header", len(data), io.ErrUnexpectedEOF)
	}

	h := &header{
		version: version,
		tables:  make(map[byte][]byte, len(entries)),
	}
	for _, e := range entries {
		lo := start + int(e.offset)
		h.tables[e.kind] = data[lo : lo+int(e.length)]
	}
	h.trailerOffset = start + int(end)
	h.trailer = data[h.trailerOffset:]
	return h, nil
}

// decodeError converts a low-level read failure into a structured decode error.
func decodeError(table string, r *binary.Reader, err error) error {
	var e *errors.Error
	if errors.As(err, &e) {
		if e.Table == "" {
			e.Table = table
		}
		return e
	}
	cause := r.WrapError(table, err)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.Truncated(errors.PhaseDecode, table, r.Position(), cause)
	case errors.Is(err, binary.ErrOverflow), errors.Is(err, binary.ErrRange):
		return errors.New(errors.PhaseDecode, errors.KindOverflow).
			Table(table).
			At(r.Position()).
			Cause(cause).
			Build()
	}
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Table(table).
		At(r.Position()).
		Cause(cause).
		Build()
}

// decoder reads the tables of one unit.
type decoder struct {
	h       *header
	version uint32
	addrLen int
}

func (d *decoder) table(kind byte, parse func(r *binary.Reader) error) error {
	data, ok := d.h.tables[kind]
	if !ok {
		return nil
	}
	r := binary.NewReader(data)
	for r.Len() > 0 {
		if err := parse(r); err != nil {
			return decodeError(TableName(kind), r, err)
		}
	}
	return nil
}

func (d *decoder) common(t *Tables) error {
	t.Version = d.version
	t.AddressLength = d.addrLen

	if err := d.table(TableModuleHandles, func(r *binary.Reader) error {
		h, err := readModuleHandle(r)
		t.ModuleHandles = append(t.ModuleHandles, h)
		return err
	}); err != nil {
		return err
	}
	if err := d.table(TableStructHandles, func(r *binary.Reader) error {
		h, err := d.readStructHandle(r)
		t.StructHandles = append(t.StructHandles, h)
		return err
	}); err != nil {
		return err
	}
	if err := d.table(TableFunctionHandles, func(r *binary.Reader) error {
		h, err := d.readFunctionHandle(r)
		t.FunctionHandles = append(t.FunctionHandles, h)
		return err
	}); err != nil {
		return err
	}
	if err := d.table(TableFunctionInst, func(r *binary.Reader) error {
		var fi FunctionInstantiation
		var err error
		if fi.Handle, err = r.ReadIndex(); err != nil {
			return err
		}
		if fi.TypeArgs, err = r.ReadIndex(); err != nil {
			return err
		}
		t.FunctionInstantiations = append(t.FunctionInstantiations, fi)
		return nil
	}); err != nil {
		return err
	}
	if err := d.table(TableSignatures, func(r *binary.Reader) error {
		sig, err := readSignature(r)
		t.Signatures = append(t.Signatures, sig)
		return err
	}); err != nil {
		return err
	}
	if err := d.table(TableConstantPool, func(r *binary.Reader) error {
		typ, err := readToken(r, 0)
		if err != nil {
			return err
		}
		data, err := r.ReadVecBytes(MaxConstantSize)
		if err != nil {
			return err
		}
		t.Constants = append(t.Constants, Constant{Type: typ, Data: data})
		return nil
	}); err != nil {
		return err
	}
	if err := d.table(TableIdentifiers, func(r *binary.Reader) error {
		name, err := r.ReadName(MaxIdentifierSize)
		if errors.Is(err, binary.ErrInvalidUTF8) {
			return errors.InvalidUTF8(errors.PhaseDecode, TableName(TableIdentifiers), []byte(name))
		}
		if err != nil {
			return err
		}
		t.Identifiers = append(t.Identifiers, name)
		return nil
	}); err != nil {
		return err
	}
	if err := d.addresses(t); err != nil {
		return err
	}
	return d.table(TableMetadata, func(r *binary.Reader) error {
		key, err := r.ReadVecBytes(MaxMetadataSize)
		if err != nil {
			return err
		}
		value, err := r.ReadVecBytes(MaxMetadataSize)
		if err != nil {
			return err
		}
		t.Metadata = append(t.Metadata, Metadata{Key: key, Value: value})
		return nil
	})
}

func (d *decoder) addresses(t *Tables) error {
	data, ok := d.h.tables[TableAddressIdentifiers]
	if !ok {
		return nil
	}
	if d.addrLen <= 0 {
		return errors.InvalidInput(errors.PhaseConfig, "address length must be positive")
	}
	if len(data)%d.addrLen != 0 {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Table(TableName(TableAddressIdentifiers)).
			Value(len(data)).
			Detail("table length %d is not a multiple of address length %d", len(data), d.addrLen).
			Build()
	}
	for i := 0; i < len(data); i += d.addrLen {
		t.AddressIdentifiers = append(t.AddressIdentifiers, Address(slices.Clone(data[i:i+d.addrLen])))
	}
	return nil
}

func readModuleHandle(r *binary.Reader) (ModuleHandle, error) {
	var h ModuleHandle
	var err error
	if h.Address, err = r.ReadIndex(); err != nil {
		return h, err
	}
	h.Name, err = r.ReadIndex()
	return h, err
}

func (d *decoder) readStructHandle(r *binary.Reader) (StructHandle, error) {
	var h StructHandle
	var err error
	if h.Module, err = r.ReadIndex(); err != nil {
		return h, err
	}
	if h.Name, err = r.ReadIndex(); err != nil {
		return h, err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return h, err
	}
	if d.version == 1 {
		// Version 1 stored a nominal-resource flag instead of abilities.
		switch flags {
		case 0:
			h.Abilities = AbilityCopy | AbilityDrop | AbilityStore
		case 1:
			h.Abilities = AbilityKey | AbilityStore
		default:
			return h, errors.InvalidEnum(errors.PhaseDecode, "struct_handles", flags, "resource flag")
		}
	} else {
		if AbilitySet(flags)&^abilityAll != 0 {
			return h, errors.InvalidEnum(errors.PhaseDecode, "struct_handles", flags, "ability set")
		}
		h.Abilities = AbilitySet(flags)
	}
	n, err := r.ReadULEBBounded(MaxTypeParameters)
	if err != nil {
		return h, err
	}
	for range n {
		constraints, err := d.readAbilities(r)
		if err != nil {
			return h, err
		}
		p := StructTypeParam{Constraints: constraints}
		if d.version >= 3 {
			phantom, err := r.ReadByte()
			if err != nil {
				return h, err
			}
			switch phantom {
			case 0:
			case 1:
				p.IsPhantom = true
			default:
				return h, errors.InvalidEnum(errors.PhaseDecode, "struct_handles", phantom, "phantom flag")
			}
		}
		h.TypeParams = append(h.TypeParams, p)
	}
	return h, nil
}

// readAbilities reads one type parameter constraint byte.
func (d *decoder) readAbilities(r *binary.Reader) (AbilitySet, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if d.version == 1 {
		// Version 1 kinds: 1 all, 2 copyable, 3 resource.
		switch b {
		case 1:
			return 0, nil
		case 2:
			return AbilityCopy | AbilityDrop, nil
		case 3:
			return AbilityKey, nil
		}
		return 0, errors.InvalidEnum(errors.PhaseDecode, "", b, "kind")
	}
	if AbilitySet(b)&^abilityAll != 0 {
		return 0, errors.InvalidEnum(errors.PhaseDecode, "", b, "ability set")
	}
	return AbilitySet(b), nil
}

func (d *decoder) readTypeParams(r *binary.Reader) ([]AbilitySet, error) {
	n, err := r.ReadULEBBounded(MaxTypeParameters)
	if err != nil {
		return nil, err
	}
	var params []AbilitySet
	for range n {
		a, err := d.readAbilities(r)
		if err != nil {
			return nil, err
		}
		params = append(params, a)
	}
	return params, nil
}

func (d *decoder) readFunctionHandle(r *binary.Reader) (FunctionHandle, error) {
	var h FunctionHandle
	var err error
	if h.Module, err = r.ReadIndex(); err != nil {
		return h, err
	}
	if h.Name, err = r.ReadIndex(); err != nil {
		return h, err
	}
	if h.Parameters, err = r.ReadIndex(); err != nil {
		return h, err
	}
	if h.Return, err = r.ReadIndex(); err != nil {
		return h, err
	}
	h.TypeParams, err = d.readTypeParams(r)
	return h, err
}

func readSignature(r *binary.Reader) (Signature, error) {
	n, err := r.ReadULEBBounded(MaxSignatureLength)
	if err != nil {
		return nil, err
	}
	sig := make(Signature, 0, n)
	for range n {
		tok, err := readToken(r, 0)
		if err != nil {
			return nil, err
		}
		sig = append(sig, tok)
	}
	return sig, nil
}

func readToken(r *binary.Reader, depth int) (SignatureToken, error) {
	if depth > MaxSignatureDepth {
		return SignatureToken{}, errors.New(errors.PhaseDecode, errors.KindOverflow).
			At(r.Position()).
			Detail("signature nesting exceeds %d", MaxSignatureDepth).
			Build()
	}
	pos := r.Position()
	tag, err := r.ReadByte()
	if err != nil {
		return SignatureToken{}, err
	}
	switch tag {
	case TagBool, TagU8, TagU16, TagU32, TagU64, TagU128, TagU256, TagAddress, TagSigner:
		return SignatureToken{Kind: TokenKind(tag)}, nil
	case TagVector, TagReference, TagMutReference:
		elem, err := readToken(r, depth+1)
		if err != nil {
			return SignatureToken{}, err
		}
		return SignatureToken{Kind: TokenKind(tag), Elem: &elem}, nil
	case TagStruct:
		idx, err := r.ReadIndex()
		return SignatureToken{Kind: TokenStruct, Index: idx}, err
	case TagStructInst:
		idx, err := r.ReadIndex()
		if err != nil {
			return SignatureToken{}, err
		}
		n, err := r.ReadULEBBounded(MaxTypeParameters)
		if err != nil {
			return SignatureToken{}, err
		}
		args := make([]SignatureToken, 0, n)
		for range n {
			arg, err := readToken(r, depth+1)
			if err != nil {
				return SignatureToken{}, err
			}
			args = append(args, arg)
		}
		return SignatureToken{Kind: TokenStructInst, Index: idx, TypeArgs: args}, nil
	case TagTypeParameter:
		idx, err := r.ReadIndex()
		return SignatureToken{Kind: TokenTypeParameter, Index: idx}, err
	}
	e := errors.InvalidEnum(errors.PhaseDecode, "", tag, "signature token")
	e.Offset, e.HasOffset = pos, true
	return SignatureToken{}, e
}

func (d *decoder) readFunctionDef(r *binary.Reader) (FunctionDef, error) {
	var f FunctionDef
	var err error
	if f.Handle, err = r.ReadIndex(); err != nil {
		return f, err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return f, err
	}
	if d.version == 1 {
		if flags&legacyFlagPublic != 0 {
			f.Visibility = VisibilityPublic
		}
		f.IsNative = flags&legacyFlagNative != 0
	} else {
		switch Visibility(flags) {
		case VisibilityPrivate, VisibilityPublic, VisibilityScript, VisibilityFriend:
			f.Visibility = Visibility(flags)
		default:
			return f, errors.InvalidEnum(errors.PhaseDecode, "function_defs", flags, "visibility")
		}
		extra, err := r.ReadByte()
		if err != nil {
			return f, err
		}
		if extra&^(FlagNative|FlagEntry) != 0 {
			return f, errors.InvalidEnum(errors.PhaseDecode, "function_defs", extra, "function flags")
		}
		f.IsNative = extra&FlagNative != 0
		f.IsEntry = extra&FlagEntry != 0
	}
	n, err := r.ReadULEBBounded(MaxFieldCount)
	if err != nil {
		return f, err
	}
	for range n {
		idx, err := r.ReadIndex()
		if err != nil {
			return f, err
		}
		f.Acquires = append(f.Acquires, idx)
	}
	if f.IsNative {
		return f, nil
	}
	code, err := readCodeUnit(r)
	if err != nil {
		return f, err
	}
	f.Code = &code
	return f, nil
}

func readCodeUnit(r *binary.Reader) (CodeUnit, error) {
	var c CodeUnit
	var err error
	if c.Locals, err = r.ReadIndex(); err != nil {
		return c, err
	}
	n, err := r.ReadULEBBounded(MaxCodeSize)
	if err != nil {
		return c, err
	}
	c.Code = make([]Instruction, 0, n)
	for range n {
		instr, err := readInstruction(r)
		if err != nil {
			return c, err
		}
		c.Code = append(c.Code, instr)
	}
	return c, nil
}

// readInstruction decodes one instruction and its immediate.
func readInstruction(r *binary.Reader) (Instruction, error) {
	pos := r.Position()
	b, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}
	op := Opcode(b)
	if !op.Known() {
		e := errors.InvalidEnum(errors.PhaseDecode, "code", b, "opcode")
		e.Offset, e.HasOffset = pos, true
		return Instruction{}, e
	}
	instr := Instruction{Opcode: op}
	switch opcodes[op].imm {
	case immNone:
	case immBranch:
		off, err := r.ReadIndex()
		if err != nil {
			return instr, err
		}
		instr.Imm = BranchImm{Offset: off}
	case immLocal:
		idx, err := r.ReadByte()
		if err != nil {
			return instr, err
		}
		instr.Imm = LocalImm{Index: idx}
	case immIndex:
		idx, err := r.ReadIndex()
		if err != nil {
			return instr, err
		}
		instr.Imm = IndexImm{Index: idx}
	case immVector:
		sig, err := r.ReadIndex()
		if err != nil {
			return instr, err
		}
		count, err := r.ReadU64LE()
		if err != nil {
			return instr, err
		}
		instr.Imm = VectorImm{Sig: sig, Count: count}
	case immU8:
		v, err := r.ReadByte()
		if err != nil {
			return instr, err
		}
		instr.Imm = U8Imm{Value: v}
	case immU16:
		v, err := r.ReadU16LE()
		if err != nil {
			return instr, err
		}
		instr.Imm = U16Imm{Value: v}
	case immU32:
		v, err := r.ReadU32LE()
		if err != nil {
			return instr, err
		}
		instr.Imm = U32Imm{Value: v}
	case immU64:
		v, err := r.ReadU64LE()
		if err != nil {
			return instr, err
		}
		instr.Imm = U64Imm{Value: v}
	case immU128:
		buf, err := r.ReadBytes(16)
		if err != nil {
			return instr, err
		}
		var imm U128Imm
		copy(imm.Value[:], buf)
		instr.Imm = imm
	case immU256:
		buf, err := r.ReadBytes(32)
		if err != nil {
			return instr, err
		}
		var imm U256Imm
		copy(imm.Value[:], buf)
		instr.Imm = imm
	}
	return instr, nil
}

func decodeModule(h *header, o options) (*CompiledModule, error) {
	d := &decoder{h: h, version: h.version, addrLen: o.addressLength}
	m := &CompiledModule{}
	if err := d.common(&m.Tables); err != nil {
		return nil, err
	}

	if err := d.table(TableStructDefs, func(r *binary.Reader) error {
		def, err := readStructDef(r)
		m.StructDefs = append(m.StructDefs, def)
		return err
	}); err != nil {
		return nil, err
	}
	if err := d.table(TableStructDefInst, func(r *binary.Reader) error {
		var si StructDefInstantiation
		var err error
		if si.Def, err = r.ReadIndex(); err != nil {
			return err
		}
		if si.TypeArgs, err = r.ReadIndex(); err != nil {
			return err
		}
		m.StructDefInstantiations = append(m.StructDefInstantiations, si)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := d.table(TableFunctionDefs, func(r *binary.Reader) error {
		def, err := d.readFunctionDef(r)
		m.FunctionDefs = append(m.FunctionDefs, def)
		return err
	}); err != nil {
		return nil, err
	}
	if err := d.table(TableFieldHandle, func(r *binary.Reader) error {
		var fh FieldHandle
		var err error
		if fh.Owner, err = r.ReadIndex(); err != nil {
			return err
		}
		if fh.Field, err = r.ReadIndex(); err != nil {
			return err
		}
		m.FieldHandles = append(m.FieldHandles, fh)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := d.table(TableFieldInst, func(r *binary.Reader) error {
		var fi FieldInstantiation
		var err error
		if fi.Handle, err = r.ReadIndex(); err != nil {
			return err
		}
		if fi.TypeArgs, err = r.ReadIndex(); err != nil {
			return err
		}
		m.FieldInstantiations = append(m.FieldInstantiations, fi)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := d.table(TableFriendDecls, func(r *binary.Reader) error {
		f, err := readModuleHandle(r)
		m.Friends = append(m.Friends, f)
		return err
	}); err != nil {
		return nil, err
	}

	r := binary.NewReader(h.trailer)
	if h.version >= 5 {
		self, err := r.ReadIndex()
		if err != nil {
			return nil, trailerError(h, r, err)
		}
		m.Self = self
	}
	if err := expectEnd(h, r); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func readStructDef(r *binary.Reader) (StructDef, error) {
	var def StructDef
	var err error
	if def.Handle, err = r.ReadIndex(); err != nil {
		return def, err
	}
	kind, err := r.ReadByte()
	if err != nil {
		return def, err
	}
	switch kind {
	case FieldsNative:
		def.Native = true
		return def, nil
	case FieldsDeclared:
	default:
		return def, errors.InvalidEnum(errors.PhaseDecode, "struct_defs", kind, "field information")
	}
	n, err := r.ReadULEBBounded(MaxFieldCount)
	if err != nil {
		return def, err
	}
	for range n {
		var f FieldDef
		if f.Name, err = r.ReadIndex(); err != nil {
			return def, err
		}
		if f.Type, err = readToken(r, 0); err != nil {
			return def, err
		}
		def.Fields = append(def.Fields, f)
	}
	return def, nil
}

func decodeScript(h *header, o options) (*CompiledScript, error) {
	d := &decoder{h: h, version: h.version, addrLen: o.addressLength}
	s := &CompiledScript{}
	if err := d.common(&s.Tables); err != nil {
		return nil, err
	}

	r := binary.NewReader(h.trailer)
	var err error
	if s.TypeParams, err = d.readTypeParams(r); err != nil {
		return nil, trailerError(h, r, err)
	}
	if s.Parameters, err = r.ReadIndex(); err != nil {
		return nil, trailerError(h, r, err)
	}
	if s.Code, err = readCodeUnit(r); err != nil {
		return nil, trailerError(h, r, err)
	}
	if err := expectEnd(h, r); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func trailerError(h *header, r *binary.Reader, err error) error {
	e := decodeError("trailer", r, err)
	if se, ok := e.(*errors.Error); ok {
		se.Offset, se.HasOffset = h.trailerOffset+r.Position(), true
	}
	return e
}

func expectEnd(h *header, r *binary.Reader) error {
	if r.Len() == 0 {
		return nil
	}
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Table("trailer").
		At(h.trailerOffset+r.Position()).
		Value(r.Len()).
		Detail("%d trailing bytes", r.Len()).
		Build()
}
