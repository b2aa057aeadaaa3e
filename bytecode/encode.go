package bytecode

import (
	"fortio.org/safecast"

	"github.com/wippyai/move-decompiler/internal/binary"
	"github.com/wippyai/move-decompiler/errors"
)

type encodedTable struct {
	data []byte
	kind byte
}

// Encode encodes the module to the Move binary format.
func (m *CompiledModule) Encode() ([]byte, error) {
	version := m.encodeVersion()
	tables := encodeCommon(&m.Tables, version)

	if len(m.StructDefs) > 0 {
		w := binary.NewWriter()
		for _, def := range m.StructDefs {
			w.WriteIndex(def.Handle)
			if def.Native {
				w.Byte(FieldsNative)
				continue
			}
			w.Byte(FieldsDeclared)
			w.WriteULEB(uint64(len(def.Fields)))
			for _, f := range def.Fields {
				w.WriteIndex(f.Name)
				writeToken(w, f.Type)
			}
		}
		tables = append(tables, encodedTable{kind: TableStructDefs, data: w.Bytes()})
	}
	if len(m.StructDefInstantiations) > 0 {
		w := binary.NewWriter()
		for _, si := range m.StructDefInstantiations {
			w.WriteIndex(si.Def)
			w.WriteIndex(si.TypeArgs)
		}
		tables = append(tables, encodedTable{kind: TableStructDefInst, data: w.Bytes()})
	}
	if len(m.FunctionDefs) > 0 {
		w := binary.NewWriter()
		for _, def := range m.FunctionDefs {
			writeFunctionDef(w, def, version)
		}
		tables = append(tables, encodedTable{kind: TableFunctionDefs, data: w.Bytes()})
	}
	if len(m.FieldHandles) > 0 {
		w := binary.NewWriter()
		for _, fh := range m.FieldHandles {
			w.WriteIndex(fh.Owner)
			w.WriteIndex(fh.Field)
		}
		tables = append(tables, encodedTable{kind: TableFieldHandle, data: w.Bytes()})
	}
	if len(m.FieldInstantiations) > 0 {
		w := binary.NewWriter()
		for _, fi := range m.FieldInstantiations {
			w.WriteIndex(fi.Handle)
			w.WriteIndex(fi.TypeArgs)
		}
		tables = append(tables, encodedTable{kind: TableFieldInst, data: w.Bytes()})
	}
	if len(m.Friends) > 0 {
		w := binary.NewWriter()
		for _, f := range m.Friends {
			w.WriteIndex(f.Address)
			w.WriteIndex(f.Name)
		}
		tables = append(tables, encodedTable{kind: TableFriendDecls, data: w.Bytes()})
	}

	trailer := binary.NewWriter()
	if version >= 5 {
		trailer.WriteIndex(m.Self)
	}
	return encodeUnit(version, tables, trailer.Bytes())
}

// Encode encodes the script to the Move binary format.
func (s *CompiledScript) Encode() ([]byte, error) {
	version := s.encodeVersion()
	tables := encodeCommon(&s.Tables, version)

	trailer := binary.NewWriter()
	writeTypeParams(trailer, s.TypeParams, version)
	trailer.WriteIndex(s.Parameters)
	writeCodeUnit(trailer, s.Code)
	return encodeUnit(version, tables, trailer.Bytes())
}

func (t *Tables) encodeVersion() uint32 {
	if t.Version == 0 {
		return VersionMax
	}
	return t.Version
}

func encodeUnit(version uint32, tables []encodedTable, trailer []byte) ([]byte, error) {
	w := binary.NewWriter()
	w.WriteBytes(Magic[:])
	w.WriteU32LE(version)
	w.WriteULEB(uint64(len(tables)))

	var offset uint32
	for _, t := range tables {
		length, err := safecast.Conv[uint32](len(t.data))
		if err != nil {
			return nil, errors.New(errors.PhaseRender, errors.KindOverflow).
				Table(TableName(t.kind)).
				Cause(err).
				Detail("table too large").
				Build()
		}
		w.Byte(t.kind)
		w.WriteULEB(uint64(offset))
		w.WriteULEB(uint64(length))
		offset += length
	}
	for _, t := range tables {
		w.WriteBytes(t.data)
	}
	w.WriteBytes(trailer)
	return w.Bytes(), nil
}

func encodeCommon(t *Tables, version uint32) []encodedTable {
	var tables []encodedTable

	if len(t.ModuleHandles) > 0 {
		w := binary.NewWriter()
		for _, h := range t.ModuleHandles {
			w.WriteIndex(h.Address)
			w.WriteIndex(h.Name)
		}
		tables = append(tables, encodedTable{kind: TableModuleHandles, data: w.Bytes()})
	}
	if len(t.StructHandles) > 0 {
		w := binary.NewWriter()
		for _, h := range t.StructHandles {
			writeStructHandle(w, h, version)
		}
		tables = append(tables, encodedTable{kind: TableStructHandles, data: w.Bytes()})
	}
	if len(t.FunctionHandles) > 0 {
		w := binary.NewWriter()
		for _, h := range t.FunctionHandles {
			w.WriteIndex(h.Module)
			w.WriteIndex(h.Name)
			w.WriteIndex(h.Parameters)
			w.WriteIndex(h.Return)
			writeTypeParams(w, h.TypeParams, version)
		}
		tables = append(tables, encodedTable{kind: TableFunctionHandles, data: w.Bytes()})
	}
	if len(t.FunctionInstantiations) > 0 {
		w := binary.NewWriter()
		for _, fi := range t.FunctionInstantiations {
			w.WriteIndex(fi.Handle)
			w.WriteIndex(fi.TypeArgs)
		}
		tables = append(tables, encodedTable{kind: TableFunctionInst, data: w.Bytes()})
	}
	if len(t.Signatures) > 0 {
		w := binary.NewWriter()
		for _, sig := range t.Signatures {
			w.WriteULEB(uint64(len(sig)))
			for _, tok := range sig {
				writeToken(w, tok)
			}
		}
		tables = append(tables, encodedTable{kind: TableSignatures, data: w.Bytes()})
	}
	if len(t.Constants) > 0 {
		w := binary.NewWriter()
		for _, c := range t.Constants {
			writeToken(w, c.Type)
			w.WriteVecBytes(c.Data)
		}
		tables = append(tables, encodedTable{kind: TableConstantPool, data: w.Bytes()})
	}
	if len(t.Identifiers) > 0 {
		w := binary.NewWriter()
		for _, id := range t.Identifiers {
			w.WriteName(id)
		}
		tables = append(tables, encodedTable{kind: TableIdentifiers, data: w.Bytes()})
	}
	if len(t.AddressIdentifiers) > 0 {
		w := binary.NewWriter()
		for _, a := range t.AddressIdentifiers {
			w.WriteBytes(a)
		}
		tables = append(tables, encodedTable{kind: TableAddressIdentifiers, data: w.Bytes()})
	}
	if len(t.Metadata) > 0 {
		w := binary.NewWriter()
		for _, md := range t.Metadata {
			w.WriteVecBytes(md.Key)
			w.WriteVecBytes(md.Value)
		}
		tables = append(tables, encodedTable{kind: TableMetadata, data: w.Bytes()})
	}
	return tables
}

func writeStructHandle(w *binary.Writer, h StructHandle, version uint32) {
	w.WriteIndex(h.Module)
	w.WriteIndex(h.Name)
	if version == 1 {
		if h.Abilities.Has(AbilityKey) {
			w.Byte(1)
		} else {
			w.Byte(0)
		}
	} else {
		w.Byte(byte(h.Abilities))
	}
	w.WriteULEB(uint64(len(h.TypeParams)))
	for _, p := range h.TypeParams {
		writeAbilities(w, p.Constraints, version)
		if version >= 3 {
			if p.IsPhantom {
				w.Byte(1)
			} else {
				w.Byte(0)
			}
		}
	}
}

func writeAbilities(w *binary.Writer, a AbilitySet, version uint32) {
	if version != 1 {
		w.Byte(byte(a))
		return
	}
	switch {
	case a.Has(AbilityKey):
		w.Byte(3)
	case a.Has(AbilityCopy):
		w.Byte(2)
	default:
		w.Byte(1)
	}
}

func writeTypeParams(w *binary.Writer, params []AbilitySet, version uint32) {
	w.WriteULEB(uint64(len(params)))
	for _, p := range params {
		writeAbilities(w, p, version)
	}
}

func writeToken(w *binary.Writer, t SignatureToken) {
	w.Byte(byte(t.Kind))
	switch t.Kind {
	case TokenVector, TokenReference, TokenMutableReference:
		if t.Elem != nil {
			writeToken(w, *t.Elem)
		} else {
			w.Byte(TagBool)
		}
	case TokenStruct, TokenTypeParameter:
		w.WriteIndex(t.Index)
	case TokenStructInst:
		w.WriteIndex(t.Index)
		w.WriteULEB(uint64(len(t.TypeArgs)))
		for _, arg := range t.TypeArgs {
			writeToken(w, arg)
		}
	}
}

func writeFunctionDef(w *binary.Writer, def FunctionDef, version uint32) {
	w.WriteIndex(def.Handle)
	if version == 1 {
		var flags byte
		if def.Visibility == VisibilityPublic {
			flags |= legacyFlagPublic
		}
		if def.IsNative {
			flags |= legacyFlagNative
		}
		w.Byte(flags)
	} else {
		w.Byte(byte(def.Visibility))
		var flags byte
		if def.IsNative {
			flags |= FlagNative
		}
		if def.IsEntry {
			flags |= FlagEntry
		}
		w.Byte(flags)
	}
	w.WriteULEB(uint64(len(def.Acquires)))
	for _, a := range def.Acquires {
		w.WriteIndex(a)
	}
	if !def.IsNative {
		code := CodeUnit{}
		if def.Code != nil {
			code = *def.Code
		}
		writeCodeUnit(w, code)
	}
}

func writeCodeUnit(w *binary.Writer, c CodeUnit) {
	w.WriteIndex(c.Locals)
	w.WriteULEB(uint64(len(c.Code)))
	for _, instr := range c.Code {
		writeInstruction(w, instr)
	}
}

func writeInstruction(w *binary.Writer, instr Instruction) {
	w.Byte(byte(instr.Opcode))
	switch imm := instr.Imm.(type) {
	case BranchImm:
		w.WriteIndex(imm.Offset)
	case LocalImm:
		w.Byte(imm.Index)
	case IndexImm:
		w.WriteIndex(imm.Index)
	case VectorImm:
		w.WriteIndex(imm.Sig)
		w.WriteU64LE(imm.Count)
	case U8Imm:
		w.Byte(imm.Value)
	case U16Imm:
		w.WriteU16LE(imm.Value)
	case U32Imm:
		w.WriteU32LE(imm.Value)
	case U64Imm:
		w.WriteU64LE(imm.Value)
	case U128Imm:
		w.WriteBytes(imm.Value[:])
	case U256Imm:
		w.WriteBytes(imm.Value[:])
	}
}
