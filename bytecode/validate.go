package bytecode

import (
	"strconv"

	"github.com/wippyai/move-decompiler/errors"
)

// Validate checks that every table cross-reference is in range.
// Instruction immediates are not checked here; the translator degrades on them.
func (m *CompiledModule) Validate() error {
	if err := m.Tables.validate(); err != nil {
		return err
	}
	if err := m.validateSelf(); err != nil {
		return err
	}
	if err := m.validateStructDefs(); err != nil {
		return err
	}
	if err := m.validateFunctionDefs(); err != nil {
		return err
	}
	if err := m.validateFields(); err != nil {
		return err
	}
	return m.validateFriends()
}

// Validate checks that every table cross-reference is in range.
func (s *CompiledScript) Validate() error {
	if err := s.Tables.validate(); err != nil {
		return err
	}
	if err := checkIndex("signatures", len(s.Signatures), s.Parameters, "parameters"); err != nil {
		return err
	}
	return checkIndex("signatures", len(s.Signatures), s.Code.Locals, "code", "locals")
}

func checkIndex(table string, length int, idx uint16, path ...string) error {
	if int(idx) < length {
		return nil
	}
	e := errors.OutOfBounds(errors.PhaseValidate, path, int(idx), length)
	e.Table = table
	return e
}

func elem(table string, i int, field string) []string {
	return []string{table, strconv.Itoa(i), field}
}

func (t *Tables) validate() error {
	nIdent := len(t.Identifiers)
	nAddr := len(t.AddressIdentifiers)
	nSig := len(t.Signatures)

	for i, h := range t.ModuleHandles {
		if err := checkIndex("address_identifiers", nAddr, h.Address, elem("module_handles", i, "address")...); err != nil {
			return err
		}
		if err := checkIndex("identifiers", nIdent, h.Name, elem("module_handles", i, "name")...); err != nil {
			return err
		}
	}
	for i, h := range t.StructHandles {
		if err := checkIndex("module_handles", len(t.ModuleHandles), h.Module, elem("struct_handles", i, "module")...); err != nil {
			return err
		}
		if err := checkIndex("identifiers", nIdent, h.Name, elem("struct_handles", i, "name")...); err != nil {
			return err
		}
	}
	for i, h := range t.FunctionHandles {
		if err := checkIndex("module_handles", len(t.ModuleHandles), h.Module, elem("function_handles", i, "module")...); err != nil {
			return err
		}
		if err := checkIndex("identifiers", nIdent, h.Name, elem("function_handles", i, "name")...); err != nil {
			return err
		}
		if err := checkIndex("signatures", nSig, h.Parameters, elem("function_handles", i, "parameters")...); err != nil {
			return err
		}
		if err := checkIndex("signatures", nSig, h.Return, elem("function_handles", i, "return")...); err != nil {
			return err
		}
	}
	for i, fi := range t.FunctionInstantiations {
		if err := checkIndex("function_handles", len(t.FunctionHandles), fi.Handle, elem("function_instantiations", i, "handle")...); err != nil {
			return err
		}
		if err := checkIndex("signatures", nSig, fi.TypeArgs, elem("function_instantiations", i, "type_args")...); err != nil {
			return err
		}
	}
	for i, sig := range t.Signatures {
		for j, tok := range sig {
			if err := t.validateToken(tok, "signatures", strconv.Itoa(i), strconv.Itoa(j)); err != nil {
				return err
			}
		}
	}
	for i, c := range t.Constants {
		if err := t.validateToken(c.Type, "constant_pool", strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tables) validateToken(tok SignatureToken, path ...string) error {
	switch tok.Kind {
	case TokenStruct:
		return checkIndex("struct_handles", len(t.StructHandles), tok.Index, path...)
	case TokenStructInst:
		if err := checkIndex("struct_handles", len(t.StructHandles), tok.Index, path...); err != nil {
			return err
		}
		for _, arg := range tok.TypeArgs {
			if err := t.validateToken(arg, path...); err != nil {
				return err
			}
		}
	case TokenVector, TokenReference, TokenMutableReference:
		if tok.Elem == nil {
			return errors.InvalidData(errors.PhaseValidate, path, "missing element type")
		}
		return t.validateToken(*tok.Elem, path...)
	}
	return nil
}

func (m *CompiledModule) validateSelf() error {
	return checkIndex("module_handles", len(m.ModuleHandles), m.Self, "self_module_handle")
}

func (m *CompiledModule) validateStructDefs() error {
	for i, def := range m.StructDefs {
		if err := checkIndex("struct_handles", len(m.StructHandles), def.Handle, elem("struct_defs", i, "handle")...); err != nil {
			return err
		}
		for j, f := range def.Fields {
			path := []string{"struct_defs", strconv.Itoa(i), "fields", strconv.Itoa(j)}
			if err := checkIndex("identifiers", len(m.Identifiers), f.Name, path...); err != nil {
				return err
			}
			if err := m.validateToken(f.Type, path...); err != nil {
				return err
			}
		}
	}
	for i, si := range m.StructDefInstantiations {
		if err := checkIndex("struct_defs", len(m.StructDefs), si.Def, elem("struct_def_instantiations", i, "def")...); err != nil {
			return err
		}
		if err := checkIndex("signatures", len(m.Signatures), si.TypeArgs, elem("struct_def_instantiations", i, "type_args")...); err != nil {
			return err
		}
	}
	return nil
}

func (m *CompiledModule) validateFunctionDefs() error {
	for i, def := range m.FunctionDefs {
		if err := checkIndex("function_handles", len(m.FunctionHandles), def.Handle, elem("function_defs", i, "handle")...); err != nil {
			return err
		}
		for _, a := range def.Acquires {
			if err := checkIndex("struct_defs", len(m.StructDefs), a, elem("function_defs", i, "acquires")...); err != nil {
				return err
			}
		}
		if def.Code != nil {
			if err := checkIndex("signatures", len(m.Signatures), def.Code.Locals, elem("function_defs", i, "locals")...); err != nil {
				return err
			}
		} else if !def.IsNative {
			return errors.InvalidData(errors.PhaseValidate, elem("function_defs", i, "code"), "non-native function without code")
		}
	}
	return nil
}

func (m *CompiledModule) validateFields() error {
	for i, fh := range m.FieldHandles {
		path := elem("field_handles", i, "owner")
		if err := checkIndex("struct_defs", len(m.StructDefs), fh.Owner, path...); err != nil {
			return err
		}
		owner := m.StructDefs[fh.Owner]
		if err := checkIndex("fields", len(owner.Fields), fh.Field, elem("field_handles", i, "field")...); err != nil {
			return err
		}
	}
	for i, fi := range m.FieldInstantiations {
		if err := checkIndex("field_handles", len(m.FieldHandles), fi.Handle, elem("field_instantiations", i, "handle")...); err != nil {
			return err
		}
		if err := checkIndex("signatures", len(m.Signatures), fi.TypeArgs, elem("field_instantiations", i, "type_args")...); err != nil {
			return err
		}
	}
	return nil
}

func (m *CompiledModule) validateFriends() error {
	for i, f := range m.Friends {
		if err := checkIndex("address_identifiers", len(m.AddressIdentifiers), f.Address, elem("friend_decls", i, "address")...); err != nil {
			return err
		}
		if err := checkIndex("identifiers", len(m.Identifiers), f.Name, elem("friend_decls", i, "name")...); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUnit validates either unit kind.
func ValidateUnit(u Unit) error {
	switch v := u.(type) {
	case *CompiledModule:
		return v.Validate()
	case *CompiledScript:
		return v.Validate()
	}
	return errors.InvalidInput(errors.PhaseValidate, "unknown unit type")
}
