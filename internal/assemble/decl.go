package assemble

import (
	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
	"github.com/wippyai/move-decompiler/internal/locals"
	"github.com/wippyai/move-decompiler/internal/translate"
)

func (a *unit) structDecl(m *bytecode.CompiledModule, def bytecode.StructDef) (*ast.StructDecl, error) {
	h, ok := bytecode.At(m.StructHandles, def.Handle)
	if !ok {
		return nil, outOfBounds("struct_handles", int(def.Handle), len(m.StructHandles))
	}
	name, ok := m.Identifier(h.Name)
	if !ok {
		return nil, outOfBounds("identifiers", int(h.Name), len(m.Identifiers))
	}
	gens := a.generics.Struct(h.TypeParams)
	r := a.resolver.WithGenerics(gens)

	decl := &ast.StructDecl{
		Name:      name,
		Generics:  gens,
		Abilities: h.Abilities.Names(),
		Native:    def.Native,
	}
	for _, f := range def.Fields {
		fname, ok := m.Identifier(f.Name)
		if !ok {
			return nil, outOfBounds("identifiers", int(f.Name), len(m.Identifiers))
		}
		decl.Fields = append(decl.Fields, ast.FieldDecl{Name: fname, Type: r.Decode(f.Type).String()})
	}
	return decl, nil
}

// signature is everything needed to assemble one function, whether it
// comes from a module definition or a script.
type signature struct {
	code       *bytecode.CodeUnit
	name       string
	visibility string
	typeParams []bytecode.AbilitySet
	params     bytecode.Signature
	returns    bytecode.Signature
	acquires   []string
	entry      bool
	native     bool
}

func (a *unit) functionDecl(m *bytecode.CompiledModule, def bytecode.FunctionDef) (*ast.FunctionDecl, error) {
	h, ok := bytecode.At(m.FunctionHandles, def.Handle)
	if !ok {
		return nil, outOfBounds("function_handles", int(def.Handle), len(m.FunctionHandles))
	}
	name, ok := m.Identifier(h.Name)
	if !ok {
		return nil, outOfBounds("identifiers", int(h.Name), len(m.Identifiers))
	}
	params, ok := m.SignatureAt(h.Parameters)
	if !ok {
		return nil, outOfBounds("signatures", int(h.Parameters), len(m.Signatures))
	}
	returns, ok := m.SignatureAt(h.Return)
	if !ok {
		return nil, outOfBounds("signatures", int(h.Return), len(m.Signatures))
	}

	sig := signature{
		code:       def.Code,
		name:       name,
		visibility: visibility(def.Visibility),
		typeParams: h.TypeParams,
		params:     params,
		returns:    returns,
		entry:      def.IsEntry,
		native:     def.IsNative,
	}
	for _, idx := range def.Acquires {
		sd, ok := bytecode.At(m.StructDefs, idx)
		if !ok {
			return nil, outOfBounds("struct_defs", int(idx), len(m.StructDefs))
		}
		s, ok := a.resolver.StructName(sd.Handle)
		if !ok {
			return nil, outOfBounds("struct_handles", int(sd.Handle), len(m.StructHandles))
		}
		sig.acquires = append(sig.acquires, s)
	}
	return a.assembleFunction(sig)
}

// assembleFunction translates the body, then names the parameters. Names
// depend on which locals the body used, so the order matters.
func (a *unit) assembleFunction(sig signature) (*ast.FunctionDecl, error) {
	gens := a.generics.Function(sig.typeParams)
	r := a.resolver.WithGenerics(gens)
	bodiless := sig.native || sig.code == nil || a.opts.Light

	var vars bytecode.Signature
	if !bodiless {
		var ok bool
		if vars, ok = r.Unit().Common().SignatureAt(sig.code.Locals); !ok {
			return nil, outOfBounds("signatures", int(sig.code.Locals), len(r.Unit().Common().Signatures))
		}
	}
	tbl := locals.New(sig.params, vars, r.Decode)

	decl := &ast.FunctionDecl{
		Name:       sig.name,
		Visibility: sig.visibility,
		Generics:   gens,
		Acquires:   sig.acquires,
		Entry:      sig.entry,
		Native:     bodiless,
	}
	if bodiless {
		for i := range sig.params {
			tbl.Use(i)
		}
	} else {
		decl.Body = a.translator.Function(r, translate.Function{
			Locals:  tbl,
			Name:    sig.name,
			Code:    sig.code.Code,
			Returns: len(sig.returns),
		})
	}

	for i, t := range sig.params {
		decl.Params = append(decl.Params, ast.Param{Name: tbl.Name(i), Type: r.Decode(t).String()})
	}
	for _, t := range sig.returns {
		decl.Returns = append(decl.Returns, r.Decode(t).String())
	}
	return decl, nil
}

// visibility renders a visibility modifier; private functions have none.
func visibility(v bytecode.Visibility) string {
	if v == bytecode.VisibilityPrivate {
		return ""
	}
	return v.String()
}
