package translate

import (
	"strings"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
)

// RegisterStructHandlers registers struct construction, destructuring and
// field borrows.
func RegisterStructHandlers(r *Registry) {
	r.RegisterBulk([]bytecode.Opcode{bytecode.OpPack, bytecode.OpPackGeneric}, Func(pack))
	r.RegisterBulk([]bytecode.Opcode{bytecode.OpUnpack, bytecode.OpUnpackGeneric}, Func(unpack))
	r.RegisterBulk([]bytecode.Opcode{
		bytecode.OpMutBorrowField, bytecode.OpImmBorrowField,
		bytecode.OpMutBorrowFieldGeneric, bytecode.OpImmBorrowFieldGeneric,
	}, Func(borrowField))
}

// structDef resolves the struct definition an instruction refers to and
// renders its type, with type arguments for generic instructions.
func (c *Context) structDef(instr bytecode.Instruction) (bytecode.StructDef, string, error) {
	m, ok := c.Module()
	if !ok {
		return bytecode.StructDef{}, "", invalidData("struct_defs", "script has no struct definitions")
	}
	idx, _ := instr.Index()
	var args []string
	switch instr.Opcode {
	case bytecode.OpPackGeneric, bytecode.OpUnpackGeneric, bytecode.OpExistsGeneric,
		bytecode.OpMutBorrowGlobalGeneric, bytecode.OpImmBorrowGlobalGeneric,
		bytecode.OpMoveFromGeneric, bytecode.OpMoveToGeneric:
		inst, ok := bytecode.At(m.StructDefInstantiations, idx)
		if !ok {
			return bytecode.StructDef{}, "", outOfBounds("struct_def_instantiations", int(idx), len(m.StructDefInstantiations))
		}
		var err error
		if args, err = c.typeArgs(inst.TypeArgs); err != nil {
			return bytecode.StructDef{}, "", err
		}
		idx = inst.Def
	}
	def, ok := bytecode.At(m.StructDefs, idx)
	if !ok {
		return bytecode.StructDef{}, "", outOfBounds("struct_defs", int(idx), len(m.StructDefs))
	}
	name, ok := c.Resolver().StructName(def.Handle)
	if !ok {
		return bytecode.StructDef{}, "", outOfBounds("struct_handles", int(def.Handle), len(c.Tables().StructHandles))
	}
	return def, name + typeList(args), nil
}

// typeArgs renders the types of an instantiation signature.
func (c *Context) typeArgs(sig uint16) ([]string, error) {
	ts, ok := c.Resolver().Signature(sig)
	if !ok {
		return nil, outOfBounds("signatures", int(sig), len(c.Tables().Signatures))
	}
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out, nil
}

func typeList(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + strings.Join(args, ", ") + ">"
}

func (c *Context) fieldNames(def bytecode.StructDef) ([]string, error) {
	names := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		n, ok := c.Tables().Identifier(f.Name)
		if !ok {
			return nil, outOfBounds("identifiers", int(f.Name), len(c.Tables().Identifiers))
		}
		names[i] = n
	}
	return names, nil
}

func pack(ctx *Context, off int, instr bytecode.Instruction) error {
	def, name, err := ctx.structDef(instr)
	if err != nil {
		return err
	}
	fields, err := ctx.fieldNames(def)
	if err != nil {
		return err
	}
	values := ctx.Stack.PopN(off, len(fields))
	p := &ast.Pack{Range: span(off, values...), Type: name, Fields: make([]ast.FieldValue, len(fields))}
	for i, f := range fields {
		p.Fields[i] = ast.FieldValue{Name: f, Value: values[i]}
	}
	ctx.Stack.Push(p)
	return nil
}

func unpack(ctx *Context, off int, instr bytecode.Instruction) error {
	def, name, err := ctx.structDef(instr)
	if err != nil {
		return err
	}
	fields, err := ctx.fieldNames(def)
	if err != nil {
		return err
	}
	v := ctx.Stack.Pop(off)
	u := &ast.Unpack{Range: span(off, v), Value: v, Type: name, Fields: fields}
	if len(fields) == 0 {
		ctx.Emit(&ast.Let{Range: u.Range, Value: v, Struct: name, Declare: true})
		return nil
	}
	pushResults(ctx, u, len(fields))
	return nil
}

// pushResults pushes the n values produced by src.
func pushResults(ctx *Context, src ast.Expr, n int) {
	for i := range n {
		ctx.Stack.Push(&ast.CallResult{Range: src.Span(), Source: src, Index: i, Count: n})
	}
}

// field resolves a field handle immediate to the field's name.
func (c *Context) field(instr bytecode.Instruction) (string, error) {
	m, ok := c.Module()
	if !ok {
		return "", invalidData("field_handles", "script has no field handles")
	}
	idx, _ := instr.Index()
	if instr.Opcode == bytecode.OpMutBorrowFieldGeneric || instr.Opcode == bytecode.OpImmBorrowFieldGeneric {
		inst, ok := bytecode.At(m.FieldInstantiations, idx)
		if !ok {
			return "", outOfBounds("field_instantiations", int(idx), len(m.FieldInstantiations))
		}
		idx = inst.Handle
	}
	fh, ok := bytecode.At(m.FieldHandles, idx)
	if !ok {
		return "", outOfBounds("field_handles", int(idx), len(m.FieldHandles))
	}
	def, ok := bytecode.At(m.StructDefs, fh.Owner)
	if !ok {
		return "", outOfBounds("struct_defs", int(fh.Owner), len(m.StructDefs))
	}
	fd, ok := bytecode.At(def.Fields, fh.Field)
	if !ok {
		return "", outOfBounds("fields", int(fh.Field), len(def.Fields))
	}
	name, ok := c.Tables().Identifier(fd.Name)
	if !ok {
		return "", outOfBounds("identifiers", int(fd.Name), len(c.Tables().Identifiers))
	}
	return name, nil
}

func borrowField(ctx *Context, off int, instr bytecode.Instruction) error {
	name, err := ctx.field(instr)
	if err != nil {
		return err
	}
	base := ctx.Stack.Pop(off)
	mut := instr.Opcode == bytecode.OpMutBorrowField || instr.Opcode == bytecode.OpMutBorrowFieldGeneric
	ctx.Stack.Push(&ast.FieldBorrow{Range: span(off, base), Base: base, Field: name, Mut: mut})
	return nil
}
