package translate

import (
	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
	"github.com/wippyai/move-decompiler/internal/locals"
)

// RegisterLocalHandlers registers local and reference access.
func RegisterLocalHandlers(r *Registry) {
	r.RegisterBulk([]bytecode.Opcode{bytecode.OpCopyLoc, bytecode.OpMoveLoc}, Func(readLocal))
	r.RegisterFunc(bytecode.OpStLoc, storeLocal)
	r.RegisterBulk([]bytecode.Opcode{bytecode.OpMutBorrowLoc, bytecode.OpImmBorrowLoc}, Func(borrowLocal))
	r.RegisterFunc(bytecode.OpPop, pop)
	r.RegisterFunc(bytecode.OpReadRef, func(ctx *Context, off int, _ bytecode.Instruction) error {
		ref := ctx.Stack.Pop(off)
		ctx.Stack.Push(&ast.Deref{Range: span(off, ref), Inner: ref})
		return nil
	})
	r.RegisterFunc(bytecode.OpWriteRef, func(ctx *Context, off int, _ bytecode.Instruction) error {
		ref := ctx.Stack.Pop(off)
		val := ctx.Stack.Pop(off)
		ctx.Emit(&ast.WriteRef{Range: span(off, ref, val), Ref: ref, Value: val})
		return nil
	})
	r.RegisterFunc(bytecode.OpFreezeRef, func(ctx *Context, off int, _ bytecode.Instruction) error {
		ref := ctx.Stack.Pop(off)
		ctx.Stack.Push(&ast.Freeze{Range: span(off, ref), Inner: ref})
		return nil
	})
	r.RegisterFunc(bytecode.OpNop, func(*Context, int, bytecode.Instruction) error { return nil })
}

// local resolves a local immediate and marks the slot used.
func (c *Context) local(off int, instr bytecode.Instruction) (*ast.LocalRead, error) {
	idx, ok := instr.Local()
	if !ok || !c.Locals().Use(int(idx)) {
		return nil, outOfBounds("locals", int(idx), c.Locals().Len())
	}
	return &ast.LocalRead{Range: ast.At(off), Locals: c.Locals(), Index: int(idx)}, nil
}

func readLocal(ctx *Context, off int, instr bytecode.Instruction) error {
	l, err := ctx.local(off, instr)
	if err != nil {
		return err
	}
	ctx.Stack.Push(l)
	return nil
}

func borrowLocal(ctx *Context, off int, instr bytecode.Instruction) error {
	l, err := ctx.local(off, instr)
	if err != nil {
		return err
	}
	ctx.Stack.Push(&ast.Borrow{Range: ast.At(off), Inner: l, Mut: instr.Opcode == bytecode.OpMutBorrowLoc})
	return nil
}

func storeLocal(ctx *Context, off int, instr bytecode.Instruction) error {
	idx, ok := instr.Local()
	if !ok || !ctx.Locals().Valid(int(idx)) {
		return outOfBounds("locals", int(idx), ctx.Locals().Len())
	}
	val := ctx.Stack.Pop(off)
	if !ast.IsValue(val) {
		ctx.Emit(&ast.Nop{Range: ast.At(off)})
		return nil
	}
	ctx.Locals().Use(int(idx))
	ctx.bind(off, int(idx), val)
	return nil
}

func pop(ctx *Context, off int, _ bytecode.Instruction) error {
	val := ctx.Stack.Pop(off)
	if !ast.IsValue(val) {
		ctx.Emit(&ast.Nop{Range: ast.At(off)})
		return nil
	}
	ctx.bind(off, -1, val)
	return nil
}

// merge is a destructuring binding still collecting the results of its source.
type merge struct {
	let    *ast.Let
	source ast.Expr
	filled []bool
}

// bind stores val into local slot, or discards it when slot is negative.
// Results of one multi-value source bound back to back are merged into a
// single tuple or struct pattern.
func (c *Context) bind(off, slot int, val ast.Expr) {
	target := ast.Target{Discard: slot < 0, Locals: c.Locals(), Index: slot}

	if cr, ok := val.(*ast.CallResult); ok && cr.Index >= 0 && cr.Index < cr.Count {
		m := c.merge
		if m == nil || m.source != cr.Source || m.filled[cr.Index] {
			m = c.openMerge(cr)
		}
		m.let.Targets[cr.Index] = target
		m.filled[cr.Index] = true
		m.let.Range.Start = min(m.let.Range.Start, off)
		m.let.Range.End = max(m.let.Range.End, off+1)
		if slot >= 0 && c.declare(slot) {
			m.let.Declare = true
		}
		return
	}

	let := &ast.Let{Range: span(off, val), Value: val, Targets: []ast.Target{target}}
	if slot < 0 {
		let.Declare = true
	} else {
		let.Declare = c.declare(slot)
	}
	c.Emit(let)
}

func (c *Context) openMerge(cr *ast.CallResult) *merge {
	let := &ast.Let{Range: cr.Span(), Targets: make([]ast.Target, cr.Count), Declare: c.depth == 0}
	for i := range let.Targets {
		let.Targets[i].Discard = true
	}
	if u, ok := cr.Source.(*ast.Unpack); ok {
		let.Struct = u.Type
		let.Fields = u.Fields
		let.Value = u.Value
	} else {
		let.Value = cr.Source
	}
	c.Emit(let)
	c.merge = &merge{let: let, source: cr.Source, filled: make([]bool, cr.Count)}
	return c.merge
}

// declare records the first write to a declared local. It reports whether
// the write should introduce the name with let; nested first writes are
// declared at the top level instead.
func (c *Context) declare(slot int) bool {
	d, ok := c.Locals().Get(slot)
	if !ok || d.Kind == locals.Param || c.fn.declared[slot] {
		return false
	}
	c.fn.declared[slot] = true
	if c.depth == 0 {
		return true
	}
	c.fn.hoisted = append(c.fn.hoisted, &ast.Declare{
		Target: ast.Target{Locals: c.Locals(), Index: slot},
		Type:   d.Type.String(),
	})
	return false
}
