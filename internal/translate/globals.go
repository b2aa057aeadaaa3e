package translate

import (
	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
)

var globalBuiltins = map[bytecode.Opcode]string{
	bytecode.OpExists:                 "exists",
	bytecode.OpExistsGeneric:          "exists",
	bytecode.OpImmBorrowGlobal:        "borrow_global",
	bytecode.OpImmBorrowGlobalGeneric: "borrow_global",
	bytecode.OpMutBorrowGlobal:        "borrow_global_mut",
	bytecode.OpMutBorrowGlobalGeneric: "borrow_global_mut",
	bytecode.OpMoveFrom:               "move_from",
	bytecode.OpMoveFromGeneric:        "move_from",
}

// RegisterGlobalHandlers registers global storage operators. They render as
// the builtin calls of the source language.
func RegisterGlobalHandlers(r *Registry) {
	for op := range globalBuiltins {
		r.RegisterFunc(op, globalRead)
	}
	r.RegisterBulk([]bytecode.Opcode{bytecode.OpMoveTo, bytecode.OpMoveToGeneric}, Func(moveTo))
}

func globalRead(ctx *Context, off int, instr bytecode.Instruction) error {
	_, name, err := ctx.structDef(instr)
	if err != nil {
		return err
	}
	addr := ctx.Stack.Pop(off)
	ctx.Stack.Push(&ast.Call{
		Range:    span(off, addr),
		Name:     globalBuiltins[instr.Opcode],
		TypeArgs: []string{name},
		Args:     []ast.Expr{addr},
		Returns:  1,
	})
	return nil
}

func moveTo(ctx *Context, off int, instr bytecode.Instruction) error {
	_, name, err := ctx.structDef(instr)
	if err != nil {
		return err
	}
	val := ctx.Stack.Pop(off)
	signer := ctx.Stack.Pop(off)
	ctx.Emit(&ast.Call{
		Range:    span(off, signer, val),
		Name:     "move_to",
		TypeArgs: []string{name},
		Args:     []ast.Expr{signer, val},
	})
	return nil
}
