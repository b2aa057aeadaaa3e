package translate

import (
	"strconv"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
)

// RegisterLoadHandlers registers literal and constant loads.
func RegisterLoadHandlers(r *Registry) {
	r.RegisterBulk([]bytecode.Opcode{
		bytecode.OpLdU8, bytecode.OpLdU16, bytecode.OpLdU32, bytecode.OpLdU64,
		bytecode.OpLdU128, bytecode.OpLdU256,
	}, Func(loadInt))
	r.RegisterFunc(bytecode.OpLdTrue, func(ctx *Context, off int, _ bytecode.Instruction) error {
		ctx.Stack.Push(&ast.Literal{Range: ast.At(off), Text: "true"})
		return nil
	})
	r.RegisterFunc(bytecode.OpLdFalse, func(ctx *Context, off int, _ bytecode.Instruction) error {
		ctx.Stack.Push(&ast.Literal{Range: ast.At(off), Text: "false"})
		return nil
	})
	r.RegisterFunc(bytecode.OpLdConst, loadConst)
}

func loadInt(ctx *Context, off int, instr bytecode.Instruction) error {
	var text string
	switch imm := instr.Imm.(type) {
	case bytecode.U8Imm:
		text = strconv.FormatUint(uint64(imm.Value), 10)
	case bytecode.U16Imm:
		text = strconv.FormatUint(uint64(imm.Value), 10)
	case bytecode.U32Imm:
		text = strconv.FormatUint(uint64(imm.Value), 10)
	case bytecode.U64Imm:
		text = strconv.FormatUint(imm.Value, 10)
	case bytecode.U128Imm:
		text = wideInt(imm.Value[:])
	case bytecode.U256Imm:
		text = wideInt(imm.Value[:])
	default:
		return invalidData("code", "missing immediate")
	}
	ctx.Stack.Push(&ast.Literal{Range: ast.At(off), Text: text})
	return nil
}

func loadConst(ctx *Context, off int, instr bytecode.Instruction) error {
	idx, _ := instr.Index()
	pool := ctx.Tables().Constants
	k, ok := bytecode.At(pool, idx)
	if !ok {
		return outOfBounds("constant_pool", int(idx), len(pool))
	}
	text, err := constantText(ctx.Tables(), k)
	if err != nil {
		return err
	}
	ctx.Stack.Push(&ast.Literal{Range: ast.At(off), Text: text})
	return nil
}
