package translate

import (
	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
)

var binaryOps = map[bytecode.Opcode]string{
	bytecode.OpAdd:    "+",
	bytecode.OpSub:    "-",
	bytecode.OpMul:    "*",
	bytecode.OpMod:    "%",
	bytecode.OpDiv:    "/",
	bytecode.OpBitOr:  "|",
	bytecode.OpBitAnd: "&",
	bytecode.OpXor:    "^",
	bytecode.OpOr:     "||",
	bytecode.OpAnd:    "&&",
	bytecode.OpEq:     "==",
	bytecode.OpNeq:    "!=",
	bytecode.OpLt:     "<",
	bytecode.OpGt:     ">",
	bytecode.OpLe:     "<=",
	bytecode.OpGe:     ">=",
	bytecode.OpShl:    "<<",
	bytecode.OpShr:    ">>",
}

var casts = map[bytecode.Opcode]string{
	bytecode.OpCastU8:   "u8",
	bytecode.OpCastU16:  "u16",
	bytecode.OpCastU32:  "u32",
	bytecode.OpCastU64:  "u64",
	bytecode.OpCastU128: "u128",
	bytecode.OpCastU256: "u256",
}

// RegisterArithmeticHandlers registers binary operators, logical not and
// integer casts.
func RegisterArithmeticHandlers(r *Registry) {
	for op := range binaryOps {
		r.RegisterFunc(op, binaryOp)
	}
	for op := range casts {
		r.RegisterFunc(op, cast)
	}
	r.RegisterFunc(bytecode.OpNot, func(ctx *Context, off int, _ bytecode.Instruction) error {
		v := ctx.Stack.Pop(off)
		n := ast.Not(v)
		if u, ok := n.(*ast.UnaryOp); ok {
			u.Range = span(off, v)
		}
		ctx.Stack.Push(n)
		return nil
	})
}

func binaryOp(ctx *Context, off int, instr bytecode.Instruction) error {
	right := ctx.Stack.Pop(off)
	left := ctx.Stack.Pop(off)
	ctx.Stack.Push(&ast.BinOp{Range: span(off, left, right), Left: left, Right: right, Op: binaryOps[instr.Opcode]})
	return nil
}

func cast(ctx *Context, off int, instr bytecode.Instruction) error {
	v := ctx.Stack.Pop(off)
	ctx.Stack.Push(&ast.Cast{Range: span(off, v), Inner: v, Type: casts[instr.Opcode]})
	return nil
}
