package translate

import (
	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
)

// maxVectorOperands bounds the element count of VecPack and VecUnpack.
const maxVectorOperands = 1 << 16

// vectorCalls maps vector opcodes to their library function and operand
// and result counts.
var vectorCalls = map[bytecode.Opcode]struct {
	name    string
	args    int
	returns int
}{
	bytecode.OpVecLen:       {"vector::length", 1, 1},
	bytecode.OpVecImmBorrow: {"vector::borrow", 2, 1},
	bytecode.OpVecMutBorrow: {"vector::borrow_mut", 2, 1},
	bytecode.OpVecPushBack:  {"vector::push_back", 2, 0},
	bytecode.OpVecPopBack:   {"vector::pop_back", 1, 1},
	bytecode.OpVecSwap:      {"vector::swap", 3, 0},
}

// RegisterVectorHandlers registers vector builtins.
func RegisterVectorHandlers(r *Registry) {
	for op := range vectorCalls {
		r.RegisterFunc(op, vectorCall)
	}
	r.RegisterFunc(bytecode.OpVecPack, vectorPack)
	r.RegisterFunc(bytecode.OpVecUnpack, vectorUnpack)
}

// elemType renders the element type named by a vector instruction.
func (c *Context) elemType(instr bytecode.Instruction) (string, error) {
	idx, _ := instr.Index()
	ts, ok := c.Resolver().Signature(idx)
	if !ok {
		return "", outOfBounds("signatures", int(idx), len(c.Tables().Signatures))
	}
	if len(ts) != 1 {
		return "", invalidData("signatures", "vector instruction needs exactly one type")
	}
	return ts[0].String(), nil
}

// vectorCount returns the element count of VecPack or VecUnpack.
func vectorCount(instr bytecode.Instruction) (int, error) {
	v, ok := instr.Imm.(bytecode.VectorImm)
	if !ok || v.Count > maxVectorOperands {
		return 0, invalidData("code", "vector element count out of range")
	}
	return int(v.Count), nil
}

func vectorCall(ctx *Context, off int, instr bytecode.Instruction) error {
	if _, err := ctx.elemType(instr); err != nil {
		return err
	}
	vc := vectorCalls[instr.Opcode]
	args := ctx.Stack.PopN(off, vc.args)
	ctx.invoke(&ast.Call{Range: span(off, args...), Name: vc.name, Args: args, Returns: vc.returns})
	return nil
}

func vectorPack(ctx *Context, off int, instr bytecode.Instruction) error {
	elem, err := ctx.elemType(instr)
	if err != nil {
		return err
	}
	n, err := vectorCount(instr)
	if err != nil {
		return err
	}
	items := ctx.Stack.PopN(off, n)
	ctx.Stack.Push(&ast.VectorLit{Range: span(off, items...), Elem: elem, Items: items})
	return nil
}

func vectorUnpack(ctx *Context, off int, instr bytecode.Instruction) error {
	elem, err := ctx.elemType(instr)
	if err != nil {
		return err
	}
	n, err := vectorCount(instr)
	if err != nil {
		return err
	}
	v := ctx.Stack.Pop(off)
	ctx.invoke(&ast.Call{
		Range:    span(off, v),
		Name:     "vector::unpack",
		TypeArgs: []string{elem},
		Args:     []ast.Expr{v},
		Returns:  n,
	})
	return nil
}
