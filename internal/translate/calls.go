package translate

import (
	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
)

// RegisterCallHandlers registers function calls.
func RegisterCallHandlers(r *Registry) {
	r.RegisterBulk([]bytecode.Opcode{bytecode.OpCall, bytecode.OpCallGeneric}, Func(call))
}

// callee describes a resolved call target.
type callee struct {
	name     string
	typeArgs []string
	params   int
	returns  int
}

func (c *Context) callee(instr bytecode.Instruction) (callee, error) {
	t := c.Tables()
	idx, _ := instr.Index()
	var out callee
	if instr.Opcode == bytecode.OpCallGeneric {
		inst, ok := bytecode.At(t.FunctionInstantiations, idx)
		if !ok {
			return out, outOfBounds("function_instantiations", int(idx), len(t.FunctionInstantiations))
		}
		args, err := c.typeArgs(inst.TypeArgs)
		if err != nil {
			return out, err
		}
		out.typeArgs = args
		idx = inst.Handle
	}
	h, ok := bytecode.At(t.FunctionHandles, idx)
	if !ok {
		return out, outOfBounds("function_handles", int(idx), len(t.FunctionHandles))
	}
	name, ok := t.Identifier(h.Name)
	if !ok {
		return out, outOfBounds("identifiers", int(h.Name), len(t.Identifiers))
	}
	prefix, ok := c.Resolver().ModulePrefix(h.Module)
	if !ok {
		return out, outOfBounds("module_handles", int(h.Module), len(t.ModuleHandles))
	}
	params, ok := t.SignatureAt(h.Parameters)
	if !ok {
		return out, outOfBounds("signatures", int(h.Parameters), len(t.Signatures))
	}
	returns, ok := t.SignatureAt(h.Return)
	if !ok {
		return out, outOfBounds("signatures", int(h.Return), len(t.Signatures))
	}
	out.name = prefix + name
	out.params = len(params)
	out.returns = len(returns)
	return out, nil
}

func call(ctx *Context, off int, instr bytecode.Instruction) error {
	fn, err := ctx.callee(instr)
	if err != nil {
		return err
	}
	args := ctx.Stack.PopN(off, fn.params)
	ctx.invoke(&ast.Call{
		Range:    span(off, args...),
		Name:     fn.name,
		TypeArgs: fn.typeArgs,
		Args:     collapse(args),
		Returns:  fn.returns,
	})
	return nil
}

// invoke places a call by its result count: a statement when it returns
// nothing, a value when it returns one, individual results otherwise.
func (c *Context) invoke(call *ast.Call) {
	switch call.Returns {
	case 0:
		c.Emit(call)
	case 1:
		c.Stack.Push(call)
	default:
		pushResults(c, call, call.Returns)
	}
}

// collapse replaces a complete run of results from one call, passed in
// order, with the call itself.
func collapse(args []ast.Expr) []ast.Expr {
	var out []ast.Expr
	for i := 0; i < len(args); {
		cr, ok := args[i].(*ast.CallResult)
		if ok {
			_, ok = cr.Source.(*ast.Call)
		}
		if !ok || cr.Index != 0 || i+cr.Count > len(args) {
			out = append(out, args[i])
			i++
			continue
		}
		full := true
		for k := 1; k < cr.Count; k++ {
			next, ok := args[i+k].(*ast.CallResult)
			if !ok || next.Source != cr.Source || next.Index != k {
				full = false
				break
			}
		}
		if !full {
			out = append(out, args[i])
			i++
			continue
		}
		out = append(out, cr.Source)
		i += cr.Count
	}
	return out
}
