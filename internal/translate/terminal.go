package translate

import (
	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
)

// RegisterTerminalHandlers registers Ret and Abort.
func RegisterTerminalHandlers(r *Registry) {
	r.RegisterFunc(bytecode.OpRet, func(ctx *Context, off int, _ bytecode.Instruction) error {
		values := ctx.Stack.PopN(off, ctx.Returns())
		ctx.Flush()
		ctx.Emit(&ast.Return{Range: span(off, values...), Values: values})
		return nil
	})
	r.RegisterFunc(bytecode.OpAbort, func(ctx *Context, off int, _ bytecode.Instruction) error {
		code := ctx.Stack.Pop(off)
		ctx.Flush()
		ctx.Emit(&ast.Abort{Range: span(off, code), Code: code})
		return nil
	})
}
