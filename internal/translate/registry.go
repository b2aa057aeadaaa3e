package translate

import "github.com/wippyai/move-decompiler/bytecode"

// Handler translates one instruction.
//
// Handlers are stateless and shared by every translation; all mutable state
// lives in the Context. A handler pops its operands from ctx.Stack, pushes
// at most a few results and emits statements through ctx.Emit. Returning
// an error marks the instruction unrecognized; the caller substitutes a
// placeholder and keeps going.
type Handler interface {
	Handle(ctx *Context, off int, instr bytecode.Instruction) error
}

// Func is an adapter to use ordinary functions as Handlers.
type Func func(ctx *Context, off int, instr bytecode.Instruction) error

// Handle implements Handler.
func (f Func) Handle(ctx *Context, off int, instr bytecode.Instruction) error {
	return f(ctx, off, instr)
}

// Registry maps opcodes to their handlers.
type Registry struct {
	handlers [256]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds or replaces the handler for op.
func (r *Registry) Register(op bytecode.Opcode, h Handler) {
	r.handlers[op] = h
}

// RegisterFunc registers a function as the handler for op.
func (r *Registry) RegisterFunc(op bytecode.Opcode, fn func(*Context, int, bytecode.Instruction) error) {
	r.Register(op, Func(fn))
}

// RegisterBulk registers the same handler for several opcodes.
func (r *Registry) RegisterBulk(ops []bytecode.Opcode, h Handler) {
	for _, op := range ops {
		r.handlers[op] = h
	}
}

// Get returns the handler for op, or nil.
func (r *Registry) Get(op bytecode.Opcode) Handler {
	return r.handlers[op]
}

// Has reports whether op has a handler.
func (r *Registry) Has(op bytecode.Opcode) bool {
	return r.handlers[op] != nil
}

// MissingHandlers returns the opcodes in ops that have no handler.
func (r *Registry) MissingHandlers(ops []bytecode.Opcode) []bytecode.Opcode {
	var missing []bytecode.Opcode
	for _, op := range ops {
		if r.handlers[op] == nil {
			missing = append(missing, op)
		}
	}
	return missing
}

// DefaultRegistry returns a registry with every non-branch opcode handled.
// Branches are resolved by the control-flow pass before dispatch.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterLoadHandlers(r)
	RegisterLocalHandlers(r)
	RegisterArithmeticHandlers(r)
	RegisterStructHandlers(r)
	RegisterGlobalHandlers(r)
	RegisterCallHandlers(r)
	RegisterVectorHandlers(r)
	RegisterTerminalHandlers(r)
	return r
}

var defaultRegistry = DefaultRegistry()
