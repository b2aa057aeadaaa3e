package translate

import (
	"go.uber.org/zap"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/errors"
	"github.com/wippyai/move-decompiler/internal/ast"
	"github.com/wippyai/move-decompiler/internal/cursor"
	"github.com/wippyai/move-decompiler/internal/locals"
	"github.com/wippyai/move-decompiler/internal/types"
)

// Function is one code unit to translate.
type Function struct {
	Locals  *locals.Table
	Name    string
	Code    []bytecode.Instruction
	Returns int
}

// Translator turns code units into statement blocks. It holds no
// per-function state and may be shared between goroutines.
type Translator struct {
	registry *Registry
	log      *zap.Logger
}

// New creates a Translator that reports recoveries to log.
func New(log *zap.Logger) *Translator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Translator{registry: defaultRegistry, log: log}
}

// WithRegistry returns a copy of t dispatching through r.
func (t *Translator) WithRegistry(r *Registry) *Translator {
	c := *t
	c.registry = r
	return &c
}

// Function translates fn in the context of r. It never fails: instructions
// it cannot make sense of become placeholders.
func (t *Translator) Function(r *types.Resolver, fn Function) *ast.Block {
	f := &function{
		Function: fn,
		resolver: r,
		tables:   r.Unit().Common(),
		registry: t.registry,
		log:      t.log.With(zap.String("func", fn.Name)),
		cur:      cursor.New(fn.Code),
		declared: make([]bool, fn.Locals.Len()),
	}
	if m, ok := r.Unit().(*bytecode.CompiledModule); ok {
		f.module = m
	}
	f.scanLoops()
	return f.body()
}

// function is the state shared by every block of one translation.
type function struct {
	Function
	resolver *types.Resolver
	tables   *bytecode.Tables
	module   *bytecode.CompiledModule
	registry *Registry
	log      *zap.Logger
	cur      *cursor.Cursor
	loops    map[int]int
	hops     map[int]int
	declared []bool
	hoisted  []ast.Expr
}

// Context is the translation state of one block, handed to handlers.
type Context struct {
	fn    *function
	Stack *Stack
	Block *ast.Block
	merge *merge
	depth int
}

func (f *function) context(depth int) *Context {
	return &Context{fn: f, Stack: NewStack(), Block: &ast.Block{}, depth: depth}
}

// Resolver decodes types in scope of the function.
func (c *Context) Resolver() *types.Resolver {
	return c.fn.resolver
}

// Locals is the function's local table.
func (c *Context) Locals() *locals.Table {
	return c.fn.Locals
}

// Tables are the unit's shared tables.
func (c *Context) Tables() *bytecode.Tables {
	return c.fn.tables
}

// Module returns the enclosing module; scripts have none.
func (c *Context) Module() (*bytecode.CompiledModule, bool) {
	return c.fn.module, c.fn.module != nil
}

// Returns is the declared return count of the function.
func (c *Context) Returns() int {
	return c.fn.Returns
}

// Emit appends a statement to the block. At the top level, declarations
// hoisted out of nested blocks are placed first.
func (c *Context) Emit(stmt ast.Expr) {
	if c.depth == 0 && len(c.fn.hoisted) > 0 {
		c.Block.Append(c.fn.hoisted...)
		c.fn.hoisted = nil
	}
	c.Block.Append(stmt)
	c.merge = nil
}

// Flush turns values left on the stack into statements so they are not lost.
func (c *Context) Flush() {
	for _, v := range c.Stack.Drain() {
		if p, ok := v.(*ast.Placeholder); ok && p.Kind == ast.PlaceholderUnrecognized {
			c.Emit(p)
			continue
		}
		if !ast.IsValue(v) {
			continue
		}
		c.fn.log.Debug("residual stack value", zap.Int("offset", v.Span().Start))
		c.Emit(&ast.Placeholder{Range: v.Span(), Kind: ast.PlaceholderResidual, Inner: v})
	}
}

// span covers off and the instructions that produced operands.
func span(off int, operands ...ast.Expr) ast.Range {
	r := ast.At(off)
	for _, o := range operands {
		if o == nil {
			continue
		}
		if s := o.Span(); s.End > s.Start && s.Start < r.Start {
			r.Start = s.Start
		}
	}
	return r
}

func outOfBounds(table string, index, length int) error {
	return errors.OutOfBounds(errors.PhaseTranslate, []string{table}, index, length)
}

func invalidData(table, detail string) error {
	return errors.InvalidData(errors.PhaseTranslate, []string{table}, detail)
}
