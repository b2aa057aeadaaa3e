package ast

import (
	"io"
	"strconv"
	"strings"
)

// Literal is a constant rendered verbatim.
type Literal struct {
	Range
	Text string
}

func (n *Literal) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Literal) print(p *printer, _ int)              { p.str(n.Text) }

// LocalRead reads a parameter or local variable.
type LocalRead struct {
	Range
	Locals Namer
	Index  int
}

func (n *LocalRead) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *LocalRead) print(p *printer, _ int)              { p.str(n.Locals.Name(n.Index)) }

// Borrow takes a reference to a local.
type Borrow struct {
	Range
	Inner Expr
	Mut   bool
}

func (n *Borrow) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Borrow) print(p *printer, indent int) {
	if n.Mut {
		p.str("&mut ")
	} else {
		p.str("&")
	}
	printOperand(p, n.Inner, indent)
}

// FieldBorrow takes a reference to a field through a struct reference.
type FieldBorrow struct {
	Range
	Base  Expr
	Field string
	Mut   bool
}

func (n *FieldBorrow) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *FieldBorrow) print(p *printer, indent int) {
	if n.Mut {
		p.str("&mut ")
	} else {
		p.str("&")
	}
	printPlace(p, n, indent)
}

// printPlace prints the storage location a reference points at: &x is x and
// &r.f is r.f.
func printPlace(p *printer, e Expr, indent int) {
	switch n := e.(type) {
	case *Borrow:
		printOperand(p, n.Inner, indent)
	case *FieldBorrow:
		printPlace(p, n.Base, indent)
		p.str(".")
		p.str(n.Field)
	case *Freeze:
		printPlace(p, n.Inner, indent)
	default:
		printOperand(p, e, indent)
	}
}

// isPlaceRef reports whether a reference expression names a place directly.
func isPlaceRef(e Expr) bool {
	switch n := e.(type) {
	case *Borrow, *FieldBorrow:
		return true
	case *Freeze:
		return isPlaceRef(n.Inner)
	}
	return false
}

// Deref reads through a reference. *&x renders as x.
type Deref struct {
	Range
	Inner Expr
}

func (n *Deref) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Deref) print(p *printer, indent int) {
	if isPlaceRef(n.Inner) {
		printPlace(p, n.Inner, indent)
		return
	}
	p.str("*")
	printOperand(p, n.Inner, indent)
}

// Freeze converts a mutable reference to an immutable one.
type Freeze struct {
	Range
	Inner Expr
}

func (n *Freeze) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Freeze) print(p *printer, indent int) {
	p.str("freeze(")
	n.Inner.print(p, indent)
	p.str(")")
}

// BinOp is a binary operation. Operands that are themselves binary
// operations are always parenthesized.
type BinOp struct {
	Range
	Left  Expr
	Right Expr
	Op    string
}

func (n *BinOp) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *BinOp) print(p *printer, indent int) {
	printOperand(p, n.Left, indent)
	p.str(" ")
	p.str(n.Op)
	p.str(" ")
	printOperand(p, n.Right, indent)
}

func printOperand(p *printer, e Expr, indent int) {
	if _, ok := e.(*BinOp); ok {
		p.str("(")
		e.print(p, indent)
		p.str(")")
		return
	}
	e.print(p, indent)
}

// UnaryOp is a prefix operation such as logical not.
type UnaryOp struct {
	Range
	Inner Expr
	Op    string
}

func (n *UnaryOp) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *UnaryOp) print(p *printer, indent int) {
	p.str(n.Op)
	printOperand(p, n.Inner, indent)
}

// Not negates a condition, folding double negation.
func Not(e Expr) Expr {
	if u, ok := e.(*UnaryOp); ok && u.Op == "!" {
		return u.Inner
	}
	if b, ok := e.(*BinOp); ok {
		if inv, ok := inverse[b.Op]; ok {
			return &BinOp{Range: b.Range, Left: b.Left, Right: b.Right, Op: inv}
		}
	}
	return &UnaryOp{Range: e.Span(), Op: "!", Inner: e}
}

var inverse = map[string]string{
	"==": "!=",
	"!=": "==",
}

// Cast converts an integer to another width.
type Cast struct {
	Range
	Inner Expr
	Type  string
}

func (n *Cast) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Cast) print(p *printer, indent int) {
	p.str("(")
	printOperand(p, n.Inner, indent)
	p.str(" as ")
	p.str(n.Type)
	p.str(")")
}

// FieldValue is one field of a struct literal.
type FieldValue struct {
	Value Expr
	Name  string
}

// Pack builds a struct value.
type Pack struct {
	Range
	Type   string
	Fields []FieldValue
}

func (n *Pack) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Pack) print(p *printer, indent int) {
	p.str(n.Type)
	if len(n.Fields) == 0 {
		p.str(" {}")
		return
	}
	p.str(" { ")
	for i, f := range n.Fields {
		if i > 0 {
			p.str(", ")
		}
		p.str(f.Name)
		p.str(": ")
		f.Value.print(p, indent)
	}
	p.str(" }")
}

// Call invokes a function or builtin. Returns is the number of values the
// callee produces.
type Call struct {
	Range
	Name     string
	TypeArgs []string
	Args     []Expr
	Returns  int
}

func (n *Call) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Call) print(p *printer, indent int) {
	p.str(n.Name)
	if len(n.TypeArgs) > 0 {
		p.str("<")
		p.str(strings.Join(n.TypeArgs, ", "))
		p.str(">")
	}
	p.str("(")
	for i, a := range n.Args {
		if i > 0 {
			p.str(", ")
		}
		a.print(p, indent)
	}
	p.str(")")
}

// CallResult is one of several values produced by Source, such as one
// return of a multi-return call or one field of an unpack.
type CallResult struct {
	Range
	Source Expr
	Index  int
	Count  int
}

func (n *CallResult) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *CallResult) print(p *printer, indent int) {
	p.str("/*")
	p.str(strconv.Itoa(n.Index))
	p.str("*/")
	n.Source.print(p, indent)
}

// Unpack destructures a struct into its fields. It only appears as the
// source of CallResults and of struct-pattern bindings.
type Unpack struct {
	Range
	Value  Expr
	Type   string
	Fields []string
}

func (n *Unpack) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Unpack) print(p *printer, indent int) {
	n.Value.print(p, indent)
}

// VectorLit is a vector literal.
type VectorLit struct {
	Range
	Elem  string
	Items []Expr
}

func (n *VectorLit) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *VectorLit) print(p *printer, indent int) {
	if len(n.Items) == 0 {
		p.str("vector<")
		p.str(n.Elem)
		p.str(">[]")
		return
	}
	p.str("vector[")
	for i, item := range n.Items {
		if i > 0 {
			p.str(", ")
		}
		item.print(p, indent)
	}
	p.str("]")
}

// PlaceholderKind classifies a recovery placeholder.
type PlaceholderKind uint8

const (
	// PlaceholderUnrecognized replaces an instruction whose operands are invalid.
	PlaceholderUnrecognized PlaceholderKind = iota
	// PlaceholderResidual wraps a value left on the stack at a block end.
	PlaceholderResidual
	// PlaceholderUnderflow stands in for a value popped from an empty stack.
	PlaceholderUnderflow
)

// Placeholder marks a spot where translation recovered from bad input.
type Placeholder struct {
	Range
	Inner Expr
	Text  string
	Kind  PlaceholderKind
}

func (n *Placeholder) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Placeholder) print(p *printer, indent int) {
	switch n.Kind {
	case PlaceholderUnrecognized:
		p.str("/*unrecognized ")
		p.str(n.Text)
		p.str("*/")
	case PlaceholderResidual:
		p.str("/*residual*/ ")
		if n.Inner != nil {
			n.Inner.print(p, indent)
		}
	case PlaceholderUnderflow:
		p.str("/*stack underflow*/")
	}
}
