package ast

import "io"

// Block is a braced statement list.
type Block struct {
	Range
	Stmts []Expr
}

func (n *Block) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Block) print(p *printer, indent int) {
	last := -1
	for i, s := range n.Stmts {
		if _, nop := s.(*Nop); !nop {
			last = i
		}
	}
	if last < 0 {
		p.str("{\n")
		p.pad(indent)
		p.str("}")
		return
	}
	p.str("{\n")
	n.printStmts(p, indent+1, last)
	p.pad(indent)
	p.str("}")
}

// printStmts prints one statement per line. Every statement except the
// last gets a semicolon; declarations always do.
func (n *Block) printStmts(p *printer, indent, last int) {
	for i, s := range n.Stmts {
		if _, nop := s.(*Nop); nop {
			continue
		}
		p.pad(indent)
		s.print(p, indent)
		if i != last || terminated(s) {
			p.str(";")
		}
		p.str("\n")
	}
}

// Append adds statements to the block.
func (n *Block) Append(stmts ...Expr) {
	n.Stmts = append(n.Stmts, stmts...)
}

// Last returns the final non-nop statement, or nil.
func (n *Block) Last() Expr {
	for i := len(n.Stmts) - 1; i >= 0; i-- {
		if _, nop := n.Stmts[i].(*Nop); !nop {
			return n.Stmts[i]
		}
	}
	return nil
}

// Target is one binding destination in a let or assignment.
type Target struct {
	Locals  Namer
	Index   int
	Discard bool
}

func (t Target) name() string {
	if t.Discard || t.Locals == nil {
		return "_"
	}
	return t.Locals.Name(t.Index)
}

// Let binds or assigns values. With Struct set it destructures a struct:
// Fields[i] is bound to Targets[i].
type Let struct {
	Range
	Value   Expr
	Struct  string
	Fields  []string
	Targets []Target
	Declare bool
}

func (n *Let) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Let) print(p *printer, indent int) {
	if n.Declare {
		p.str("let ")
	}
	switch {
	case n.Struct != "":
		p.str(n.Struct)
		if len(n.Targets) == 0 {
			p.str(" {}")
			break
		}
		p.str(" { ")
		for i, t := range n.Targets {
			if i > 0 {
				p.str(", ")
			}
			if i < len(n.Fields) {
				p.str(n.Fields[i])
				p.str(": ")
			}
			p.str(t.name())
		}
		p.str(" }")
	case len(n.Targets) == 1:
		p.str(n.Targets[0].name())
	default:
		p.str("(")
		for i, t := range n.Targets {
			if i > 0 {
				p.str(", ")
			}
			p.str(t.name())
		}
		p.str(")")
	}
	p.str(" = ")
	n.Value.print(p, indent)
}

// Declare introduces a local before its first assignment.
type Declare struct {
	Range
	Type   string
	Target Target
}

func (n *Declare) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Declare) print(p *printer, _ int) {
	p.str("let ")
	p.str(n.Target.name())
	if n.Type != "" {
		p.str(": ")
		p.str(n.Type)
	}
}

// WriteRef stores through a reference. *&x = v renders as x = v.
type WriteRef struct {
	Range
	Ref   Expr
	Value Expr
}

func (n *WriteRef) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *WriteRef) print(p *printer, indent int) {
	if isPlaceRef(n.Ref) {
		printPlace(p, n.Ref, indent)
	} else {
		p.str("*")
		printOperand(p, n.Ref, indent)
	}
	p.str(" = ")
	n.Value.print(p, indent)
}

// Return leaves the function. An implicit return is represented by its
// values appearing as the final statement instead.
type Return struct {
	Range
	Values []Expr
}

func (n *Return) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Return) print(p *printer, indent int) {
	p.str("return")
	if len(n.Values) == 0 {
		return
	}
	p.str(" ")
	printTuple(p, n.Values, indent)
}

// Tuple renders several values as (a, b); it is used for implicit multi-value returns.
type Tuple struct {
	Range
	Values []Expr
}

func (n *Tuple) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Tuple) print(p *printer, indent int)        { printTuple(p, n.Values, indent) }

func printTuple(p *printer, values []Expr, indent int) {
	if len(values) == 1 {
		values[0].print(p, indent)
		return
	}
	p.str("(")
	for i, v := range values {
		if i > 0 {
			p.str(", ")
		}
		v.print(p, indent)
	}
	p.str(")")
}

// Abort terminates execution with an error code.
type Abort struct {
	Range
	Code Expr
}

func (n *Abort) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Abort) print(p *printer, indent int) {
	p.str("abort ")
	printOperand(p, n.Code, indent)
}

// If is a conditional with an optional else branch.
type If struct {
	Range
	Cond Expr
	Then *Block
	Else *Block
}

func (n *If) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *If) print(p *printer, indent int) {
	p.str("if (")
	n.Cond.print(p, indent)
	p.str(") ")
	n.Then.print(p, indent)
	if n.Else != nil {
		p.str(" else ")
		n.Else.print(p, indent)
	}
}

// While is a pre-tested loop.
type While struct {
	Range
	Cond Expr
	Body *Block
}

func (n *While) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *While) print(p *printer, indent int) {
	p.str("while (")
	n.Cond.print(p, indent)
	p.str(") ")
	n.Body.print(p, indent)
}

// Loop is an unconditional loop left with break or return.
type Loop struct {
	Range
	Body *Block
}

func (n *Loop) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Loop) print(p *printer, indent int) {
	p.str("loop ")
	n.Body.print(p, indent)
}

// Continue jumps to the enclosing loop header.
type Continue struct{ Range }

func (n *Continue) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Continue) print(p *printer, _ int)              { p.str("continue") }

// Break leaves the enclosing loop.
type Break struct{ Range }

func (n *Break) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Break) print(p *printer, _ int)              { p.str("break") }

// Nop is a statement with no output, left where an instruction had no effect.
type Nop struct{ Range }

func (n *Nop) Encode(w io.Writer, indent int) error { return encode(w, n, indent) }
func (n *Nop) print(*printer, int)                  {}
