// Package ast defines the decompiled expression and declaration tree.
//
// Every node renders itself with Encode(w, indent). Encode writes the node
// starting at the current output position; lines inside nested blocks are
// indented four spaces per level relative to indent. Output is a pure
// function of the tree.
package ast

import (
	"io"
	"strings"
)

// Range is the [Start, End) span of instruction offsets a node came from.
// It is used for diagnostics only.
type Range struct {
	Start int
	End   int
}

// Span returns the range.
func (r Range) Span() Range { return r }

// At returns a range covering the single instruction at offset.
func At(offset int) Range {
	return Range{Start: offset, End: offset + 1}
}

// Node is anything that can be rendered.
type Node interface {
	Encode(w io.Writer, indent int) error
}

// Expr is an expression or statement inside a function body.
type Expr interface {
	Node
	Span() Range
	print(p *printer, indent int)
}

// Namer names local slots at render time, after usage is known.
type Namer interface {
	Name(index int) string
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) str(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) pad(indent int) {
	p.str(strings.Repeat("    ", indent))
}

func (p *printer) line(indent int, s string) {
	p.pad(indent)
	p.str(s)
	p.str("\n")
}

func encode(w io.Writer, e Expr, indent int) error {
	p := &printer{w: w}
	e.print(p, indent)
	return p.err
}

// Render returns the text of e at indent 0.
func Render(e Expr) string {
	var b strings.Builder
	_ = encode(&b, e, 0)
	return b.String()
}

// IsValue reports whether e produces a value that can be used as an operand.
func IsValue(e Expr) bool {
	switch n := e.(type) {
	case *Let, *Declare, *WriteRef, *Return, *Abort, *If, *While, *Loop,
		*Continue, *Break, *Nop, *Block:
		return false
	case *Placeholder:
		return n.Kind != PlaceholderUnderflow
	case *Call:
		return n.Returns > 0
	}
	return true
}

// terminated reports whether a statement always ends with a semicolon. A
// declaration is not an expression; a plain assignment may end a block.
func terminated(e Expr) bool {
	switch n := e.(type) {
	case *Let:
		return n.Declare
	case *Declare:
		return true
	}
	return false
}
