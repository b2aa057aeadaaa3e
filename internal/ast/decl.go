package ast

import (
	"io"
	"strings"

	"github.com/wippyai/move-decompiler/internal/generics"
	"github.com/wippyai/move-decompiler/internal/imports"
)

// FieldDecl is a struct field declaration.
type FieldDecl struct {
	Name string
	Type string
}

// StructDecl is a struct declaration.
type StructDecl struct {
	Name      string
	Generics  []generics.Generic
	Abilities []string
	Fields    []FieldDecl
	Native    bool
}

func (d *StructDecl) Encode(w io.Writer, indent int) error {
	p := &printer{w: w}
	d.print(p, indent)
	return p.err
}

func (d *StructDecl) print(p *printer, indent int) {
	if d.Native {
		p.str("native ")
	}
	p.str("struct ")
	p.str(d.Name)
	p.str(generics.List(d.Generics))
	if len(d.Abilities) > 0 {
		p.str(" has ")
		p.str(strings.Join(d.Abilities, ", "))
	}
	if d.Native {
		p.str(";")
		return
	}
	p.str(" {\n")
	for _, f := range d.Fields {
		p.line(indent+1, f.Name+": "+f.Type+",")
	}
	p.pad(indent)
	p.str("}")
}

// Param is a function parameter.
type Param struct {
	Name string
	Type string
}

// FunctionDecl is a function declaration. A nil Body renders a signature
// terminated by a semicolon.
type FunctionDecl struct {
	Body       *Block
	Name       string
	Visibility string
	Generics   []generics.Generic
	Params     []Param
	Returns    []string
	Acquires   []string
	Entry      bool
	Native     bool
}

func (d *FunctionDecl) Encode(w io.Writer, indent int) error {
	p := &printer{w: w}
	d.print(p, indent)
	return p.err
}

func (d *FunctionDecl) print(p *printer, indent int) {
	if d.Native {
		p.str("native ")
	}
	if d.Visibility != "" {
		p.str(d.Visibility)
		p.str(" ")
	}
	if d.Entry {
		p.str("entry ")
	}
	p.str("fun ")
	p.str(d.Name)
	p.str(generics.List(d.Generics))
	p.str("(")
	for i, prm := range d.Params {
		if i > 0 {
			p.str(", ")
		}
		p.str(prm.Name)
		p.str(": ")
		p.str(prm.Type)
	}
	p.str(")")
	switch len(d.Returns) {
	case 0:
	case 1:
		p.str(": ")
		p.str(d.Returns[0])
	default:
		p.str(": (")
		p.str(strings.Join(d.Returns, ", "))
		p.str(")")
	}
	if len(d.Acquires) > 0 {
		p.str(" acquires ")
		p.str(strings.Join(d.Acquires, ", "))
	}
	if d.Body == nil {
		p.str(";")
		return
	}
	p.str(" ")
	d.Body.print(p, indent)
}

// ModuleDecl is a complete module.
type ModuleDecl struct {
	Imports   *imports.Table
	Address   string
	Name      string
	Friends   []string
	Structs   []*StructDecl
	Functions []*FunctionDecl
}

func (d *ModuleDecl) Encode(w io.Writer, indent int) error {
	p := &printer{w: w}
	p.pad(indent)
	p.str("module ")
	p.str(d.Address)
	p.str("::")
	p.str(d.Name)
	p.str(" {\n")

	sections := 0
	section := func() {
		if sections > 0 {
			p.str("\n")
		}
		sections++
	}

	if d.Imports != nil && d.Imports.Len() > 0 {
		section()
		if p.err == nil {
			p.err = d.Imports.Encode(w, indent+1)
		}
	}
	if len(d.Friends) > 0 {
		section()
		for _, f := range d.Friends {
			p.line(indent+1, "friend "+f+";")
		}
	}
	for _, s := range d.Structs {
		section()
		p.pad(indent + 1)
		s.print(p, indent+1)
		p.str("\n")
	}
	for _, f := range d.Functions {
		section()
		p.pad(indent + 1)
		f.print(p, indent+1)
		p.str("\n")
	}

	p.pad(indent)
	p.str("}\n")
	return p.err
}

// ScriptDecl is a transaction script with its entry function.
type ScriptDecl struct {
	Imports *imports.Table
	Main    *FunctionDecl
}

func (d *ScriptDecl) Encode(w io.Writer, indent int) error {
	p := &printer{w: w}
	p.pad(indent)
	p.str("script {\n")
	if d.Imports != nil && d.Imports.Len() > 0 {
		if p.err == nil {
			p.err = d.Imports.Encode(w, indent+1)
		}
		p.str("\n")
	}
	if d.Main != nil {
		p.pad(indent + 1)
		d.Main.print(p, indent+1)
		p.str("\n")
	}
	p.pad(indent)
	p.str("}\n")
	return p.err
}
