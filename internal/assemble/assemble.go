// Package assemble builds declaration trees for compiled units.
//
// The assembler owns the per-unit state: the import table, the generic
// name allocator and the type resolver. Function bodies are handed to the
// translator one at a time, or concurrently when Options.Jobs allows it.
package assemble

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/errors"
	"github.com/wippyai/move-decompiler/internal/ast"
	"github.com/wippyai/move-decompiler/internal/generics"
	"github.com/wippyai/move-decompiler/internal/imports"
	"github.com/wippyai/move-decompiler/internal/translate"
	"github.com/wippyai/move-decompiler/internal/types"
)

// Options controls assembly.
type Options struct {
	// Log receives translation recoveries. Nil discards them.
	Log *zap.Logger

	// Light skips bodies and renders every function as a native signature.
	Light bool

	// Jobs bounds how many function bodies are translated at once.
	// Values below 2 translate sequentially.
	Jobs int
}

// unit is the shared, read-only state of one assembly.
type unit struct {
	imports    *imports.Table
	generics   *generics.Allocator
	resolver   *types.Resolver
	translator *translate.Translator
	opts       Options
}

func newUnit(u bytecode.Unit, opts Options) *unit {
	imp := imports.New(u)
	return &unit{
		imports:    imp,
		generics:   generics.ForUnit(u),
		resolver:   types.NewResolver(u, imp),
		translator: translate.New(opts.Log),
		opts:       opts,
	}
}

// Module builds the declaration of m.
func Module(ctx context.Context, m *bytecode.CompiledModule, opts Options) (*ast.ModuleDecl, error) {
	a := newUnit(m, opts)

	self, ok := m.SelfHandle()
	if !ok {
		return nil, outOfBounds("module_handles", int(m.Self), len(m.ModuleHandles))
	}
	addr, name, ok := m.ModuleID(self)
	if !ok {
		return nil, errors.InvalidData(errors.PhaseRender, []string{"module_handles", strconv.Itoa(int(m.Self))}, "unresolvable self handle")
	}

	decl := &ast.ModuleDecl{
		Imports: a.imports,
		Address: addr.Hex(),
		Name:    name,
	}
	for i, f := range m.Friends {
		faddr, fname, ok := m.ModuleID(f)
		if !ok {
			return nil, errors.InvalidData(errors.PhaseRender, []string{"friend_decls", strconv.Itoa(i)}, "unresolvable friend")
		}
		decl.Friends = append(decl.Friends, faddr.Hex()+"::"+fname)
	}
	for i, def := range m.StructDefs {
		s, err := a.structDecl(m, def)
		if err != nil {
			return nil, errors.New(errors.PhaseRender, errors.KindInvalidData).
				Path("struct_defs", strconv.Itoa(i)).Detail("struct declaration").Cause(err).Build()
		}
		decl.Structs = append(decl.Structs, s)
	}

	fns, err := a.functions(ctx, m)
	if err != nil {
		return nil, err
	}
	decl.Functions = fns
	return decl, nil
}

// functions assembles every function definition in definition order.
func (a *unit) functions(ctx context.Context, m *bytecode.CompiledModule) ([]*ast.FunctionDecl, error) {
	out := make([]*ast.FunctionDecl, len(m.FunctionDefs))
	build := func(i int) error {
		fn, err := a.functionDecl(m, m.FunctionDefs[i])
		if err != nil {
			return errors.New(errors.PhaseRender, errors.KindInvalidData).
				Path("function_defs", strconv.Itoa(i)).Detail("function declaration").Cause(err).Build()
		}
		out[i] = fn
		return nil
	}

	if a.opts.Jobs < 2 || len(m.FunctionDefs) < 2 {
		for i := range m.FunctionDefs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := build(i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(a.opts.Jobs, len(m.FunctionDefs)))
	for i := range m.FunctionDefs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return build(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Script builds the declaration of s. Its entry function is named main.
func Script(ctx context.Context, s *bytecode.CompiledScript, opts Options) (*ast.ScriptDecl, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := newUnit(s, opts)
	params, ok := s.SignatureAt(s.Parameters)
	if !ok {
		return nil, outOfBounds("signatures", int(s.Parameters), len(s.Signatures))
	}
	fn, err := a.assembleFunction(signature{
		name:       "main",
		typeParams: s.TypeParams,
		params:     params,
		code:       &s.Code,
	})
	if err != nil {
		return nil, err
	}
	return &ast.ScriptDecl{Imports: a.imports, Main: fn}, nil
}

func outOfBounds(table string, index, length int) error {
	return errors.OutOfBounds(errors.PhaseRender, []string{table}, index, length)
}
