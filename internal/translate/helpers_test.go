package translate_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
	"github.com/wippyai/move-decompiler/internal/fixture"
	"github.com/wippyai/move-decompiler/internal/generics"
	"github.com/wippyai/move-decompiler/internal/imports"
	"github.com/wippyai/move-decompiler/internal/locals"
	"github.com/wippyai/move-decompiler/internal/translate"
	"github.com/wippyai/move-decompiler/internal/types"
)

func copyLoc(i uint8) bytecode.Instruction { return bytecode.Local(bytecode.OpCopyLoc, i) }
func moveLoc(i uint8) bytecode.Instruction { return bytecode.Local(bytecode.OpMoveLoc, i) }
func stLoc(i uint8) bytecode.Instruction   { return bytecode.Local(bytecode.OpStLoc, i) }
func op(o bytecode.Opcode) bytecode.Instruction {
	return bytecode.Simple(o)
}
func brTrue(t uint16) bytecode.Instruction  { return bytecode.Branch(bytecode.OpBrTrue, t) }
func brFalse(t uint16) bytecode.Instruction { return bytecode.Branch(bytecode.OpBrFalse, t) }
func jump(t uint16) bytecode.Instruction    { return bytecode.Branch(bytecode.OpBranch, t) }
func callFn(h uint16) bytecode.Instruction  { return bytecode.Indexed(bytecode.OpCall, h) }

var ret = op(bytecode.OpRet)

// body translates function def of m and renders its body.
func body(t *testing.T, m *bytecode.CompiledModule, def uint16) string {
	t.Helper()
	return bodyWith(t, translate.New(nil), m, def)
}

func bodyWith(t *testing.T, tr *translate.Translator, m *bytecode.CompiledModule, def uint16) string {
	t.Helper()
	fd := m.FunctionDefs[def]
	h := m.FunctionHandles[fd.Handle]
	r := types.NewResolver(m, imports.New(m)).WithGenerics(generics.ForUnit(m).Function(h.TypeParams))
	params, _ := m.SignatureAt(h.Parameters)
	rets, _ := m.SignatureAt(h.Return)
	vars, _ := m.SignatureAt(fd.Code.Locals)
	name, _ := m.Identifier(h.Name)
	block := tr.Function(r, translate.Function{
		Name:    name,
		Code:    fd.Code.Code,
		Locals:  locals.New(params, vars, r.Decode),
		Returns: len(rets),
	})
	return ast.Render(block)
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func assertBody(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

// newModule returns a builder for 0x1::M with no-argument helpers a, b, c
// and g already declared.
func newModule() (*fixture.Builder, map[string]uint16) {
	b := fixture.NewModule(fixture.Addr(1), "M")
	fns := make(map[string]uint16)
	for _, n := range []string{"a", "b", "c", "g"} {
		fns[n] = b.FunctionHandle(b.Self(), n, nil, nil)
	}
	return b, fns
}
