package assemble_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/errors"
	"github.com/wippyai/move-decompiler/internal/assemble"
	"github.com/wippyai/move-decompiler/internal/fixture"
)

func bankModule() *bytecode.CompiledModule {
	b := fixture.NewModule(fixture.Addr(2), "Bank")
	signer := b.Module(fixture.Addr(1), "signer")
	addressOf := b.FunctionHandle(signer, "address_of",
		[]bytecode.SignatureToken{bytecode.RefOf(fixture.Signer, false)},
		[]bytecode.SignatureToken{fixture.Address})
	b.Friend(fixture.Addr(1), "admin")

	_, poolDef := b.Struct(fixture.Struct{
		Name:      "Pool",
		Fields:    []fixture.Field{{Name: "value", Type: fixture.U64}},
		Abilities: bytecode.AbilityKey,
	})
	b.Struct(fixture.Struct{
		Name:       "Box",
		Fields:     []fixture.Field{{Name: "tag", Type: fixture.U8}},
		TypeParams: []bytecode.StructTypeParam{{Constraints: bytecode.AbilityStore, IsPhantom: true}},
		Abilities:  bytecode.AbilityDrop | bytecode.AbilityStore,
	})

	b.Function(fixture.Function{
		Name:       "get",
		Returns:    []bytecode.SignatureToken{fixture.U8},
		Code:       []bytecode.Instruction{bytecode.LdU8(1), bytecode.Simple(bytecode.OpRet)},
		Visibility: bytecode.VisibilityPublic,
	})
	b.Function(fixture.Function{
		Name:    "has",
		Params:  []bytecode.SignatureToken{bytecode.RefOf(fixture.Signer, false)},
		Returns: []bytecode.SignatureToken{fixture.Bool},
		Code: []bytecode.Instruction{
			bytecode.Local(bytecode.OpMoveLoc, 0),
			bytecode.Indexed(bytecode.OpCall, addressOf),
			bytecode.Indexed(bytecode.OpExists, poolDef),
			bytecode.Simple(bytecode.OpRet),
		},
		Acquires:   []uint16{poolDef},
		Visibility: bytecode.VisibilityFriend,
	})
	b.Function(fixture.Function{
		Name:    "hash",
		Params:  []bytecode.SignatureToken{bytecode.VectorOf(fixture.U8)},
		Returns: []bytecode.SignatureToken{bytecode.VectorOf(fixture.U8)},
		Native:  true,
	})
	b.Function(fixture.Function{
		Name:       "id",
		TypeParams: []bytecode.AbilitySet{bytecode.AbilityCopy | bytecode.AbilityDrop},
		Params:     []bytecode.SignatureToken{bytecode.TypeParam(0)},
		Returns:    []bytecode.SignatureToken{bytecode.TypeParam(0)},
		Code:       []bytecode.Instruction{bytecode.Local(bytecode.OpMoveLoc, 0), bytecode.Simple(bytecode.OpRet)},
		Visibility: bytecode.VisibilityPublic,
		Entry:      true,
	})
	return b.Build()
}

func render(t *testing.T, m *bytecode.CompiledModule, opts assemble.Options) string {
	t.Helper()
	decl, err := assemble.Module(context.Background(), m, opts)
	if err != nil {
		t.Fatalf("Module: %v", err)
	}
	var sb strings.Builder
	if err := decl.Encode(&sb, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return sb.String()
}

func TestModule(t *testing.T) {
	want := `module 0x2::Bank {
    use 0x1::signer;

    friend 0x1::admin;

    struct Pool has key {
        value: u64,
    }

    struct Box<phantom T: store> has drop, store {
        tag: u8,
    }

    public fun get(): u8 {
        1
    }

    public(friend) fun has(arg0: &signer): bool acquires Pool {
        exists<Pool>(signer::address_of(arg0))
    }

    native fun hash(arg0: vector<u8>): vector<u8>;

    public entry fun id<T: copy, drop>(arg0: T): T {
        arg0
    }
}
`
	if diff := cmp.Diff(want, render(t, bankModule(), assemble.Options{})); diff != "" {
		t.Errorf("module mismatch (-want +got):\n%s", diff)
	}
}

func TestLightModule(t *testing.T) {
	got := render(t, bankModule(), assemble.Options{Light: true})
	for _, line := range []string{
		"    native public fun get(): u8;\n",
		"    native public(friend) fun has(arg0: &signer): bool acquires Pool;\n",
		"    native public entry fun id<T: copy, drop>(arg0: T): T;\n",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
	if strings.Contains(got, "        arg0\n") {
		t.Errorf("light output has a body:\n%s", got)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	m := bankModule()
	seq := render(t, m, assemble.Options{})
	for range 5 {
		if diff := cmp.Diff(seq, render(t, m, assemble.Options{Jobs: 4})); diff != "" {
			t.Fatalf("parallel output differs (-seq +par):\n%s", diff)
		}
	}
}

func TestScript(t *testing.T) {
	b := fixture.NewScript(bytecode.DefaultAddressLength)
	signer := b.Module(fixture.Addr(1), "signer")
	addressOf := b.FunctionHandle(signer, "address_of",
		[]bytecode.SignatureToken{bytecode.RefOf(fixture.Signer, false)},
		[]bytecode.SignatureToken{fixture.Address})
	s := b.Script(nil,
		[]bytecode.SignatureToken{bytecode.RefOf(fixture.Signer, false)},
		nil,
		[]bytecode.Instruction{
			bytecode.Local(bytecode.OpMoveLoc, 0),
			bytecode.Indexed(bytecode.OpCall, addressOf),
			bytecode.Simple(bytecode.OpPop),
			bytecode.Simple(bytecode.OpRet),
		})

	decl, err := assemble.Script(context.Background(), s, assemble.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := decl.Encode(&sb, 0); err != nil {
		t.Fatal(err)
	}
	want := `script {
    use 0x1::signer;

    fun main(arg0: &signer) {
        let _ = signer::address_of(arg0);
    }
}
`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestModuleErrors(t *testing.T) {
	t.Run("bad self handle", func(t *testing.T) {
		m := bankModule()
		m.Self = 99
		_, err := assemble.Module(context.Background(), m, assemble.Options{})
		e, ok := err.(*errors.Error)
		if !ok || e.Phase != errors.PhaseRender || e.Kind != errors.KindOutOfBounds {
			t.Errorf("got %v", err)
		}
	})

	t.Run("bad acquires", func(t *testing.T) {
		m := bankModule()
		m.FunctionDefs[1].Acquires = []uint16{42}
		_, err := assemble.Module(context.Background(), m, assemble.Options{})
		e, ok := err.(*errors.Error)
		if !ok || e.Phase != errors.PhaseRender || len(e.Path) != 2 || e.Path[0] != "function_defs" {
			t.Errorf("got %v", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := assemble.Module(ctx, bankModule(), assemble.Options{}); err != context.Canceled {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})
}
