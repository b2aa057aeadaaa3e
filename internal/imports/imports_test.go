package imports

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/move-decompiler/internal/fixture"
)

func TestAliases(t *testing.T) {
	b := fixture.NewModule(fixture.Addr(0x2), "Market")
	b.Module(fixture.Addr(0x1), "Coin")
	b.Module(fixture.Addr(0x3), "Coin")
	b.Module(fixture.Addr(0x1), "Coin_1")
	b.Module(fixture.Addr(0x4), "Coin")
	b.Module(fixture.Addr(0x1), "Vector")
	tbl := New(b.Build())

	tests := []struct {
		addr byte
		name string
		want string
	}{
		{0x1, "Coin", "Coin"},
		{0x3, "Coin", "Coin_2"},
		{0x4, "Coin", "Coin_3"},
		{0x1, "Coin_1", "Coin_1"},
		{0x1, "Vector", "Vector"},
		{0x2, "Market", "Market"},
	}
	for _, tt := range tests {
		got, ok := tbl.Get(fixture.Addr(tt.addr), tt.name)
		if !ok || got != tt.want {
			t.Errorf("Get(0x%x, %s) = %q, %v; want %q", tt.addr, tt.name, got, ok, tt.want)
		}
	}
	if _, ok := tbl.Get(fixture.Addr(0x9), "Coin"); ok {
		t.Error("unknown module should not resolve")
	}
	if tbl.Len() != 5 {
		t.Errorf("Len() = %d, want 5 (self excluded)", tbl.Len())
	}
}

func TestSelfNameReserved(t *testing.T) {
	b := fixture.NewModule(fixture.Addr(0x2), "Coin")
	b.Module(fixture.Addr(0x1), "Coin")
	tbl := New(b.Build())
	got, _ := tbl.Get(fixture.Addr(0x1), "Coin")
	if got != "Coin_1" {
		t.Errorf("alias = %q, want Coin_1", got)
	}
}

func TestEncodeSorted(t *testing.T) {
	b := fixture.NewModule(fixture.Addr(0x2), "Market")
	b.Module(fixture.Addr(0x1), "Vector")
	b.Module(fixture.Addr(0x3), "Coin")
	b.Module(fixture.Addr(0x1), "Coin")
	tbl := New(b.Build())

	var buf bytes.Buffer
	if err := tbl.Encode(&buf, 1); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"    use 0x1::Coin as Coin_1;",
		"    use 0x3::Coin;",
		"    use 0x1::Vector;",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestDeterministic(t *testing.T) {
	build := func() string {
		b := fixture.NewModule(fixture.Addr(0x2), "M")
		for i := byte(1); i < 20; i++ {
			b.Module(fixture.Addr(i%5), "Lib")
			b.Module(fixture.Addr(i), "Util")
		}
		var buf bytes.Buffer
		if err := New(b.Build()).Encode(&buf, 0); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}
	first := build()
	for range 10 {
		if got := build(); got != first {
			t.Fatalf("output changed between runs:\n%s\nvs\n%s", first, got)
		}
	}
}

func TestScriptImportsEverything(t *testing.T) {
	b := fixture.NewScript(32)
	b.Module(fixture.Addr(0x1), "Signer")
	s := b.Script(nil, nil, nil, nil)
	tbl := New(s)
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d", tbl.Len())
	}
}
