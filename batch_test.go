package movedecompiler_test

import (
	"context"
	"testing"

	movedecompiler "github.com/wippyai/move-decompiler"
)

func TestDecompileBatch(t *testing.T) {
	getter := encode(t, getterModule())
	branch := encode(t, branchModule())
	inputs := []movedecompiler.Input{
		{Name: "getter.mv", Data: getter},
		{Name: "broken.mv", Data: []byte{0xa1, 0x1c}},
		{Name: "branch.mv", Data: branch},
		{Name: "getter-copy.mv", Data: getter},
	}

	results, err := movedecompiler.DecompileBatch(context.Background(), inputs, movedecompiler.Config{Jobs: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}
	for i, r := range results {
		if r.Name != inputs[i].Name {
			t.Errorf("result %d is %q, want %q", i, r.Name, inputs[i].Name)
		}
	}

	if results[1].Err == nil {
		t.Error("broken input should fail")
	}
	for _, i := range []int{0, 2, 3} {
		if results[i].Err != nil {
			t.Errorf("%s: %v", results[i].Name, results[i].Err)
		}
	}

	want, err := movedecompiler.Decompile(getter, movedecompiler.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Text != want || results[3].Text != want {
		t.Error("batch output differs from Decompile")
	}
	if results[0].Cached || !results[3].Cached {
		t.Errorf("cached flags = %v, %v; want duplicate served from the first", results[0].Cached, results[3].Cached)
	}
}

func TestBatcherRemembersInputs(t *testing.T) {
	b, err := movedecompiler.NewBatcher(movedecompiler.Config{}, 4)
	if err != nil {
		t.Fatal(err)
	}
	in := []movedecompiler.Input{{Name: "m.mv", Data: encode(t, getterModule())}}

	first, err := b.Decompile(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Decompile(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Errorf("cached flags = %v, %v", first[0].Cached, second[0].Cached)
	}
	if first[0].Text != second[0].Text {
		t.Error("cached text differs")
	}
}

func TestDecompileBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := []movedecompiler.Input{{Name: "m.mv", Data: encode(t, getterModule())}}
	if _, err := movedecompiler.DecompileBatch(ctx, in, movedecompiler.Config{}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestNewBatcherRejectsBadConfig(t *testing.T) {
	if _, err := movedecompiler.NewBatcher(movedecompiler.Config{AddressLength: 64}, 0); err == nil {
		t.Error("expected config error")
	}
}
