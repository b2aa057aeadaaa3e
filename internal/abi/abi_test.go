package abi_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/errors"
	"github.com/wippyai/move-decompiler/internal/abi"
	"github.com/wippyai/move-decompiler/internal/fixture"
)

func TestPack(t *testing.T) {
	ptr, size := abi.Unpack(abi.Pack(0xdeadbeef, 17))
	if ptr != 0xdeadbeef || size != 17 {
		t.Errorf("Unpack = %#x, %d", ptr, size)
	}
}

func TestFrame(t *testing.T) {
	frame, err := abi.EncodeFrame([]byte("module"), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{6, 0, 0, 0, 'm', 'o', 'd', 'u', 'l', 'e', 0, 0, 0, 0}
	if diff := cmp.Diff(want, frame); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
	res, msg, err := abi.DecodeFrame(frame)
	if err != nil {
		t.Fatal(err)
	}
	if string(res) != "module" || len(msg) != 0 {
		t.Errorf("DecodeFrame = %q, %q", res, msg)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		kind  errors.Kind
	}{
		{"empty", nil, errors.KindTruncated},
		{"short buffer", []byte{9, 0, 0, 0, 'x'}, errors.KindTruncated},
		{"missing error buffer", []byte{0, 0, 0, 0}, errors.KindTruncated},
		{"trailing", []byte{0, 0, 0, 0, 0, 0, 0, 0, 1}, errors.KindInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := abi.DecodeFrame(tt.frame)
			var e *errors.Error
			if !errors.As(err, &e) || e.Phase != errors.PhaseBinding || e.Kind != tt.kind {
				t.Errorf("got %v, want binding %s", err, tt.kind)
			}
		})
	}
}

func TestServe(t *testing.T) {
	b := fixture.NewModule(fixture.AddrN(1, 16), "M")
	b.Function(fixture.Function{
		Name:       "get",
		Returns:    []bytecode.SignatureToken{fixture.U8},
		Code:       []bytecode.Instruction{bytecode.LdU8(1), bytecode.Simple(bytecode.OpRet)},
		Visibility: bytecode.VisibilityPublic,
	})
	data, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	res, msg, err := abi.DecodeFrame(abi.Serve(data, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(msg) != 0 || !strings.Contains(string(res), "public fun get(): u8 {") {
		t.Errorf("diem request: result %q, error %q", res, msg)
	}

	res, msg, err = abi.DecodeFrame(abi.Serve(data, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 0 || len(msg) == 0 {
		t.Errorf("wrong address width should fail: result %q, error %q", res, msg)
	}

	_, msg, _ = abi.DecodeFrame(abi.Serve(data, 99))
	if !strings.Contains(string(msg), "dialect") {
		t.Errorf("unknown dialect error = %q", msg)
	}
}
