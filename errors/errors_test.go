package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseDecode,
				Kind:      KindOutOfBounds,
				Path:      []string{"function_handles", "4"},
				Table:     "function_handles",
				Offset:    117,
				HasOffset: true,
				Detail:    "signature index 9",
			},
			contains: []string{"[decode]", "out_of_bounds", "function_handles.4", "in function_handles", "@117", "signature index 9"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseValidate,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[validate]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRender,
				Kind:   KindWrite,
				Detail: "module M",
				Cause:  errors.New("disk full"),
			},
			contains: []string{"[render]", "write", "module M", "caused by", "disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_OffsetOmittedWhenUnset(t *testing.T) {
	err := &Error{Phase: PhaseDecode, Kind: KindInvalidData}
	if strings.Contains(err.Error(), "@") {
		t.Errorf("unexpected offset in %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindTruncated,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidEnum,
		Path:  []string{"code"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidEnum}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseValidate, Kind: KindInvalidEnum}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDecode, Kind: KindInvalidEnum}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindOverflow).
		Path("signatures", "2").
		Table("signatures").
		At(40).
		Value(70000).
		Cause(cause).
		Detail("index %d exceeds %s", 70000, "u16").
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindOverflow {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
	}
	if len(err.Path) != 2 || err.Path[0] != "signatures" || err.Path[1] != "2" {
		t.Errorf("Path = %v, want [signatures 2]", err.Path)
	}
	if err.Table != "signatures" {
		t.Errorf("Table = %v, want signatures", err.Table)
	}
	if !err.HasOffset || err.Offset != 40 {
		t.Errorf("Offset = %v (set %v), want 40", err.Offset, err.HasOffset)
	}
	if err.Value != 70000 {
		t.Errorf("Value = %v, want 70000", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "index 70000 exceeds u16" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseValidate, []string{"struct_defs"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		cause := errors.New("EOF")
		err := Truncated(PhaseDecode, "identifiers", 12, cause)
		if err.Kind != KindTruncated || !err.HasOffset || err.Offset != 12 {
			t.Errorf("unexpected %+v", err)
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable")
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseDecode, "identifiers", []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
		if !strings.Contains(err.Detail, "fffe") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("InvalidEnum", func(t *testing.T) {
		err := InvalidEnum(PhaseDecode, "code", byte(0xEE), "opcode")
		if err.Kind != KindInvalidEnum {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidEnum)
		}
		if !strings.Contains(err.Error(), "opcode") {
			t.Errorf("message %q should name the enum", err.Error())
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseDecode, "code", uint64(1<<20), "u16")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseDecode, "version 9")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("WriteFailed", func(t *testing.T) {
		cause := errors.New("closed pipe")
		err := WriteFailed("module 0x1::M", cause)
		if err.Phase != PhaseIO || err.Kind != KindWrite {
			t.Errorf("unexpected %+v", err)
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseConfig, "dialect", "ethereum")
		if !strings.Contains(err.Detail, `"ethereum"`) {
			t.Errorf("Detail = %q", err.Detail)
		}
	})
}
