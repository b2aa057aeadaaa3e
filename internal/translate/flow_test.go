package translate_test

import (
	"testing"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/fixture"
)

// Each case is the bytecode the source compiler emits for one control-flow
// shape, with the body it must decompile to.
func TestControlFlowCorpus(t *testing.T) {
	tests := []struct {
		name    string
		params  []bytecode.SignatureToken
		returns []bytecode.SignatureToken
		locals  []bytecode.SignatureToken
		code    func(fns map[string]uint16) []bytecode.Instruction
		want    string
	}{
		{
			name:    "literal return",
			returns: []bytecode.SignatureToken{fixture.U8},
			code: func(map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{bytecode.LdU8(1), ret}
			},
			want: lines("{", "    1", "}"),
		},
		{
			name:   "if else then call",
			params: []bytecode.SignatureToken{fixture.Bool},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					moveLoc(0),
					brFalse(4),
					callFn(fns["a"]),
					jump(5),
					callFn(fns["b"]),
					callFn(fns["c"]),
					ret,
				}
			},
			want: lines(
				"{",
				"    if (arg0) {",
				"        a()",
				"    } else {",
				"        b()",
				"    };",
				"    c()",
				"}",
			),
		},
		{
			name:   "if else via BrTrue and Branch",
			params: []bytecode.SignatureToken{fixture.Bool},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					moveLoc(0),
					brTrue(3),
					jump(5),
					callFn(fns["a"]),
					jump(6),
					callFn(fns["b"]),
					callFn(fns["c"]),
					ret,
				}
			},
			want: lines(
				"{",
				"    if (arg0) {",
				"        a()",
				"    } else {",
				"        b()",
				"    };",
				"    c()",
				"}",
			),
		},
		{
			name:   "plain if",
			params: []bytecode.SignatureToken{fixture.Bool},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					moveLoc(0),
					brFalse(3),
					callFn(fns["a"]),
					callFn(fns["c"]),
					ret,
				}
			},
			want: lines(
				"{",
				"    if (arg0) {",
				"        a()",
				"    };",
				"    c()",
				"}",
			),
		},
		{
			name:   "negated if from BrTrue",
			params: []bytecode.SignatureToken{fixture.U64},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					copyLoc(0),
					bytecode.LdU64(0),
					op(bytecode.OpEq),
					brTrue(5),
					callFn(fns["a"]),
					ret,
				}
			},
			want: lines(
				"{",
				"    if (arg0 != 0) {",
				"        a()",
				"    }",
				"}",
			),
		},
		{
			name:    "early return in branch",
			params:  []bytecode.SignatureToken{fixture.Bool},
			returns: []bytecode.SignatureToken{fixture.U64},
			code: func(map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					moveLoc(0),
					brFalse(4),
					bytecode.LdU64(1),
					ret,
					bytecode.LdU64(2),
					ret,
				}
			},
			want: lines(
				"{",
				"    if (arg0) {",
				"        return 1",
				"    };",
				"    2",
				"}",
			),
		},
		{
			name:   "while",
			params: []bytecode.SignatureToken{fixture.U64},
			locals: []bytecode.SignatureToken{fixture.U64},
			code: func(map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					bytecode.LdU64(0),
					stLoc(1),
					copyLoc(1), // header
					copyLoc(0),
					op(bytecode.OpLt),
					brFalse(11),
					moveLoc(1),
					bytecode.LdU64(1),
					op(bytecode.OpAdd),
					stLoc(1),
					jump(2),
					ret,
				}
			},
			want: lines(
				"{",
				"    let var0 = 0;",
				"    while (var0 < arg0) {",
				"        var0 = var0 + 1",
				"    }",
				"}",
			),
		},
		{
			name:   "while exit via BrTrue and Branch",
			params: []bytecode.SignatureToken{fixture.U64},
			locals: []bytecode.SignatureToken{fixture.U64},
			code: func(map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					bytecode.LdU64(0),
					stLoc(1),
					copyLoc(1), // header
					copyLoc(0),
					op(bytecode.OpLt),
					brTrue(7),
					jump(12),
					moveLoc(1),
					bytecode.LdU64(1),
					op(bytecode.OpAdd),
					stLoc(1),
					jump(2),
					ret,
				}
			},
			want: lines(
				"{",
				"    let var0 = 0;",
				"    while (var0 < arg0) {",
				"        var0 = var0 + 1",
				"    }",
				"}",
			),
		},
		{
			name:   "rotated while",
			params: []bytecode.SignatureToken{fixture.U64},
			locals: []bytecode.SignatureToken{fixture.U64},
			code: func(map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					bytecode.LdU64(0),
					stLoc(1),
					copyLoc(1),
					copyLoc(0),
					op(bytecode.OpLt),
					brFalse(14),
					moveLoc(1), // header
					bytecode.LdU64(1),
					op(bytecode.OpAdd),
					stLoc(1),
					copyLoc(1),
					copyLoc(0),
					op(bytecode.OpLt),
					brTrue(6),
					ret,
				}
			},
			want: lines(
				"{",
				"    let var0 = 0;",
				"    while (var0 < arg0) {",
				"        var0 = var0 + 1",
				"    }",
				"}",
			),
		},
		{
			name:   "loop with break and continue",
			locals: []bytecode.SignatureToken{fixture.U64},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					bytecode.LdU64(0),
					stLoc(0),
					copyLoc(0), // header
					bytecode.LdU64(1),
					op(bytecode.OpAdd),
					stLoc(0),
					copyLoc(0),
					bytecode.LdU64(10),
					op(bytecode.OpGt),
					brFalse(11),
					jump(18),
					copyLoc(0),
					bytecode.LdU64(5),
					op(bytecode.OpEq),
					brFalse(16),
					jump(2),
					callFn(fns["g"]),
					jump(2),
					ret,
				}
			},
			want: lines(
				"{",
				"    let var0 = 0;",
				"    loop {",
				"        var0 = var0 + 1;",
				"        if (var0 > 10) {",
				"            break",
				"        };",
				"        if (var0 == 5) {",
				"            continue",
				"        };",
				"        g()",
				"    }",
				"}",
			),
		},
		{
			name: "infinite loop",
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					callFn(fns["g"]),
					jump(0),
				}
			},
			want: lines(
				"{",
				"    loop {",
				"        g()",
				"    }",
				"}",
			),
		},
		{
			name:   "while with break guarded exit",
			params: []bytecode.SignatureToken{fixture.Bool},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					copyLoc(0), // header
					brTrue(3),
					jump(5),
					callFn(fns["g"]),
					jump(0),
					ret,
				}
			},
			want: lines(
				"{",
				"    while (arg0) {",
				"        g()",
				"    }",
				"}",
			),
		},
		{
			name:   "trailing conditional back edge",
			params: []bytecode.SignatureToken{fixture.Bool},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					callFn(fns["g"]), // header
					copyLoc(0),
					brTrue(0),
					ret,
				}
			},
			want: lines(
				"{",
				"    loop {",
				"        g();",
				"        if (!arg0) {",
				"            break",
				"        }",
				"    }",
				"}",
			),
		},
		{
			name:   "if else with values assigned in both arms",
			params: []bytecode.SignatureToken{fixture.Bool},
			returns: []bytecode.SignatureToken{
				fixture.U64,
			},
			locals: []bytecode.SignatureToken{fixture.U64},
			code: func(map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					moveLoc(0),
					brFalse(5),
					bytecode.LdU64(1),
					stLoc(1),
					jump(7),
					bytecode.LdU64(2),
					stLoc(1),
					moveLoc(1),
					ret,
				}
			},
			want: lines(
				"{",
				"    let var0: u64;",
				"    if (arg0) {",
				"        var0 = 1",
				"    } else {",
				"        var0 = 2",
				"    };",
				"    var0",
				"}",
			),
		},
		{
			name:   "nested if inside else",
			params: []bytecode.SignatureToken{fixture.Bool, fixture.Bool},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					copyLoc(0),
					brFalse(4),
					callFn(fns["a"]),
					jump(8),
					copyLoc(1),
					brFalse(8),
					callFn(fns["b"]),
					jump(8),
					callFn(fns["c"]),
					ret,
				}
			},
			want: lines(
				"{",
				"    if (arg0) {",
				"        a()",
				"    } else {",
				"        if (arg1) {",
				"            b()",
				"        }",
				"    };",
				"    c()",
				"}",
			),
		},
		{
			name:   "while nested in if",
			params: []bytecode.SignatureToken{fixture.Bool, fixture.Bool},
			code: func(fns map[string]uint16) []bytecode.Instruction {
				return []bytecode.Instruction{
					copyLoc(0),
					brFalse(6),
					copyLoc(1), // header
					brFalse(6),
					callFn(fns["g"]),
					jump(2),
					callFn(fns["c"]),
					ret,
				}
			},
			want: lines(
				"{",
				"    if (arg0) {",
				"        while (arg1) {",
				"            g()",
				"        }",
				"    };",
				"    c()",
				"}",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, fns := newModule()
			_, def := b.Function(fixture.Function{
				Name:       "f",
				Params:     tt.params,
				Returns:    tt.returns,
				Locals:     tt.locals,
				Code:       tt.code(fns),
				Visibility: bytecode.VisibilityPublic,
			})
			assertBody(t, tt.want, body(t, b.Build(), def))
		})
	}
}

func TestMalformedBranchesTerminate(t *testing.T) {
	tests := []struct {
		name string
		code []bytecode.Instruction
	}{
		{"branch past end", []bytecode.Instruction{op(bytecode.OpLdTrue), brFalse(900), ret}},
		{"self loop", []bytecode.Instruction{jump(0)}},
		{"conditional to itself", []bytecode.Instruction{op(bytecode.OpLdTrue), brTrue(1), ret}},
		{"overlapping loops", []bytecode.Instruction{
			op(bytecode.OpLdTrue), brFalse(4), jump(0), jump(1), ret,
		}},
		{"empty stack branch", []bytecode.Instruction{brFalse(2), ret, ret}},
		{"hop over trailing branch", []bytecode.Instruction{op(bytecode.OpLdTrue), brTrue(3), jump(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newModule()
			_, def := b.Function(fixture.Function{Name: "f", Code: tt.code})
			if got := body(t, b.Build(), def); got == "" {
				t.Error("expected rendered body")
			}
		})
	}
}
