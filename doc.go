// Package movedecompiler reconstructs readable source from compiled Move
// modules and scripts.
//
// Decompilation decodes the binary, checks every table cross-reference and
// then rebuilds declarations: imports, friends, structs with their abilities
// and type parameters, and functions whose bodies are recovered from the
// instruction stream, including structured control flow.
//
// # Quick Start
//
//	data, _ := os.ReadFile("Coin.mv")
//	src, err := movedecompiler.Decompile(data, movedecompiler.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(src)
//
// # Failure Model
//
// Structural problems in the binary (truncated tables, bad indices, unknown
// opcodes) fail the whole unit with an *errors.Error in phase decode or
// validate. Problems inside a function body never fail: the affected
// instruction renders as a placeholder comment such as
// /*unrecognized Call*/ and translation continues.
//
// # Light Mode
//
// Config.LightVersion skips body reconstruction and renders every function
// as a native signature. This is what dependency interfaces are generated
// from.
//
// # Thread Safety
//
// Decompile, DecompileUnit and Batcher are safe for concurrent use. A decoded
// unit is never mutated and may be shared between goroutines.
package movedecompiler
