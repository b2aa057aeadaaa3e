// Package bytecode provides Move binary format parsing and encoding.
//
// It decodes compiled modules and scripts (binary format versions 1 through 6)
// into a table model, checks structural cross-references, and encodes the
// model back to bytes. Decoding never executes or verifies bytecode; the
// semantics of instructions are left to the decompiler.
//
// # Parsing
//
//	data, _ := os.ReadFile("Coin.mv")
//	unit, err := bytecode.Deserialize(data, bytecode.WithAddressLength(16))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	switch u := unit.(type) {
//	case *bytecode.CompiledModule:
//	    fmt.Println(u.Name())
//	case *bytecode.CompiledScript:
//	    fmt.Println(len(u.Code.Code), "instructions")
//	}
//
// # Errors
//
// Every failure is an *errors.Error with phase decode or validate. Opcodes,
// table kinds, token tags and visibilities are mapped explicitly and an
// unknown value is reported as KindInvalidEnum.
//
// # Encoding
//
// CompiledModule.Encode and CompiledScript.Encode produce the canonical
// layout: tables in kind order, contiguous from offset zero.
package bytecode
