// Package errors holds the structured error type shared by every stage of
// the decompiler.
//
// An Error names the Phase that failed (decode, validate, render, binding
// and so on) and a Kind. Decode errors also carry the binary table, a byte
// position or code offset, and an element path such as
// function_defs.3.
//
// Build one field by field:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
//		Table("function_handles").
//		At(117).
//		Detail("signature index %d out of range", 9).
//		Build()
//
// or with a shorthand:
//
//	err := errors.InvalidEnum(errors.PhaseDecode, "code", 0xEE, "opcode")
//
// A decode or validate error means no text was produced. Errors match with
// errors.Is by phase and kind, and unwrap to their cause.
package errors
