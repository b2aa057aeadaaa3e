// Package translate rebuilds structured statements from a function's
// instruction stream.
//
// Translation runs a symbolic operand stack over the code. Each non-branch
// opcode is dispatched through a Registry of stateless handlers that pop
// expression operands and push or emit new nodes. Branches are handled by
// the control-flow pass, which pre-scans back edges to find loop headers
// and then classifies every conditional and unconditional jump as if,
// if/else, while, loop, break or continue.
//
// # Recovery
//
// Translation never fails. An instruction whose immediate does not resolve
// becomes an unrecognized placeholder. Popping an empty stack yields an
// underflow placeholder. Values left over at the end of a block are kept
// as residual statements. Recoveries are logged at debug level.
//
// # Bindings
//
// The first store to a local at the top level of the body introduces it
// with let. First stores inside nested blocks declare the local ahead of
// the enclosing top-level statement instead. Consecutive stores of the
// results of one multi-value call or unpack collapse into a single tuple
// or struct pattern.
package translate
