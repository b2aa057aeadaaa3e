package translate

import "github.com/wippyai/move-decompiler/internal/ast"

// Stack is the symbolic operand stack of one block.
//
// Popping an empty stack never fails: it yields an underflow placeholder
// spanning the offset that asked for the value.
type Stack struct {
	entries []ast.Expr
}

// NewStack creates an empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push adds a value to the top of the stack.
func (s *Stack) Push(e ast.Expr) {
	s.entries = append(s.entries, e)
}

// Pop removes and returns the top value, or an underflow placeholder.
func (s *Stack) Pop(off int) ast.Expr {
	if len(s.entries) == 0 {
		return &ast.Placeholder{Range: ast.At(off), Kind: ast.PlaceholderUnderflow}
	}
	e := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return e
}

// PopN pops n values and returns them in push order.
func (s *Stack) PopN(off, n int) []ast.Expr {
	out := make([]ast.Expr, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = s.Pop(off)
	}
	return out
}

// Peek returns the top value without removing it, or nil.
func (s *Stack) Peek() ast.Expr {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// Len returns the current stack depth.
func (s *Stack) Len() int {
	return len(s.entries)
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Drain removes and returns every value, bottom first.
func (s *Stack) Drain() []ast.Expr {
	out := s.entries
	s.entries = nil
	return out
}
