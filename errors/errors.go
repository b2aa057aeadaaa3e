package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // binary to tables
	PhaseValidate  Phase = "validate"  // table index checks
	PhaseTranslate Phase = "translate" // bytecode to expressions
	PhaseRender    Phase = "render"    // declarations to text
	PhaseConfig    Phase = "config"    // options and dialects
	PhaseBinding   Phase = "binding"   // embedded ABI
	PhaseIO        Phase = "io"        // file access
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds  Kind = "out_of_bounds"
	KindInvalidData  Kind = "invalid_data"
	KindTruncated    Kind = "truncated"
	KindUnsupported  Kind = "unsupported"
	KindInvalidUTF8  Kind = "invalid_utf8"
	KindOverflow     Kind = "overflow"
	KindInvalidEnum  Kind = "invalid_enum"
	KindBadMagic     Kind = "bad_magic"
	KindBadVersion   Kind = "bad_version"
	KindDuplicate    Kind = "duplicate"
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindWrite        Kind = "write"
)

// Error is the structured error type used throughout the decompiler
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Table     string
	Detail    string
	Path      []string
	Offset    int
	HasOffset bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Table != "" {
		b.WriteString(" in ")
		b.WriteString(e.Table)
	}

	if e.HasOffset {
		b.WriteString(" @")
		b.WriteString(strconv.Itoa(e.Offset))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path, e.g. "function_defs", "3"
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Table sets the binary table name
func (b *Builder) Table(name string) *Builder {
	b.err.Table = name
	return b
}

// At records a byte position or code offset
func (b *Builder) At(offset int) *Builder {
	b.err.Offset = offset
	b.err.HasOffset = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Truncated creates an unexpected end of input error
func Truncated(phase Phase, table string, offset int, cause error) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTruncated,
		Table:     table,
		Offset:    offset,
		HasOffset: true,
		Detail:    "unexpected end of input",
		Cause:     cause,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, table string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Table:  table,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidEnum creates an invalid enum value error, used for opcodes,
// table kinds, token tags and visibilities.
func InvalidEnum(phase Phase, table string, value any, enumType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Table:  table,
		Detail: fmt.Sprintf("invalid %s value %v", enumType, value),
		Value:  value,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, table string, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Table:  table,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WriteFailed creates an output error for a single unit
func WriteFailed(unit string, cause error) *Error {
	return &Error{
		Phase:  PhaseIO,
		Kind:   KindWrite,
		Detail: fmt.Sprintf("write %s", unit),
		Cause:  cause,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

