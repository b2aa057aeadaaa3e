package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// ErrOverflow is returned when a ULEB128 value exceeds the maximum size.
var ErrOverflow = errors.New("uleb128: overflow")

// ErrRange is returned when a decoded value exceeds its declared bound.
var ErrRange = errors.New("value out of range")

// ErrInvalidUTF8 is returned by ReadName for identifiers that are not UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in identifier")

// Reader wraps a byte slice with position tracking and Move-specific read methods.
type Reader struct {
	r   *bytes.Reader
	pos int
}

// NewReader creates a new Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data)}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return r.r.Len()
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, err
	}
	r.pos += n
	return buf, nil
}

// ReadULEB reads an unsigned LEB128 encoded uint64.
func (r *Reader) ReadULEB() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 63 && b > 1 {
			return 0, r.wrapError(ErrOverflow)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift > 63 {
			return 0, r.wrapError(ErrOverflow)
		}
	}
}

// ReadULEBBounded reads a ULEB128 value and rejects anything above max.
func (r *Reader) ReadULEBBounded(max uint64) (uint64, error) {
	v, err := r.ReadULEB()
	if err != nil {
		return 0, err
	}
	if v > max {
		return 0, r.wrapError(fmt.Errorf("%w: %d > %d", ErrRange, v, max))
	}
	return v, nil
}

// ReadIndex reads a ULEB128 table index (u16 in the Move format).
func (r *Reader) ReadIndex() (uint16, error) {
	v, err := r.ReadULEBBounded(math.MaxUint16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// ReadU32 reads a ULEB128 value bounded to uint32.
func (r *Reader) ReadU32() (uint32, error) {
	v, err := r.ReadULEBBounded(math.MaxUint32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// ReadU16LE reads a little-endian uint16 (fixed 2 bytes).
func (r *Reader) ReadU16LE() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU64LE reads a little-endian uint64 (fixed 8 bytes).
func (r *Reader) ReadU64LE() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadName reads a UTF-8 encoded identifier (ULEB128 length prefix). When
// the bytes are not UTF-8 they are still returned, with ErrInvalidUTF8.
func (r *Reader) ReadName(maxLen uint64) (string, error) {
	length, err := r.ReadULEBBounded(maxLen)
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return string(data), ErrInvalidUTF8
	}
	return string(data), nil
}

// ReadVecBytes reads a ULEB128 length-prefixed byte vector.
func (r *Reader) ReadVecBytes(maxLen uint64) ([]byte, error) {
	length, err := r.ReadULEBBounded(maxLen)
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(length))
}

// ReadRemaining reads all remaining bytes from the reader.
func (r *Reader) ReadRemaining() ([]byte, error) {
	return r.ReadBytes(r.r.Len())
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}

// ParseError represents an error during binary parsing with position information.
type ParseError struct {
	Err      error
	Table    string
	Position int
}

func (e *ParseError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("move: %s at position %d: %v", e.Table, e.Position, e.Err)
	}
	return fmt.Sprintf("move: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapError creates a ParseError with the current position.
func (r *Reader) WrapError(table string, err error) error {
	return &ParseError{
		Position: r.pos,
		Table:    table,
		Err:      err,
	}
}
