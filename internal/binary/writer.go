package binary

import (
	"bytes"
	"encoding/binary"
)

// Writer provides buffered writing utilities for Move binary encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteULEB writes an unsigned LEB128 encoded uint64.
func (w *Writer) WriteULEB(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// WriteIndex writes a table index.
func (w *Writer) WriteIndex(v uint16) {
	w.WriteULEB(uint64(v))
}

// WriteName writes a UTF-8 identifier (length-prefixed).
func (w *Writer) WriteName(s string) {
	w.WriteULEB(uint64(len(s)))
	w.buf.WriteString(s)
}

// WriteVecBytes writes a length-prefixed byte vector.
func (w *Writer) WriteVecBytes(data []byte) {
	w.WriteULEB(uint64(len(data)))
	w.buf.Write(data)
}

// WriteU16LE writes a little-endian uint16 (fixed 2 bytes).
func (w *Writer) WriteU16LE(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteU64LE writes a little-endian uint64 (fixed 8 bytes).
func (w *Writer) WriteU64LE(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.buf.Write(buf[:])
}
