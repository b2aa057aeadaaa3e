package binary

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	r := NewReader([]byte{0xA1, 0x1C})
	b, err := r.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0xA1 {
		t.Errorf("got %x, want a1", b)
	}
	if r.Position() != 1 {
		t.Errorf("position = %d, want 1", r.Position())
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadByte(); err == nil {
		t.Error("expected EOF")
	}
}

func TestReaderReadBytes(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	b, err := r.ReadBytes(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 3 || b[2] != 3 {
		t.Errorf("got %v", b)
	}
	if _, err := r.ReadBytes(2); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("failed read moved position to %d", r.Position())
	}
}

func TestReaderReadULEB(t *testing.T) {
	tests := []struct {
		data []byte
		want uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0x03}, 65535},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, math.MaxUint64},
	}

	for _, tt := range tests {
		r := NewReader(tt.data)
		got, err := r.ReadULEB()
		if err != nil {
			t.Errorf("ReadULEB(%x): %v", tt.data, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadULEB(%x) = %d, want %d", tt.data, got, tt.want)
		}
		if r.Position() != len(tt.data) {
			t.Errorf("ReadULEB(%x) consumed %d bytes", tt.data, r.Position())
		}
	}
}

func TestReaderReadULEBOverflow(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	_, err := NewReader(data).ReadULEB()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}

	data = []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, err = NewReader(data).ReadULEB()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow for 11-byte encoding, got %v", err)
	}
}

func TestReaderReadIndex(t *testing.T) {
	got, err := NewReader([]byte{0xff, 0xff, 0x03}).ReadIndex()
	if err != nil {
		t.Fatal(err)
	}
	if got != math.MaxUint16 {
		t.Errorf("got %d", got)
	}

	_, err = NewReader([]byte{0x80, 0x80, 0x04}).ReadIndex()
	if !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
}

func TestReaderFixedWidth(t *testing.T) {
	r := NewReader([]byte{
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	})
	u16, err := r.ReadU16LE()
	if err != nil || u16 != 0x1234 {
		t.Errorf("ReadU16LE = %x, %v", u16, err)
	}
	u32, err := r.ReadU32LE()
	if err != nil || u32 != 0x12345678 {
		t.Errorf("ReadU32LE = %x, %v", u32, err)
	}
	u64, err := r.ReadU64LE()
	if err != nil || u64 != 0x0102030405060708 {
		t.Errorf("ReadU64LE = %x, %v", u64, err)
	}
	if _, err := r.ReadU16LE(); err == nil {
		t.Error("expected EOF")
	}
}

func TestReaderReadName(t *testing.T) {
	r := NewReader([]byte{0x04, 'C', 'o', 'i', 'n'})
	name, err := r.ReadName(255)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Coin" {
		t.Errorf("got %q", name)
	}

	raw, err := NewReader([]byte{0x02, 0xff, 0xfe}).ReadName(255)
	if !errors.Is(err, ErrInvalidUTF8) || raw != "\xff\xfe" {
		t.Errorf("got %q, %v; want raw bytes with ErrInvalidUTF8", raw, err)
	}

	_, err = NewReader([]byte{0x05, 'a'}).ReadName(3)
	if !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
}

func TestReaderReadVecBytes(t *testing.T) {
	r := NewReader([]byte{0x03, 1, 2, 3, 9})
	b, err := r.ReadVecBytes(16)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 3 {
		t.Errorf("got %v", b)
	}
	rest, err := r.ReadRemaining()
	if err != nil || len(rest) != 1 || rest[0] != 9 {
		t.Errorf("ReadRemaining = %v, %v", rest, err)
	}
}

func TestParseError(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, _ = r.ReadByte()
	err := r.WrapError("signatures", io.ErrUnexpectedEOF)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatal("expected ParseError")
	}
	if pe.Position != 1 || pe.Table != "signatures" {
		t.Errorf("unexpected %+v", pe)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause should unwrap")
	}
	if got := err.Error(); got != "move: signatures at position 1: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Byte(0x0B)
	w.WriteULEB(624485)
	w.WriteIndex(300)
	w.WriteName("vector")
	w.WriteVecBytes([]byte{0xca, 0xfe})
	w.WriteU16LE(0xBEEF)
	w.WriteU32LE(6)
	w.WriteU64LE(math.MaxUint64)

	r := NewReader(w.Bytes())
	if b, _ := r.ReadByte(); b != 0x0B {
		t.Errorf("byte = %x", b)
	}
	if v, _ := r.ReadULEB(); v != 624485 {
		t.Errorf("uleb = %d", v)
	}
	if v, _ := r.ReadIndex(); v != 300 {
		t.Errorf("index = %d", v)
	}
	if s, _ := r.ReadName(255); s != "vector" {
		t.Errorf("name = %q", s)
	}
	if b, _ := r.ReadVecBytes(255); len(b) != 2 || b[1] != 0xfe {
		t.Errorf("vec = %x", b)
	}
	if v, _ := r.ReadU16LE(); v != 0xBEEF {
		t.Errorf("u16 = %x", v)
	}
	if v, _ := r.ReadU32LE(); v != 6 {
		t.Errorf("u32 = %d", v)
	}
	if v, _ := r.ReadU64LE(); v != math.MaxUint64 {
		t.Errorf("u64 = %d", v)
	}
	if r.Len() != 0 {
		t.Errorf("%d trailing bytes", r.Len())
	}
	if w.Len() != len(w.Bytes()) {
		t.Error("Len mismatch")
	}
}
