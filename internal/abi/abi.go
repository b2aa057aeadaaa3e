// Package abi defines the pointer+length calling convention shared by the
// wasm build of the decompiler and its host.
//
// The guest exports alloc(size) -> ptr, free(ptr, size) and
// decompile(ptr, len, dialect) -> packed. The packed result addresses a
// frame holding two length-prefixed buffers: the decompiled text and an
// error message. Exactly one of them is non-empty.
package abi

import (
	"fortio.org/safecast"

	movedecompiler "github.com/wippyai/move-decompiler"
	"github.com/wippyai/move-decompiler/dialect"
	"github.com/wippyai/move-decompiler/errors"
	"github.com/wippyai/move-decompiler/internal/binary"
)

// Export names.
const (
	ExportAlloc     = "alloc"
	ExportFree      = "free"
	ExportDecompile = "decompile"
)

// Pack combines a pointer and a length into one return value.
func Pack(ptr, size uint32) uint64 {
	return uint64(ptr)<<32 | uint64(size)
}

// Unpack splits a value built by Pack.
func Unpack(v uint64) (ptr, size uint32) {
	return uint32(v >> 32), uint32(v)
}

// EncodeFrame lays out result and errMsg as two u32 little-endian length
// prefixed buffers.
func EncodeFrame(result, errMsg []byte) ([]byte, error) {
	w := binary.NewWriter()
	for _, buf := range [][]byte{result, errMsg} {
		n, err := safecast.Conv[uint32](len(buf))
		if err != nil {
			return nil, errors.Overflow(errors.PhaseBinding, "frame", len(buf), "uint32")
		}
		w.WriteU32LE(n)
		w.WriteBytes(buf)
	}
	return w.Bytes(), nil
}

// DecodeFrame reverses EncodeFrame.
func DecodeFrame(frame []byte) (result, errMsg []byte, err error) {
	r := binary.NewReader(frame)
	bufs := make([][]byte, 2)
	for i := range bufs {
		n, err := r.ReadU32LE()
		if err != nil {
			return nil, nil, errors.Truncated(errors.PhaseBinding, "frame", r.Position(), err)
		}
		size, err := safecast.Conv[int](n)
		if err != nil {
			return nil, nil, errors.Overflow(errors.PhaseBinding, "frame", n, "int")
		}
		if bufs[i], err = r.ReadBytes(size); err != nil {
			return nil, nil, errors.Truncated(errors.PhaseBinding, "frame", r.Position(), err)
		}
	}
	if r.Len() != 0 {
		return nil, nil, errors.InvalidData(errors.PhaseBinding, []string{"frame"}, "trailing bytes after frame")
	}
	return bufs[0], bufs[1], nil
}

// Serve runs one decompile request and returns its frame. Failures are
// reported inside the frame, never as a Go error.
func Serve(data []byte, dialectID uint32) []byte {
	text, err := serve(data, dialectID)
	var frame []byte
	if err != nil {
		frame, _ = EncodeFrame(nil, []byte(err.Error()))
	} else {
		frame, err = EncodeFrame([]byte(text), nil)
		if err != nil {
			frame, _ = EncodeFrame(nil, []byte(err.Error()))
		}
	}
	return frame
}

func serve(data []byte, dialectID uint32) (string, error) {
	d, err := dialect.ByID(dialectID)
	if err != nil {
		return "", err
	}
	return movedecompiler.Decompile(data, movedecompiler.Config{AddressLength: d.AddressLength})
}
