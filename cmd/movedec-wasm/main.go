//go:build wasip1

// Command movedec-wasm is the decompiler built as a WASI reactor. Build it
// with:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o movedec.wasm ./cmd/movedec-wasm
//
// Hosts call alloc, copy the bytecode in, call decompile and read the frame
// described in internal/abi. Every buffer handed out is released with free.
package main

import (
	"unsafe"

	"github.com/wippyai/move-decompiler/internal/abi"
)

// live keeps host-visible buffers reachable until they are freed.
var live = make(map[uint32][]byte)

func pin(buf []byte) uint32 {
	if len(buf) == 0 {
		buf = make([]byte, 1)
	}
	ptr := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
	live[ptr] = buf
	return ptr
}

//go:wasmexport alloc
func alloc(size uint32) uint32 {
	return pin(make([]byte, size))
}

//go:wasmexport free
func free(ptr, _ uint32) {
	delete(live, ptr)
}

//go:wasmexport decompile
func decompile(ptr, size, dialect uint32) uint64 {
	input := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), size)
	frame := abi.Serve(input, dialect)
	return abi.Pack(pin(frame), uint32(len(frame)))
}

func main() {}
