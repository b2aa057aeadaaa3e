package wasmhost

// The guest used by the tests. Tests build it on the fly when it is missing.
//go:generate env GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o testdata/movedec.wasm ../cmd/movedec-wasm
