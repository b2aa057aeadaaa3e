// Package wasmhost runs the WASI build of the decompiler (cmd/movedec-wasm)
// inside wazero, so hosts that only load sandboxed code can still use it.
package wasmhost

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	movedecompiler "github.com/wippyai/move-decompiler"
	"github.com/wippyai/move-decompiler/dialect"
	"github.com/wippyai/move-decompiler/errors"
	"github.com/wippyai/move-decompiler/internal/abi"
)

// Config holds runtime limits.
type Config struct {
	// MemoryLimitPages caps guest memory in 64KB pages. Zero keeps the
	// wazero default.
	MemoryLimitPages uint32
}

// Host owns a wazero runtime and the compiled guest.
type Host struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// New compiles the guest module.
func New(ctx context.Context, wasm []byte, cfg *Config) (*Host, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		r.Close(ctx)
		return nil, errors.Wrap(errors.PhaseBinding, errors.KindUnsupported, err, "instantiate WASI")
	}
	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		r.Close(ctx)
		return nil, errors.Wrap(errors.PhaseBinding, errors.KindInvalidData, err, "compile guest")
	}
	return &Host{runtime: r, compiled: compiled}, nil
}

// Close releases the runtime and every instance created from it.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

// Instance is one instantiated guest. Calls are serialized.
type Instance struct {
	mod       api.Module
	alloc     api.Function
	free      api.Function
	decompile api.Function
	stack     [3]uint64
	mu        sync.Mutex
}

// Instantiate starts a fresh guest. Instances share nothing, so callers
// wanting parallelism create one per goroutine.
func (h *Host) Instantiate(ctx context.Context) (*Instance, error) {
	modCfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize")
	mod, err := h.runtime.InstantiateModule(ctx, h.compiled, modCfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBinding, errors.KindInvalidData, err, "instantiate guest")
	}

	inst := &Instance{mod: mod}
	for name, fn := range map[string]*api.Function{
		abi.ExportAlloc:     &inst.alloc,
		abi.ExportFree:      &inst.free,
		abi.ExportDecompile: &inst.decompile,
	} {
		if *fn = mod.ExportedFunction(name); *fn == nil {
			mod.Close(ctx)
			return nil, errors.NotFound(errors.PhaseBinding, "export", name)
		}
	}
	if mod.Memory() == nil {
		mod.Close(ctx)
		return nil, errors.NotFound(errors.PhaseBinding, "export", "memory")
	}
	return inst, nil
}

// Close releases the instance.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}

// Decompile sends data to the guest and returns its source text.
func (i *Instance) Decompile(ctx context.Context, data []byte, d dialect.Dialect) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	size := uint32(len(data))
	ptr, err := i.call(ctx, i.alloc, uint64(size))
	if err != nil {
		return "", err
	}
	defer i.release(ctx, uint32(ptr), size)

	if !i.mod.Memory().Write(uint32(ptr), data) {
		return "", errors.OutOfBounds(errors.PhaseBinding, []string{"memory"}, int(ptr), int(i.mod.Memory().Size()))
	}

	packed, err := i.call(ctx, i.decompile, ptr, uint64(size), uint64(d.ID))
	if err != nil {
		return "", err
	}
	framePtr, frameLen := abi.Unpack(packed)
	defer i.release(ctx, framePtr, frameLen)

	view, ok := i.mod.Memory().Read(framePtr, frameLen)
	if !ok {
		return "", errors.OutOfBounds(errors.PhaseBinding, []string{"memory"}, int(framePtr), int(i.mod.Memory().Size()))
	}
	result, msg, err := abi.DecodeFrame(view)
	if err != nil {
		return "", err
	}
	if len(msg) > 0 {
		return "", errors.New(errors.PhaseBinding, errors.KindInvalidInput).
			Detail("%s", msg).
			Build()
	}
	return string(result), nil
}

func (i *Instance) call(ctx context.Context, fn api.Function, args ...uint64) (uint64, error) {
	n := copy(i.stack[:], args)
	if err := fn.CallWithStack(ctx, i.stack[:max(n, 1)]); err != nil {
		return 0, errors.Wrap(errors.PhaseBinding, errors.KindInvalidData, err, "call "+fn.Definition().Name())
	}
	return i.stack[0], nil
}

func (i *Instance) release(ctx context.Context, ptr, size uint32) {
	i.stack[0], i.stack[1] = uint64(ptr), uint64(size)
	if err := i.free.CallWithStack(ctx, i.stack[:2]); err != nil {
		movedecompiler.Logger().Warn("free guest buffer",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Decompile runs one request in a throwaway instance.
func (h *Host) Decompile(ctx context.Context, data []byte, d dialect.Dialect) (string, error) {
	inst, err := h.Instantiate(ctx)
	if err != nil {
		return "", err
	}
	defer inst.Close(ctx)
	return inst.Decompile(ctx, data, d)
}
