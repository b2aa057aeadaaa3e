package movedecompiler

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/errors"
	"github.com/wippyai/move-decompiler/internal/assemble"
)

// Config controls decompilation. The zero value decompiles full bodies of
// units with 32-byte addresses, one function at a time.
type Config struct {
	// LightVersion renders signatures only.
	LightVersion bool

	// AddressLength is the account address width in bytes. Zero means
	// bytecode.DefaultAddressLength.
	AddressLength int

	// Jobs bounds parallel work: function bodies within one unit, or
	// inputs within a batch. Zero or one means sequential.
	Jobs int
}

func (c Config) validate() error {
	if c.AddressLength < 0 || c.AddressLength > bytecode.DefaultAddressLength {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.AddressLength).
			Detail("address length must be between 1 and %d", bytecode.DefaultAddressLength).
			Build()
	}
	if c.Jobs < 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Jobs).
			Detail("jobs must not be negative").
			Build()
	}
	return nil
}

func (c Config) addressLength() int {
	if c.AddressLength == 0 {
		return bytecode.DefaultAddressLength
	}
	return c.AddressLength
}

// Decompile decodes data and renders it as source text.
func Decompile(data []byte, cfg Config) (string, error) {
	return DecompileContext(context.Background(), data, cfg)
}

// DecompileContext is Decompile with cancellation between functions.
func DecompileContext(ctx context.Context, data []byte, cfg Config) (string, error) {
	unit, err := Decode(data, cfg)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := decompileUnit(ctx, &b, unit, cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Decode decodes and structurally checks a compiled module or script.
func Decode(data []byte, cfg Config) (bytecode.Unit, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return bytecode.Deserialize(data, bytecode.WithAddressLength(cfg.addressLength()))
}

// DecompileUnit renders an already decoded unit to w.
func DecompileUnit(w io.Writer, unit bytecode.Unit, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	return decompileUnit(context.Background(), w, unit, cfg)
}

func decompileUnit(ctx context.Context, w io.Writer, unit bytecode.Unit, cfg Config) error {
	opts := assemble.Options{
		Log:   Logger(),
		Light: cfg.LightVersion,
		Jobs:  cfg.Jobs,
	}

	var decl interface {
		Encode(w io.Writer, indent int) error
	}
	var name string
	switch u := unit.(type) {
	case *bytecode.CompiledModule:
		m, err := assemble.Module(ctx, u, opts)
		if err != nil {
			return err
		}
		Logger().Debug("assembled module",
			zap.String("module", m.Address+"::"+m.Name),
			zap.Int("structs", len(m.Structs)),
			zap.Int("functions", len(m.Functions)))
		decl, name = m, "module "+m.Address+"::"+m.Name
	case *bytecode.CompiledScript:
		s, err := assemble.Script(ctx, u, opts)
		if err != nil {
			return err
		}
		Logger().Debug("assembled script", zap.Int("params", len(s.Main.Params)))
		decl, name = s, "script"
	default:
		return errors.Unsupported(errors.PhaseRender, "unknown unit type")
	}

	if err := decl.Encode(w, 0); err != nil {
		return errors.WriteFailed(name, err)
	}
	return nil
}
