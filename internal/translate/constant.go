package translate

import (
	"encoding/hex"
	"slices"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/binary"
)

// constantText renders a BCS encoded constant in source form.
func constantText(tables *bytecode.Tables, k bytecode.Constant) (string, error) {
	addrLen := tables.AddressLength
	if addrLen == 0 {
		addrLen = bytecode.DefaultAddressLength
	}
	r := binary.NewReader(k.Data)
	s, err := decodeValue(r, k.Type, addrLen)
	if err != nil {
		return "", err
	}
	if r.Len() != 0 {
		return "", invalidData("constant_pool", "trailing bytes after constant")
	}
	return s, nil
}

func decodeValue(r *binary.Reader, tok bytecode.SignatureToken, addrLen int) (string, error) {
	switch tok.Kind {
	case bytecode.TokenBool:
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		switch b {
		case 0:
			return "false", nil
		case 1:
			return "true", nil
		}
		return "", invalidData("constant_pool", "invalid bool byte")
	case bytecode.TokenU8:
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(uint64(b), 10), nil
	case bytecode.TokenU16:
		v, err := r.ReadU16LE()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(uint64(v), 10), nil
	case bytecode.TokenU32:
		v, err := r.ReadU32LE()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(uint64(v), 10), nil
	case bytecode.TokenU64:
		v, err := r.ReadU64LE()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(v, 10), nil
	case bytecode.TokenU128:
		b, err := r.ReadBytes(16)
		if err != nil {
			return "", err
		}
		return wideInt(b), nil
	case bytecode.TokenU256:
		b, err := r.ReadBytes(32)
		if err != nil {
			return "", err
		}
		return wideInt(b), nil
	case bytecode.TokenAddress:
		b, err := r.ReadBytes(addrLen)
		if err != nil {
			return "", err
		}
		return bytecode.Address(b).Hex(), nil
	case bytecode.TokenVector:
		if tok.Elem == nil {
			return "", invalidData("constant_pool", "vector without element type")
		}
		n, err := r.ReadULEBBounded(uint64(r.Len()))
		if err != nil {
			return "", err
		}
		if tok.Elem.Kind == bytecode.TokenU8 {
			b, err := r.ReadBytes(int(n))
			if err != nil {
				return "", err
			}
			return `x"` + hex.EncodeToString(b) + `"`, nil
		}
		items := make([]string, 0, n)
		for range n {
			s, err := decodeValue(r, *tok.Elem, addrLen)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return "vector[" + strings.Join(items, ", ") + "]", nil
	}
	return "", invalidData("constant_pool", "unsupported constant type")
}

// wideInt renders a little-endian unsigned integer of up to 32 bytes.
func wideInt(le []byte) string {
	be := slices.Clone(le)
	slices.Reverse(be)
	return new(uint256.Int).SetBytes(be).Dec()
}
