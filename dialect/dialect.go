// Package dialect names the chain flavours of Move by their address width.
package dialect

import (
	"slices"
	"strings"

	"github.com/wippyai/move-decompiler/errors"
)

// Dialect is a chain flavour of Move.
type Dialect struct {
	Name          string
	AddressLength int
	// ID is the discriminant used by the embedded binding.
	ID uint32
}

var dialects = []Dialect{
	{Name: "pont", AddressLength: 32, ID: 0},
	{Name: "dfinance", AddressLength: 20, ID: 1},
	{Name: "diem", AddressLength: 16, ID: 2},
	{Name: "aptos", AddressLength: 32, ID: 3},
	{Name: "sui", AddressLength: 32, ID: 4},
}

// Default is used when no dialect is named.
var Default = dialects[0]

// Lookup finds a dialect by case-insensitive name. An empty name selects
// Default.
func Lookup(name string) (Dialect, error) {
	if name == "" {
		return Default, nil
	}
	for _, d := range dialects {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Dialect{}, errors.New(errors.PhaseConfig, errors.KindNotFound).
		Value(name).
		Detail("unknown dialect %q (known: %s)", name, strings.Join(Names(), ", ")).
		Build()
}

// ByID finds a dialect by its binding discriminant.
func ByID(id uint32) (Dialect, error) {
	for _, d := range dialects {
		if d.ID == id {
			return d, nil
		}
	}
	return Dialect{}, errors.InvalidEnum(errors.PhaseConfig, "dialect", id, "dialect")
}

// Names lists the known dialects in sorted order.
func Names() []string {
	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = d.Name
	}
	slices.Sort(names)
	return names
}
