// Package imports assigns unambiguous aliases to the modules a unit references.
package imports

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/move-decompiler/bytecode"
)

// Entry is one imported module and the name it is referred to by.
type Entry struct {
	Address bytecode.Address
	Name    string
	Alias   string
}

// Aliased reports whether the module needs an "as" clause.
func (e Entry) Aliased() bool {
	return e.Alias != e.Name
}

type key struct {
	addr string
	name string
}

// Table maps (address, module name) to an alias.
type Table struct {
	aliases map[key]string
	entries []Entry
}

// New collects every module handle except the unit's own. Modules sharing a
// name are grouped: the first address keeps the bare name and later ones get
// Name_1, Name_2, ... in first-seen order, skipping aliases that collide with
// another module's name.
func New(u bytecode.Unit) *Table {
	t := u.Common()
	tbl := &Table{aliases: make(map[key]string)}

	self := -1
	if m, ok := u.(*bytecode.CompiledModule); ok {
		self = int(m.Self)
	}

	type group struct {
		name  string
		addrs []bytecode.Address
	}
	var order []*group
	groups := make(map[string]*group)
	names := make(map[string]bool)

	add := func(addr bytecode.Address, name string) {
		g, ok := groups[name]
		if !ok {
			g = &group{name: name}
			groups[name] = g
			order = append(order, g)
		}
		for _, a := range g.addrs {
			if bytes.Equal(a, addr) {
				return
			}
		}
		g.addrs = append(g.addrs, addr)
		names[name] = true
	}

	// The unit's own module claims its name first so imports never shadow it.
	var selfKey *key
	if self >= 0 && self < len(t.ModuleHandles) {
		if addr, name, ok := t.ModuleID(t.ModuleHandles[self]); ok {
			add(addr, name)
			selfKey = &key{addr: string(addr), name: name}
		}
	}
	for i, h := range t.ModuleHandles {
		if i == self {
			continue
		}
		addr, name, ok := t.ModuleID(h)
		if !ok {
			continue
		}
		add(addr, name)
	}

	used := make(map[string]bool)
	for _, g := range order {
		next := 1
		for i, addr := range g.addrs {
			alias := g.name
			if i > 0 {
				for {
					alias = g.name + "_" + strconv.Itoa(next)
					next++
					if !names[alias] && !used[alias] {
						break
					}
				}
			}
			used[alias] = true
			k := key{addr: string(addr), name: g.name}
			tbl.aliases[k] = alias
			if selfKey != nil && k == *selfKey {
				continue
			}
			tbl.entries = append(tbl.entries, Entry{Address: addr, Name: g.name, Alias: alias})
		}
	}

	slices.SortFunc(tbl.entries, func(a, b Entry) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return bytes.Compare(a.Address, b.Address)
	})
	return tbl
}

// Get returns the alias for a module, including the unit's own module.
func (t *Table) Get(addr bytecode.Address, name string) (string, bool) {
	alias, ok := t.aliases[key{addr: string(addr), name: name}]
	return alias, ok
}

// Entries returns the imports sorted by (name, address).
func (t *Table) Entries() []Entry {
	return t.entries
}

// Len is the number of imports.
func (t *Table) Len() int {
	return len(t.entries)
}

// Encode writes one use line per import.
func (t *Table) Encode(w io.Writer, indent int) error {
	pad := strings.Repeat("    ", indent)
	for _, e := range t.entries {
		var err error
		if e.Aliased() {
			_, err = fmt.Fprintf(w, "%suse %s::%s as %s;\n", pad, e.Address.Hex(), e.Name, e.Alias)
		} else {
			_, err = fmt.Fprintf(w, "%suse %s::%s;\n", pad, e.Address.Hex(), e.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
