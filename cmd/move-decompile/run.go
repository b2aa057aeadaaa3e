package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	movedecompiler "github.com/wippyai/move-decompiler"
	"github.com/wippyai/move-decompiler/dialect"
)

// inputExt is the extension of compiled Move units.
const inputExt = ".mv"

type summary struct {
	ok, cached, failed int
}

// unit is one decompiled input ready for output.
type unit struct {
	name   string
	text   string
	err    error
	cached bool
}

// decompile runs the whole command except interactive display and returns
// the per-input results with a summary.
func decompile(ctx context.Context, o options, log *zap.Logger) ([]unit, bool, error) {
	d, err := dialect.Lookup(o.Dialect)
	if err != nil {
		return nil, false, err
	}
	cache, err := openCache(o.CacheDir)
	if err != nil {
		return nil, false, fmt.Errorf("open cache: %w", err)
	}
	inputs, dirMode, err := collectInputs(o.Input)
	if err != nil {
		return nil, false, err
	}
	log.Debug("decompiling",
		zap.Int("inputs", len(inputs)),
		zap.String("dialect", d.Name),
		zap.Bool("light", o.Light))

	cfg := movedecompiler.Config{
		LightVersion:  o.Light,
		AddressLength: d.AddressLength,
		Jobs:          o.Jobs,
	}

	units := make([]unit, len(inputs))
	keys := make([]string, len(inputs))
	var pending []movedecompiler.Input
	var pendingIdx []int
	for i, in := range inputs {
		units[i].name = in.Name
		keys[i] = cacheKey(in.Data, d.Name, o.Light)
		if text, ok := cache.get(keys[i]); ok {
			units[i].text, units[i].cached = text, true
			continue
		}
		pending = append(pending, in)
		pendingIdx = append(pendingIdx, i)
	}

	switch len(pending) {
	case 0:
	case 1:
		// A lone unit spends Jobs on its functions instead.
		text, err := movedecompiler.DecompileContext(ctx, pending[0].Data, cfg)
		units[pendingIdx[0]].text, units[pendingIdx[0]].err = text, err
	default:
		results, err := movedecompiler.DecompileBatch(ctx, pending, cfg)
		if err != nil {
			return nil, false, err
		}
		for n, r := range results {
			i := pendingIdx[n]
			units[i].text, units[i].err, units[i].cached = r.Text, r.Err, r.Cached
		}
	}

	for _, i := range pendingIdx {
		if units[i].err != nil {
			continue
		}
		if err := cache.put(keys[i], units[i].text); err != nil {
			log.Warn("cache write failed", zap.String("input", units[i].name), zap.Error(err))
		}
	}
	return units, dirMode, nil
}

// collectInputs reads path, or every *.mv file directly inside it when it
// is a directory.
func collectInputs(path string) ([]movedecompiler.Input, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, err
		}
		return []movedecompiler.Input{{Name: path, Data: data}}, false, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, true, err
	}
	var inputs []movedecompiler.Input
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != inputExt {
			continue
		}
		p := filepath.Join(path, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, true, err
		}
		inputs = append(inputs, movedecompiler.Input{Name: p, Data: data})
	}
	if len(inputs) == 0 {
		return nil, true, fmt.Errorf("%s: no %s files", path, inputExt)
	}
	slices.SortFunc(inputs, func(a, b movedecompiler.Input) int { return strings.Compare(a.Name, b.Name) })
	return inputs, true, nil
}

// writeUnits sends successful units to output and reports the rest on
// stderr. In directory mode, or when output is an existing directory, each
// unit becomes <output>/<base>.move.
func writeUnits(units []unit, output string, dirMode bool, stdout, stderr io.Writer) (summary, error) {
	var s summary
	toDir := output != "" && (dirMode || isDir(output))
	if toDir {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return s, err
		}
	}

	var single *os.File
	if output != "" && !toDir {
		f, err := os.Create(output)
		if err != nil {
			return s, err
		}
		defer f.Close()
		single = f
	}

	for _, u := range units {
		if u.err != nil {
			s.failed++
			reportError(stderr, u.name, u.err)
			continue
		}
		s.ok++
		if u.cached {
			s.cached++
		}
		reportPlaceholders(stderr, u.name, u.text)

		var err error
		switch {
		case toDir:
			base := strings.TrimSuffix(filepath.Base(u.name), inputExt) + ".move"
			err = os.WriteFile(filepath.Join(output, base), []byte(u.text), 0o644)
		case single != nil:
			_, err = io.WriteString(single, u.text)
		default:
			if len(units) > 1 {
				fmt.Fprintf(stdout, "// %s\n", u.name)
			}
			_, err = io.WriteString(stdout, u.text)
		}
		if err != nil {
			return s, fmt.Errorf("write %s: %w", u.name, err)
		}
	}
	return s, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
