package movedecompiler

import (
	"context"
	"crypto/sha256"
	"runtime"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultCacheSize is the number of distinct inputs a Batcher remembers.
const defaultCacheSize = 512

// Input is one unit to decompile in a batch.
type Input struct {
	Name string
	Data []byte
}

// Result is the outcome for one Input. Err is set when that input failed;
// other inputs are unaffected.
type Result struct {
	Name   string
	Text   string
	Err    error
	Cached bool
}

type cached struct {
	text string
	err  error
}

// Batcher decompiles many inputs with one Config, remembering the output
// for recently seen content so identical bytes are decompiled once.
type Batcher struct {
	cache *lru.ARCCache
	cfg   Config
}

// NewBatcher creates a Batcher holding up to size results. A size of zero
// uses a default.
func NewBatcher(cfg Config, size int) (*Batcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &Batcher{cache: cache, cfg: cfg}, nil
}

// DecompileBatch decompiles inputs in parallel with a fresh Batcher.
func DecompileBatch(ctx context.Context, inputs []Input, cfg Config) ([]Result, error) {
	b, err := NewBatcher(cfg, len(inputs))
	if err != nil {
		return nil, err
	}
	return b.Decompile(ctx, inputs)
}

// Decompile returns one Result per input, in input order. The error is
// non-nil only when ctx is canceled.
func (b *Batcher) Decompile(ctx context.Context, inputs []Input) ([]Result, error) {
	results := make([]Result, len(inputs))

	// Identical inputs share one decompilation.
	groups := make(map[[32]byte][]int)
	var order [][32]byte
	for i, in := range inputs {
		results[i].Name = in.Name
		key := sha256.Sum256(in.Data)
		if v, ok := b.cache.Get(key); ok {
			c := v.(cached)
			results[i].Text, results[i].Err, results[i].Cached = c.text, c.err, true
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	if len(order) == 0 {
		return results, nil
	}

	jobs := b.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	unitCfg := b.cfg
	unitCfg.Jobs = 1

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(order)))
	for _, key := range order {
		idx := groups[key]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			first := inputs[idx[0]]
			text, err := DecompileContext(gctx, first.Data, unitCfg)
			if cerr := gctx.Err(); cerr != nil {
				return cerr
			}
			if err != nil {
				Logger().Debug("batch input failed", zap.String("input", first.Name), zap.Error(err))
			}
			b.cache.Add(key, cached{text: text, err: err})
			for n, i := range idx {
				results[i].Text, results[i].Err, results[i].Cached = text, err, n > 0
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
