package main

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheSchema changes whenever cacheEntry or the rendered text format does.
const cacheSchema uint16 = 1

// diskCache keeps decompiled text on disk keyed by input content and the
// settings that affect output. A nil cache is valid and stores nothing.
type diskCache struct {
	dir string
}

type cacheEntry struct {
	Schema uint16
	Text   string
}

func openCache(dir string) (*diskCache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &diskCache{dir: dir}, nil
}

func cacheKey(data []byte, dialect string, light bool) string {
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(dialect))
	h.Write([]byte(strconv.FormatBool(light)))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *diskCache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+".mp")
}

// get returns the cached text. Unreadable or stale entries count as misses.
func (c *diskCache) get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	f, err := os.Open(c.path(key))
	if err != nil {
		return "", false
	}
	defer f.Close()

	var e cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil || e.Schema != cacheSchema {
		return "", false
	}
	return e.Text, true
}

func (c *diskCache) put(key, text string) error {
	if c == nil {
		return nil
	}
	p := c.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&cacheEntry{Schema: cacheSchema, Text: text}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}
