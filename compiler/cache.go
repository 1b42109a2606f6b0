package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/xyproto/env/v2"

	"github.com/vpdb/vbsc/ast"
)

// cacheFormat is bumped whenever generated code changes shape, so units
// produced by an older compiler are never served.
const cacheFormat = 2

const cacheMaxBytes = 64 * 1024 * 1024

var cacheEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("compiler: failed to create CBOR enc mode: %v", err))
	}
	cacheEncMode = em
}

// Cache stores compiled units in a directory, one CBOR file per unit.
// Entries are keyed by everything that affects the output, so a stale
// entry is simply never looked up again; eviction removes the least
// recently used files once the directory grows past its size cap.
type Cache struct {
	Dir string
}

// NewCache returns a cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{Dir: dir}
}

// DefaultCacheDir returns $VBSC_CACHE_DIR, or ~/.cache/vbsc.
func DefaultCacheDir() string {
	return env.Str("VBSC_CACHE_DIR", filepath.Join(env.HomeDir(), ".cache", "vbsc"))
}

type cacheKey struct {
	Format    int      `cbor:"1,keyasint"`
	Source    string   `cbor:"2,keyasint"`
	Export    string   `cbor:"3,keyasint"`
	Container string   `cbor:"4,keyasint"`
	Inline    bool     `cbor:"5,keyasint"`
	Names     []string `cbor:"6,keyasint"`
	Catalogs  []string `cbor:"7,keyasint"`
}

type cacheEntry struct {
	Format   int           `cbor:"1,keyasint"`
	Source   string        `cbor:"2,keyasint"`
	Params   []string      `cbor:"3,keyasint"`
	Warnings []ast.Warning `cbor:"4,keyasint"`
}

// Key returns the hex key of a compilation.
func (c *Cache) Key(normalized, export, container string, inline bool, names ast.Namespaces, catalogs Catalogs) string {
	data, err := cacheEncMode.Marshal(cacheKey{
		Format:    cacheFormat,
		Source:    normalized,
		Export:    export,
		Container: container,
		Inline:    inline,
		Names:     names.Params(),
		Catalogs:  catalogs.digest(),
	})
	if err != nil {
		// unreachable for plain strings; fall back to a key nothing matches
		return fmt.Sprintf("unkeyable-%d", time.Now().UnixNano())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, key+".cbor")
}

// Get returns the unit stored under key. The entry's timestamp is touched
// to keep it in the cache.
func (c *Cache) Get(key string) (*Unit, bool) {
	p := c.path(key)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	var e cacheEntry
	if err := cbor.Unmarshal(data, &e); err != nil || e.Format != cacheFormat {
		log.Debugf("discarding cache entry %s", p)
		os.Remove(p)
		return nil, false
	}
	now := time.Now()
	os.Chtimes(p, now, now)
	return &Unit{Source: e.Source, Params: e.Params, Warnings: e.Warnings}, true
}

// Put stores unit under key, then evicts old entries if needed.
func (c *Cache) Put(key string, unit *Unit) error {
	data, err := cacheEncMode.Marshal(cacheEntry{
		Format:   cacheFormat,
		Source:   unit.Source,
		Params:   unit.Params,
		Warnings: unit.Warnings,
	})
	if err != nil {
		return fmt.Errorf("encoding unit: %w", err)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storing cache entry: %w", err)
	}
	c.evict(cacheMaxBytes)
	return nil
}

// evict removes the oldest entries until the cache is under maxBytes.
func (c *Cache) evict(maxBytes int64) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return
	}

	type entry struct {
		path    string
		size    int64
		modTime time.Time
	}

	var files []entry
	var totalSize int64
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".cbor" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, entry{path: filepath.Join(c.Dir, e.Name()), size: info.Size(), modTime: info.ModTime()})
		totalSize += info.Size()
	}
	if totalSize <= maxBytes {
		return
	}

	// Sort oldest first.
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	for _, f := range files {
		if totalSize <= maxBytes {
			break
		}
		os.Remove(f.path)
		totalSize -= f.size
	}
}
