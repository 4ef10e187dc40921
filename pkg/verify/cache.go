package verify

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled outputs kept by CachedCompiler.
const DefaultCacheSize = 128

// CacheStats reports CachedCompiler effectiveness.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// CachedCompiler memoizes successful compiles by input hash.
// Failures are never cached.
type CachedCompiler struct {
	next   Compiler
	cache  *lru.Cache[string, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedCompiler wraps next with an LRU of size entries.
func NewCachedCompiler(next Compiler, size int) (*CachedCompiler, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedCompiler{next: next, cache: cache}, nil
}

// Compile implements Compiler.
func (c *CachedCompiler) Compile(ctx context.Context, stylesheet string, content []string) (string, error) {
	key := cacheKey(stylesheet, content)
	if out, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return out, nil
	}
	c.misses.Add(1)

	out, err := c.next.Compile(ctx, stylesheet, content)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}

// Stats returns a snapshot of cache counters.
func (c *CachedCompiler) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.cache.Len(),
	}
}

// Purge drops every cached entry.
func (c *CachedCompiler) Purge() {
	c.cache.Purge()
}

// cacheKey hashes every part behind its length so no stylesheet and
// content split can produce the same byte stream as another.
func cacheKey(stylesheet string, content []string) string {
	h := sha256.New()
	var n [8]byte
	write := func(s string) {
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	write(stylesheet)
	binary.BigEndian.PutUint64(n[:], uint64(len(content)))
	h.Write(n[:])
	for _, s := range content {
		write(s)
	}
	return hex.EncodeToString(h.Sum(nil))
}
