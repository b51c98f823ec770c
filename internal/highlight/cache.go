package highlight

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultCacheExpiration = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// SpanCache memoizes highlight results by lexer and content.
type SpanCache struct {
	cache *gocache.Cache
}

// NewSpanCache creates a cache whose entries expire after expiration.
func NewSpanCache(expiration, cleanupInterval time.Duration) *SpanCache {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &SpanCache{cache: gocache.New(expiration, cleanupInterval)}
}

// key derives the cache key for src tokenized by lexer. Sources are not
// compared on lookup, so a 64-bit hash collision returns the other
// source's spans; that risk is accepted.
func key(lexer, src string) string {
	return lexer + ":" + strconv.FormatUint(xxhash.Sum64String(src), 16)
}

// Get returns the spans cached for src under lexer.
func (c *SpanCache) Get(lexer, src string) ([]Span, bool) {
	v, found := c.cache.Get(key(lexer, src))
	if !found {
		return nil, false
	}
	spans, ok := v.([]Span)
	return spans, ok
}

// Set stores spans for src under lexer with the default expiration.
func (c *SpanCache) Set(lexer, src string, spans []Span) {
	c.cache.Set(key(lexer, src), spans, gocache.DefaultExpiration)
}

// Len returns the number of cached entries.
func (c *SpanCache) Len() int {
	return c.cache.ItemCount()
}

// Flush removes every entry.
func (c *SpanCache) Flush() {
	c.cache.Flush()
}
