package schema

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of parsed schemas to keep.
const DefaultCacheSize = 64

// Cache memoizes ParseJSON by content hash. Schemas are immutable, so a
// cached value is shared between callers.
type Cache struct {
	cache *lru.Cache[string, *Schema]
}

// NewCache creates a cache holding up to size parsed schemas.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, *Schema](size)
	return &Cache{cache: cache}
}

// Parse returns the cached schema for data or parses and caches it.
// Invalid descriptions are not cached.
func (c *Cache) Parse(data []byte) (*Schema, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	if s, ok := c.cache.Get(key); ok {
		return s, nil
	}

	s, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, s)
	return s, nil
}

// Len returns the number of cached schemas.
func (c *Cache) Len() int {
	return c.cache.Len()
}
