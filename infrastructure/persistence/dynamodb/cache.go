package dynamodb

import (
	"fmt"

	"github.com/dgraph-io/ristretto"

	"mnemosyne/domain/core"
)

// EngramCache is a read-through cache in front of GetEngram, trading a
// small staleness window for avoiding a round trip to DynamoDB on the
// retrieval pipeline's hot path.
type EngramCache struct {
	cache *ristretto.Cache
}

// NewEngramCache builds a cache sized for roughly maxItems entries.
func NewEngramCache(maxItems int64) (*EngramCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: build engram cache: %w", err)
	}
	return &EngramCache{cache: c}, nil
}

func cacheKey(ownerID, engramID string) string {
	return ownerID + "/" + engramID
}

// Get returns the cached engram, if present.
func (c *EngramCache) Get(ownerID, engramID string) (*core.Engram, bool) {
	v, ok := c.cache.Get(cacheKey(ownerID, engramID))
	if !ok {
		return nil, false
	}
	e, ok := v.(*core.Engram)
	return e, ok
}

// Set caches e with a cost of 1 entry.
func (c *EngramCache) Set(e *core.Engram) {
	c.cache.Set(cacheKey(e.OwnerID(), e.ID()), e, 1)
}

// Invalidate drops a cached engram, called on every write so readers never
// observe a value staler than the write that just happened.
func (c *EngramCache) Invalidate(ownerID, engramID string) {
	c.cache.Del(cacheKey(ownerID, engramID))
}
