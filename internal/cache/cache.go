package cache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang/groupcache/singleflight"
)

type Cache[K string, V any] struct {
	cache *ristretto.Cache[K, V]
	group singleflight.Group
	ttl   time.Duration
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.cache.Get(key)
}

// Set stores value with the default ttl and waits until it is visible to Get.
func (c *Cache[K, V]) Set(key K, value V) bool {
	ok := c.cache.SetWithTTL(key, value, 1, c.ttl)
	c.cache.Wait()
	return ok
}

// ComputeIfAbsent returns the cached value or runs f once for all concurrent callers of the same key.
// Errors are not cached.
func (c *Cache[K, V]) ComputeIfAbsent(key K, f func() (V, error)) (V, error) {
	v, ok := c.Get(key)
	if ok {
		return v, nil
	}
	cv, err := c.group.Do(string(key), func() (any, error) {
		r, err := f()
		if err != nil {
			return nil, err
		}
		c.Set(key, r)
		return r, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return cv.(V), nil
}

func NewCache[K string, V any](ttl time.Duration) *Cache[K, V] {
	cache, _ := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters: 500,
		MaxCost:     500,
		BufferItems: 64,
	})
	return &Cache[K, V]{
		cache: cache,
		group: singleflight.Group{},
		ttl:   ttl,
	}
}
