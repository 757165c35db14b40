// Package snapshotcache provides a ristretto-backed implementation of
// ports.SnapshotCache. Besides the TTL store it keeps a per-user index of
// live keys so that one ledger mutation can drop every cached snapshot for
// that user, whatever filter combination produced it.
package snapshotcache

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

type Cache struct {
	c   *ristretto.Cache
	ttl time.Duration

	mu   sync.Mutex
	keys map[int64]map[string]struct{} // userID -> live snapshot keys
}

// New creates a snapshot cache with the given TTL.
func New(ttl time.Duration) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 24, // ~16MB of snapshots is far more than one user base needs
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: ttl, keys: make(map[int64]map[string]struct{})}, nil
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.c.Get(key)
}

func (c *Cache) Set(userID int64, key string, value interface{}) {
	c.mu.Lock()
	if c.keys[userID] == nil {
		c.keys[userID] = make(map[string]struct{})
	}
	c.keys[userID][key] = struct{}{}
	c.mu.Unlock()

	c.c.SetWithTTL(key, value, 1, c.ttl)
}

func (c *Cache) Delete(key string) {
	c.c.Del(key)
}

// InvalidateUser drops every snapshot registered for the user.
func (c *Cache) InvalidateUser(userID int64) {
	c.mu.Lock()
	keys := c.keys[userID]
	delete(c.keys, userID)
	c.mu.Unlock()

	for key := range keys {
		c.c.Del(key)
	}
}

// Wait blocks until buffered writes are applied. Ristretto applies sets
// asynchronously; tests need this before asserting on Get.
func (c *Cache) Wait() {
	c.c.Wait()
}
