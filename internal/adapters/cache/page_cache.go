// Package cache keeps rendered responses of read views in memory until a
// mutation invalidates them.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// PageCache stores rendered bodies keyed by view path plus query string.
// Invalidating a path drops every query variant of it and bumps the
// generation, so bodies rendered before the invalidation are not stored.
type PageCache struct {
	store *gocache.Cache
	log   logrus.FieldLogger

	mu         sync.Mutex
	generation uint64
}

func NewPageCache(ttl time.Duration, log logrus.FieldLogger) *PageCache {
	return &PageCache{
		store: gocache.New(ttl, 2*ttl),
		log:   log,
	}
}

func (c *PageCache) Get(key string) ([]byte, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	body, ok := v.([]byte)
	return body, ok
}

func (c *PageCache) Set(key string, body []byte) {
	c.store.Set(key, body, gocache.DefaultExpiration)
}

// Generation is read before rendering a body and handed back to SetIfCurrent.
func (c *PageCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetIfCurrent stores body only if no invalidation happened since gen was
// read.
func (c *PageCache) SetIfCurrent(key string, body []byte, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.store.Set(key, body, gocache.DefaultExpiration)
	return true
}

func (c *PageCache) Invalidate(ctx context.Context, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++

	prefix := path + "?"
	dropped := 0
	for key := range c.store.Items() {
		if key == path || strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
			dropped++
		}
	}
	c.log.WithFields(logrus.Fields{"path": path, "dropped": dropped}).Debug("page cache invalidated")
}

func (c *PageCache) Len() int {
	return c.store.ItemCount()
}
