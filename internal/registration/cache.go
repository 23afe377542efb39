package registration

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"chainregistry/pkg/domain"
)

const keyUnverified = "getUnverifiedUsers"

func userKey(addr domain.Address) string {
	return "user:" + strings.ToLower(addr.String())
}

type cacheEntry struct {
	value   any
	expires time.Time
}

// queryCache holds read results until they expire or a confirmed transaction
// invalidates them. Each key carries a generation that invalidate bumps; a load
// started under an older generation can no longer store its result.
type queryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
	gens    map[string]uint64
}

func newQueryCache(ttl time.Duration) *queryCache {
	return &queryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
		gens:    make(map[string]uint64),
	}
}

// generation returns the current generation of key.
func (c *queryCache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// flightKey names a load of key at gen, so loads from before an invalidation
// are never joined by loads after it.
func flightKey(key string, gen uint64) string {
	return key + "#" + strconv.FormatUint(gen, 10)
}

func (c *queryCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// set stores v unless key was invalidated after gen was read.
func (c *queryCache) set(key string, gen uint64, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.entries[key] = cacheEntry{value: v, expires: c.now().Add(c.ttl)}
	return true
}

func (c *queryCache) invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.gens[k]++
	}
}
