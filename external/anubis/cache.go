package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/football-api/internal/domain/user"
)

type principalEntry struct {
	principal user.Principal
	expiresAt time.Time
}

// principalCache keeps introspected admins keyed by token hash. An entry
// never outlives the token it was issued for.
type principalCache struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	ttl        time.Duration
	maxEntries int
	entries    map[string]principalEntry
}

func newPrincipalCache(clock clockwork.Clock, ttl time.Duration, maxEntries int) *principalCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &principalCache{
		clock:      clock,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]principalEntry),
	}
}

func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (c *principalCache) get(key string) (user.Principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return user.Principal{}, false
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return user.Principal{}, false
	}
	return entry.principal, true
}

// put stores p until the cache TTL or tokenExpiry, whichever is sooner. A
// zero tokenExpiry means the token did not report one.
func (c *principalCache) put(key string, p user.Principal, tokenExpiry time.Time) {
	if c.ttl <= 0 {
		return
	}

	now := c.clock.Now()
	expiresAt := now.Add(c.ttl)
	if !tokenExpiry.IsZero() && tokenExpiry.Before(expiresAt) {
		expiresAt = tokenExpiry
	}
	if !now.Before(expiresAt) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evict(now)
	}
	c.entries[key] = principalEntry{principal: p, expiresAt: expiresAt}
}

// evict drops expired entries, or the one closest to expiry when none are.
func (c *principalCache) evict(now time.Time) {
	var (
		soonestKey string
		soonest    time.Time
	)
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			continue
		}
		if soonestKey == "" || entry.expiresAt.Before(soonest) {
			soonestKey, soonest = key, entry.expiresAt
		}
	}
	if len(c.entries) >= c.maxEntries && soonestKey != "" {
		delete(c.entries, soonestKey)
	}
}
