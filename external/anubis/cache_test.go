package anubis

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/football-api/internal/domain/user"
)

func TestPrincipalCache_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	cache := newPrincipalCache(clock, time.Minute, 10)
	cache.put("k1", user.Principal{UserID: "u-1"}, time.Time{})

	principal, ok := cache.get("k1")
	if !ok || principal.UserID != "u-1" {
		t.Fatalf("expected cache hit, got %+v ok=%v", principal, ok)
	}

	clock.Advance(time.Minute)
	if _, ok := cache.get("k1"); ok {
		t.Fatalf("expected cache miss after ttl")
	}
}

func TestPrincipalCache_TokenExpiryCapsTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	cache := newPrincipalCache(clock, time.Hour, 10)
	cache.put("k1", user.Principal{UserID: "u-1"}, clock.Now().Add(10*time.Second))

	clock.Advance(9 * time.Second)
	if _, ok := cache.get("k1"); !ok {
		t.Fatalf("expected hit before token expiry")
	}
	clock.Advance(time.Second)
	if _, ok := cache.get("k1"); ok {
		t.Fatalf("expected miss once the token expired")
	}

	cache.put("k2", user.Principal{UserID: "u-2"}, clock.Now().Add(-time.Second))
	if _, ok := cache.get("k2"); ok {
		t.Fatalf("expired tokens must not be cached")
	}
}

func TestPrincipalCache_EvictsSoonestExpiry(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	cache := newPrincipalCache(clock, time.Hour, 2)
	cache.put("short", user.Principal{UserID: "short"}, clock.Now().Add(time.Minute))
	cache.put("long", user.Principal{UserID: "long"}, time.Time{})
	cache.put("new", user.Principal{UserID: "new"}, time.Time{})

	if _, ok := cache.get("short"); ok {
		t.Fatalf("expected entry closest to expiry to be evicted")
	}
	for _, key := range []string{"long", "new"} {
		if _, ok := cache.get(key); !ok {
			t.Fatalf("expected %s to stay cached", key)
		}
	}
}

func TestTokenCacheKey(t *testing.T) {
	t.Parallel()

	if tokenCacheKey("a") == tokenCacheKey("b") {
		t.Fatalf("distinct tokens must not share a key")
	}
	if got := len(tokenCacheKey("a")); got != 64 {
		t.Fatalf("expected hex sha256 key, got length %d", got)
	}
}
