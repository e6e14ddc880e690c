package engine

import (
	"fmt"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("transcript", "dQw4w9WgXcQ")
		k2 := CacheKey("transcript", "dQw4w9WgXcQ")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("transcript", "dQw4w9WgXcQ")
		k2 := CacheKey("transcript", "9bZkp7q19f0")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "gt:" {
			t.Errorf("key missing prefix: %q", k)
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	c := NewCache(time.Minute, 0, 0)

	t.Run("miss on empty", func(t *testing.T) {
		if _, ok := c.Get("nope"); ok {
			t.Error("expected miss on empty cache")
		}
	})

	t.Run("hit before TTL", func(t *testing.T) {
		c.Set("k", []byte("v"))
		got, ok := c.Get("k")
		if !ok || string(got) != "v" {
			t.Errorf("Get = %q, %v; want v, true", got, ok)
		}
	})

	t.Run("absent after TTL", func(t *testing.T) {
		c.SetTTL("short", []byte("v"), 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		if _, ok := c.Get("short"); ok {
			t.Error("expected expired entry to be absent")
		}
		// lazy eviction removed the entry
		if _, loaded := c.entries.Load("short"); loaded {
			t.Error("expired entry not evicted on read")
		}
	})

	t.Run("delete", func(t *testing.T) {
		c.Set("gone", []byte("v"))
		c.Delete("gone")
		if _, ok := c.Get("gone"); ok {
			t.Error("expected deleted entry to be absent")
		}
	})
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(time.Minute, 3, 0)
	for i := 0; i < 3; i++ {
		c.SetTTL(fmt.Sprintf("k%d", i), []byte("v"), time.Duration(i+1)*time.Minute)
	}
	// At the bound: adding one more must evict the oldest (earliest expiry).
	c.Set("k3", []byte("v"))
	if _, ok := c.Get("k0"); ok {
		t.Error("expected oldest entry k0 to be evicted")
	}
	if _, ok := c.Get("k3"); !ok {
		t.Error("expected new entry k3 to be present")
	}
}

func TestCacheJSONHelpers(t *testing.T) {
	c := NewCache(time.Minute, 0, 0)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	CacheStoreJSON(c, "p", payload{Name: "x", Count: 3}, 0)
	got, ok := CacheLoadJSON[payload](c, "p")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Name != "x" || got.Count != 3 {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	t.Run("decode failure is a miss", func(t *testing.T) {
		c.Set("bad", []byte("{not json"))
		if _, ok := CacheLoadJSON[payload](c, "bad"); ok {
			t.Error("expected miss on corrupt entry")
		}
	})
}
