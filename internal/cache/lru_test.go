package cache

import (
	"testing"
	"time"
)

func TestLRUCacheSetGet(t *testing.T) {
	c := NewLRUCache[string](3, time.Minute)

	c.Set("2025-09", "overview-sep")
	got, ok := c.Get("2025-09")
	if !ok || got != "overview-sep" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	if _, ok := c.Get("2025-08"); ok {
		t.Fatal("missing key should not be found")
	}
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should survive eviction")
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should not be returned")
	}
	if c.Size() != 0 {
		t.Fatalf("size after expired read = %d", c.Size())
	}
}

func TestLRUCachePurge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("2025-08", 1)
	c.Set("2025-09", 2)
	c.Purge()

	if c.Size() != 0 {
		t.Fatalf("size after purge = %d", c.Size())
	}
	if _, ok := c.Get("2025-09"); ok {
		t.Fatal("purged entry should not be returned")
	}

	// Cache stays usable after a purge.
	c.Set("2025-10", 3)
	if got, ok := c.Get("2025-10"); !ok || got != 3 {
		t.Fatalf("Get after purge = %v, %v", got, ok)
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("removed = %d", removed)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}
}
