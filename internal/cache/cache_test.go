package cache_test

import (
	"testing"
	"time"

	"github.com/fitcoach/routinecoach/internal/cache"
)

func TestGetMissThenHit(t *testing.T) {
	c := cache.New(time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get() = (%q, %v), want (\"v\", true)", got, ok)
	}
}

func TestExpiredEntryMisses(t *testing.T) {
	c := cache.New(time.Millisecond)
	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected stale entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after stale read evicts entry", c.Len())
	}
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	c := cache.New(0)
	c.Set("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected zero-ttl cache to never hit")
	}
}

func TestReadDoesNotExtendStaleEntry(t *testing.T) {
	c := cache.New(time.Millisecond)
	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)

	_, _ = c.Get("k")
	_, ok := c.Get("k")
	if ok {
		t.Fatal("a stale read must not resurrect the entry")
	}
}
