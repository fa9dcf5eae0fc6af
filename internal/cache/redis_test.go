package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/config"
)

func TestNewDisabledConfigReturnsInertCache(t *testing.T) {
	if c := New(nil); c.Enabled() {
		t.Fatalf("nil config must not enable the cache")
	}
	if c := New(&config.RedisConfig{Enabled: false}); c.Enabled() {
		t.Fatalf("disabled config must not enable the cache")
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if c.Client() != nil {
		t.Fatalf("nil cache must have no client")
	}
	var dest ActiveSpecialsPage
	hit, err := c.GetJSON(ctx, "specials:active:now:1:20", &dest)
	if hit || err != nil {
		t.Fatalf("nil cache read: want miss without error, got hit=%v err=%v", hit, err)
	}
	if err := c.SetJSON(ctx, "specials:active:now:1:20", dest, time.Minute); err != nil {
		t.Fatalf("nil cache write should be a no-op, got %v", err)
	}
	if err := c.Del(ctx, "specials:active:now:1:20"); err != nil {
		t.Fatalf("nil cache delete should be a no-op, got %v", err)
	}
	if _, hit, err := c.GetActiveSpecials(ctx, "now", 1, 20); hit || err != nil {
		t.Fatalf("nil cache page read: want miss without error, got hit=%v err=%v", hit, err)
	}
}

func TestBuildKeyAppliesPrefix(t *testing.T) {
	c := &Cache{prefix: "jg"}
	if got := c.buildKey("specials:active:now:1:20"); got != "jg:specials:active:now:1:20" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := c.buildKey("  "); got != "jg" {
		t.Fatalf("blank key should collapse to the prefix, got %s", got)
	}
}
