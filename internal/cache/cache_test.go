package cache

import (
	"context"
	"testing"
)

// A nil cache must behave as a no-op rather than panic: Redis is optional.
func TestNilCache_IsNoOp(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var dest struct{ N int }
	hit, err := c.GetJSON(ctx, "k", &dest)
	if err != nil {
		t.Errorf("nil cache GetJSON returned error: %v", err)
	}
	if hit {
		t.Error("nil cache GetJSON reported a hit")
	}

	if err := c.SetJSON(ctx, "k", dest); err != nil {
		t.Errorf("nil cache SetJSON returned error: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("nil cache Delete returned error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil cache Close returned error: %v", err)
	}
}

func TestNew_BadURL(t *testing.T) {
	if _, err := New(context.Background(), "not-a-url", 0); err == nil {
		t.Error("New with invalid URL expected error, got nil")
	}
}
