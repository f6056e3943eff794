package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-phishing-analyzer/internal/core"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), time.Minute)
	t.Cleanup(c.Stop)
	return c
}

func testEntry(key string, ttl time.Duration) *core.CacheEntry {
	return &core.CacheEntry{
		Key: key,
		Result: core.AnalysisResult{
			IsPhishing:           true,
			RiskLevel:            core.RiskHigh,
			SuspiciousIndicators: []string{"spoofed sender"},
			Recommendation:       "Delete it.",
			Summary:              "Phishing.",
			TechnicalDetails:     "details",
		},
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, testEntry("k1", time.Hour)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Result.IsPhishing || got.Result.RiskLevel != core.RiskHigh {
		t.Errorf("unexpected cached result: %+v", got.Result)
	}
}

func TestMemoryCache_GetMissing(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCache_GetExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, testEntry("k1", -time.Second)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err := c.Get(ctx, "k1")
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, testEntry("k1", time.Hour)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := c.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryCache_CleanupRemovesExpiredOnly(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, testEntry("fresh", time.Hour))
	c.Set(ctx, testEntry("stale", -time.Second))

	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if _, err := c.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh entry removed by cleanup: %v", err)
	}
	if _, err := c.Get(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected stale entry removed, got %v", err)
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, testEntry("k1", time.Hour))

	first, _ := c.Get(ctx, "k1")
	first.Result.Summary = "mutated"

	second, _ := c.Get(ctx, "k1")
	if second.Result.Summary != "Phishing." {
		t.Error("mutating a returned entry leaked into the cache")
	}
}
