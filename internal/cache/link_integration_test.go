//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/curtail/curtail/internal/model"
	"github.com/curtail/curtail/internal/testutil"
)

func TestIntegrationCache_SetGetDelete(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	shortCode := testutil.UniqueShortCode("cache")
	link := &model.Link{
		ID:          testutil.UniqueID("link"),
		ShortCode:   shortCode,
		OriginalURL: "https://example.com/cached",
		OwnerID:     "cache-owner",
		UpdatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	if _, err := c.GetLink(ctx, shortCode); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss before set, got %v", err)
	}

	if err := c.SetLink(ctx, shortCode, link); err != nil {
		t.Fatalf("SetLink failed: %v", err)
	}

	cached, err := c.GetLink(ctx, shortCode)
	if err != nil {
		t.Fatalf("GetLink failed: %v", err)
	}
	if cached.LinkID != link.ID {
		t.Errorf("LinkID mismatch: got %q, want %q", cached.LinkID, link.ID)
	}
	if cached.OriginalURL != link.OriginalURL {
		t.Errorf("OriginalURL mismatch: got %q, want %q", cached.OriginalURL, link.OriginalURL)
	}

	restored := cached.ToLink(shortCode)
	if !restored.UpdatedAt.Equal(link.UpdatedAt) {
		t.Errorf("UpdatedAt mismatch: got %s, want %s", restored.UpdatedAt, link.UpdatedAt)
	}

	if err := c.DeleteLink(ctx, shortCode); err != nil {
		t.Fatalf("DeleteLink failed: %v", err)
	}

	if _, err := c.GetLink(ctx, shortCode); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestIntegrationCache_NegativeCache(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	shortCode := testutil.UniqueShortCode("neg")

	negative, err := c.IsNegativelyCached(ctx, shortCode)
	if err != nil {
		t.Fatalf("IsNegativelyCached failed: %v", err)
	}
	if negative {
		t.Fatal("expected no negative cache entry initially")
	}

	if err := c.SetNegativeCache(ctx, shortCode); err != nil {
		t.Fatalf("SetNegativeCache failed: %v", err)
	}

	negative, err = c.IsNegativelyCached(ctx, shortCode)
	if err != nil {
		t.Fatalf("IsNegativelyCached failed: %v", err)
	}
	if !negative {
		t.Fatal("expected negative cache entry after set")
	}

	// Caching real data clears the negative marker.
	link := &model.Link{
		ID:          testutil.UniqueID("link"),
		ShortCode:   shortCode,
		OriginalURL: "https://example.com/now-exists",
		OwnerID:     "neg-owner",
		UpdatedAt:   time.Now().UTC(),
	}
	if err := c.SetLink(ctx, shortCode, link); err != nil {
		t.Fatalf("SetLink failed: %v", err)
	}

	negative, err = c.IsNegativelyCached(ctx, shortCode)
	if err != nil {
		t.Fatalf("IsNegativelyCached failed: %v", err)
	}
	if negative {
		t.Fatal("expected negative cache cleared after SetLink")
	}
}

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}
