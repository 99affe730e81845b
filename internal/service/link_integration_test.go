//go:build integration

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/curtail/curtail/internal/cache"
	"github.com/curtail/curtail/internal/metrics"
	"github.com/curtail/curtail/internal/repository"
	"github.com/curtail/curtail/internal/testutil"
)

func TestIntegrationLinkService_UpdateToDuplicateURL(t *testing.T) {
	ctx, svc, _ := newLinkServiceTestEnv(t)

	const owner = "dup-owner"

	first, err := svc.Shorten(ctx, owner, "https://example.com/first")
	if err != nil {
		t.Fatalf("shorten first: %v", err)
	}

	second, err := svc.Shorten(ctx, owner, "https://example.com/second")
	if err != nil {
		t.Fatalf("shorten second: %v", err)
	}

	// Pointing the second link at the first URL collides with the
	// per-owner unique index.
	_, err = svc.UpdateOriginalURL(ctx, second.ID, owner, first.OriginalURL)
	if !errors.Is(err, ErrDuplicateURL) {
		t.Fatalf("expected ErrDuplicateURL, got %v", err)
	}

	// The losing update leaves the link untouched.
	links, err := svc.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	for _, link := range links {
		if link.ID == second.ID && link.OriginalURL != second.OriginalURL {
			t.Fatalf("failed update modified link: got %q, want %q", link.OriginalURL, second.OriginalURL)
		}
	}
}

func TestIntegrationLinkService_ConcurrentShortenSameURL(t *testing.T) {
	ctx, svc, repo := newLinkServiceTestEnv(t)

	const owner = "race-owner"
	originalURL := fmt.Sprintf("https://example.com/race-%d", time.Now().UnixNano())

	const workers = 10
	codes := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			link, err := svc.Shorten(ctx, owner, originalURL)
			if err != nil {
				errs[i] = err
				return
			}
			codes[i] = link.ShortCode
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}

	// Every caller sees the same link regardless of who won the insert.
	for i := 1; i < workers; i++ {
		if codes[i] != codes[0] {
			t.Fatalf("worker %d got code %q, worker 0 got %q", i, codes[i], codes[0])
		}
	}

	stored, err := repo.GetLinkByOwnerAndURL(ctx, owner, originalURL)
	if err != nil {
		t.Fatalf("get stored link: %v", err)
	}
	if stored.ShortCode != codes[0] {
		t.Fatalf("stored code %q does not match returned code %q", stored.ShortCode, codes[0])
	}
}

func newLinkServiceTestEnv(t *testing.T) (context.Context, *LinkService, *repository.Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetLinksSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	cacheClient, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = cacheClient.Close()
	})

	if err := testutil.FlushRedis(ctx, cacheClient.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	svc := NewLinkService(repo, cacheClient, "http://localhost:8080", metrics.NewNoop())

	return ctx, svc, repo
}
