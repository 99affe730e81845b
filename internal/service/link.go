// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/curtail/curtail/internal/cache"
	"github.com/curtail/curtail/internal/metrics"
	"github.com/curtail/curtail/internal/model"
	"github.com/curtail/curtail/internal/repository"
)

// Service errors.
var (
	ErrInvalidURL   = errors.New("invalid original URL")
	ErrURLTooLong   = errors.New("original URL too long")
	ErrLinkNotFound = errors.New("link not found")
	ErrDuplicateURL = errors.New("owner already has a link for this URL")
)

const (
	maxOriginalURLLength = 2048
	shortCodeLength      = 7
	shortCodeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	maxShortCodeRetries  = 3
)

// LinkService handles link business logic.
type LinkService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	baseURL string
	metrics metrics.Recorder
}

// NewLinkService creates a new LinkService.
func NewLinkService(repo *repository.Repository, cache *cache.Cache, baseURL string, recorder metrics.Recorder) *LinkService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LinkService{
		repo:    repo,
		cache:   cache,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: recorder,
	}
}

// Shorten creates a short link for the given owner and URL.
// Repeat submissions of the same URL by the same owner return the
// existing link unchanged, so the operation is idempotent.
func (s *LinkService) Shorten(ctx context.Context, ownerID, originalURL string) (*model.Link, error) {
	if err := s.validateOriginalURL(originalURL); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetLinkByOwnerAndURL(ctx, ownerID, originalURL)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrLinkNotFound) {
		return nil, fmt.Errorf("failed to look up existing link: %w", err)
	}

	for i := 0; i < maxShortCodeRetries; i++ {
		now := time.Now().UTC()
		link := &model.Link{
			ID:          ulid.Make().String(),
			ShortCode:   generateShortCode(),
			OriginalURL: originalURL,
			OwnerID:     ownerID,
			ClickCount:  0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err := s.repo.CreateLink(ctx, link)
		if err == nil {
			s.metrics.IncLinkCreated()
			return link, nil
		}
		if errors.Is(err, repository.ErrDuplicateLink) {
			// Lost a race against a concurrent shorten of the same URL.
			winner, lookupErr := s.repo.GetLinkByOwnerAndURL(ctx, ownerID, originalURL)
			if lookupErr == nil {
				return winner, nil
			}
			if errors.Is(lookupErr, repository.ErrLinkNotFound) {
				// The winning row was deleted before the re-read.
				continue
			}
			return nil, fmt.Errorf("failed to look up existing link: %w", lookupErr)
		}
		if errors.Is(err, repository.ErrShortCodeExists) {
			continue
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return nil, errors.New("failed to generate unique short code after retries")
}

// Resolve resolves a short code to its link for a redirect.
// This is the hot path - cache-first lookup with negative caching.
// The second return value reports whether the cache served the lookup.
func (s *LinkService) Resolve(ctx context.Context, shortCode string) (*model.Link, bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	cached, err := s.cache.GetLink(ctx, shortCode)
	if err == nil {
		s.metrics.IncRedirectCacheHit()
		return cached.ToLink(shortCode), true, nil
	}

	if errors.Is(err, cache.ErrCacheMiss) {
		s.metrics.IncRedirectCacheMiss()
		isNegative, _ := s.cache.IsNegativelyCached(ctx, shortCode)
		if isNegative {
			return nil, false, ErrLinkNotFound
		}
	}
	// On Redis errors, fall through to the database.

	link, err := s.repo.GetLinkByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			_ = s.cache.SetNegativeCache(ctx, shortCode)
			return nil, false, ErrLinkNotFound
		}
		return nil, false, err
	}

	// Backfill cache; eventual consistency is acceptable.
	_ = s.cache.SetLink(ctx, shortCode, link)

	return link, false, nil
}

// RecordClick atomically increments the click counter for a short code.
// The counter lives only in the database, so concurrent redirects of the
// same code never lose increments.
func (s *LinkService) RecordClick(ctx context.Context, shortCode string) error {
	err := s.repo.IncrementClickCount(ctx, shortCode)
	if err != nil && !errors.Is(err, repository.ErrLinkNotFound) {
		return err
	}
	return nil
}

// ListByOwner returns all links owned by a user, newest first.
func (s *LinkService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	return s.repo.ListLinksByOwner(ctx, ownerID)
}

// UpdateOriginalURL replaces the destination of an owned link.
// The short code is immutable. Links not owned by the caller resolve to
// ErrLinkNotFound, never to another owner's data. Pointing the link at
// a URL the owner already shortened fails with ErrDuplicateURL.
func (s *LinkService) UpdateOriginalURL(ctx context.Context, id, ownerID, originalURL string) (*model.Link, error) {
	if err := s.validateOriginalURL(originalURL); err != nil {
		return nil, err
	}

	link, err := s.repo.UpdateLinkURL(ctx, id, ownerID, originalURL)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		if errors.Is(err, repository.ErrDuplicateLink) {
			return nil, ErrDuplicateURL
		}
		return nil, err
	}

	s.metrics.IncLinkUpdated()

	// Best effort: a stale cache entry expires on its own.
	_ = s.cache.DeleteLink(ctx, link.ShortCode)

	return link, nil
}

// Delete removes an owned link.
func (s *LinkService) Delete(ctx context.Context, id, ownerID string) error {
	shortCode, err := s.repo.DeleteLinkByOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return ErrLinkNotFound
		}
		return err
	}

	s.metrics.IncLinkDeleted()

	_ = s.cache.DeleteLink(ctx, shortCode)

	return nil
}

// ShortURL builds the public short URL for a code.
func (s *LinkService) ShortURL(shortCode string) string {
	return s.baseURL + "/" + shortCode
}

// BaseURL returns the configured base URL.
func (s *LinkService) BaseURL() string {
	return s.baseURL
}

// validateOriginalURL validates a URL submitted for shortening.
func (s *LinkService) validateOriginalURL(raw string) error {
	if raw == "" {
		return ErrInvalidURL
	}

	if len(raw) > maxOriginalURLLength {
		return ErrURLTooLong
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}

	// Only allow http and https schemes
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidURL
	}

	// Must have a host
	if parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

// generateShortCode generates a random short code using crypto/rand.
func generateShortCode() string {
	b := make([]byte, shortCodeLength)
	for i := range b {
		idx, err := cryptoRandInt(len(shortCodeAlphabet))
		if err != nil {
			// Fallback (should never happen in practice)
			idx = 0
		}
		b[i] = shortCodeAlphabet[idx]
	}
	return string(b)
}

// cryptoRandInt returns a cryptographically secure random integer in [0, max).
func cryptoRandInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
