package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/curtail/curtail/internal/model"
)

// Common errors for link repository operations.
var (
	ErrLinkNotFound    = errors.New("link not found")
	ErrShortCodeExists = errors.New("short code already exists")
	ErrDuplicateLink   = errors.New("link already exists for owner and URL")
)

// CreateLink inserts a new link into the database.
// Returns ErrShortCodeExists when the generated code collides (caller
// retries with a fresh code) and ErrDuplicateLink when the same owner
// already shortened the same URL.
func (r *Repository) CreateLink(ctx context.Context, link *model.Link) error {
	query := `
		INSERT INTO links (id, short_code, original_url, owner_id, click_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		link.ID,
		link.ShortCode,
		link.OriginalURL,
		link.OwnerID,
		link.ClickCount,
		link.CreatedAt,
		link.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			// Two unique indexes can fire here: the global short_code
			// index and the per-owner original_url index.
			existing, lookupErr := r.GetLinkByOwnerAndURL(ctx, link.OwnerID, link.OriginalURL)
			if lookupErr == nil && existing != nil {
				return ErrDuplicateLink
			}
			return ErrShortCodeExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// GetLinkByShortCode retrieves a link by its short code.
// This is the hot path for redirects.
func (r *Repository) GetLinkByShortCode(ctx context.Context, shortCode string) (*model.Link, error) {
	query := `
		SELECT id, short_code, original_url, owner_id, click_count, created_at, updated_at
		FROM links
		WHERE short_code = $1
	`

	link, err := scanLink(r.pool.QueryRow(ctx, query, shortCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by short code: %w", err)
	}

	return link, nil
}

// GetLinkByOwnerAndURL retrieves the link a given owner created for a URL.
// Used to make shorten requests idempotent.
func (r *Repository) GetLinkByOwnerAndURL(ctx context.Context, ownerID, originalURL string) (*model.Link, error) {
	query := `
		SELECT id, short_code, original_url, owner_id, click_count, created_at, updated_at
		FROM links
		WHERE owner_id = $1 AND original_url = $2
	`

	link, err := scanLink(r.pool.QueryRow(ctx, query, ownerID, originalURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by owner and URL: %w", err)
	}

	return link, nil
}

// ListLinksByOwner retrieves all links owned by a user, newest first.
func (r *Repository) ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	query := `
		SELECT id, short_code, original_url, owner_id, click_count, created_at, updated_at
		FROM links
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*model.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// UpdateLinkURL replaces the original URL of a link owned by the caller.
// Ownership is part of the query, not a separate authorization step, so
// links owned by others are indistinguishable from missing ones.
func (r *Repository) UpdateLinkURL(ctx context.Context, id, ownerID, originalURL string) (*model.Link, error) {
	query := `
		UPDATE links
		SET original_url = $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, short_code, original_url, owner_id, click_count, created_at, updated_at
	`

	link, err := scanLink(r.pool.QueryRow(ctx, query, id, ownerID, originalURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateLink
		}
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	return link, nil
}

// DeleteLinkByOwner removes a link owned by the caller and returns its
// short code so callers can invalidate the cache.
// Same ownership scoping as UpdateLinkURL.
func (r *Repository) DeleteLinkByOwner(ctx context.Context, id, ownerID string) (string, error) {
	query := `
		DELETE FROM links
		WHERE id = $1 AND owner_id = $2
		RETURNING short_code
	`

	var shortCode string
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(&shortCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrLinkNotFound
		}
		return "", fmt.Errorf("failed to delete link: %w", err)
	}

	return shortCode, nil
}

// IncrementClickCount atomically increments the click counter for a link.
// A single UPDATE keeps concurrent redirects of the same code from losing
// increments.
func (r *Repository) IncrementClickCount(ctx context.Context, shortCode string) error {
	query := `
		UPDATE links
		SET click_count = click_count + 1
		WHERE short_code = $1
	`

	result, err := r.pool.Exec(ctx, query, shortCode)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// ShortCodeExists checks if a short code is already taken.
func (r *Repository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE short_code = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, shortCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check short code existence: %w", err)
	}

	return exists, nil
}

// scanLink scans a single row into a Link model.
func scanLink(row pgx.Row) (*model.Link, error) {
	var link model.Link
	err := row.Scan(
		&link.ID,
		&link.ShortCode,
		&link.OriginalURL,
		&link.OwnerID,
		&link.ClickCount,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
