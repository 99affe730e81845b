// Package model defines domain entities for the application.
package model

import (
	"strconv"
	"time"
)

// Link represents a shortened URL entity.
//
// ShortCode is generated once at creation and never changes. ClickCount
// only moves forward, and only through the redirect path.
type Link struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"shortCode"`
	OriginalURL string    `json:"originalUrl"`
	OwnerID     string    `json:"ownerId"`
	ClickCount  int64     `json:"clickCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CachedLink represents link data stored in Redis for the redirect path.
// Uses string types for Redis hash compatibility. The click counter is
// deliberately absent: it lives only in the database.
type CachedLink struct {
	LinkID      string `redis:"link_id"`
	OriginalURL string `redis:"original_url"`
	OwnerID     string `redis:"owner_id"`
	UpdatedAt   string `redis:"updated_at"` // Unix timestamp
}

// ToLink converts a CachedLink back to the Link domain model.
// Only the fields needed to serve a redirect are populated.
func (c *CachedLink) ToLink(shortCode string) *Link {
	link := &Link{
		ID:          c.LinkID,
		ShortCode:   shortCode,
		OriginalURL: c.OriginalURL,
		OwnerID:     c.OwnerID,
	}

	if c.UpdatedAt != "" {
		if ts, err := strconv.ParseInt(c.UpdatedAt, 10, 64); err == nil {
			link.UpdatedAt = time.Unix(ts, 0)
		}
	}

	return link
}

// ToCachedLink converts a Link to its Redis hash projection.
func (l *Link) ToCachedLink() *CachedLink {
	return &CachedLink{
		LinkID:      l.ID,
		OriginalURL: l.OriginalURL,
		OwnerID:     l.OwnerID,
		UpdatedAt:   strconv.FormatInt(l.UpdatedAt.Unix(), 10),
	}
}
