package dto

import (
	"time"

	"github.com/curtail/curtail/internal/model"
)

// ShortenRequest represents the request body for shortening a URL.
type ShortenRequest struct {
	OriginalURL string `json:"originalUrl"`
}

// UpdateLinkRequest represents the request body for updating a link's
// destination. The short code itself is immutable.
type UpdateLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
}

// LinkResponse represents a link in API responses.
type LinkResponse struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"shortCode"`
	ShortURL    string    `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	OwnerID     string    `json:"ownerId"`
	ClickCount  int64     `json:"clickCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MessageResponse represents a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToLinkResponse converts a Link model to LinkResponse DTO.
func ToLinkResponse(link *model.Link, baseURL string) *LinkResponse {
	return &LinkResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    baseURL + "/" + link.ShortCode,
		OriginalURL: link.OriginalURL,
		OwnerID:     link.OwnerID,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

// ToLinkResponses converts a slice of Link models for list responses.
// The result is never nil so an empty list serializes as [] rather
// than null.
func ToLinkResponses(links []*model.Link, baseURL string) []LinkResponse {
	responses := make([]LinkResponse, len(links))
	for i, link := range links {
		responses[i] = *ToLinkResponse(link, baseURL)
	}
	return responses
}
