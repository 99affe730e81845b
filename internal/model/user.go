package model

import "time"

// User represents a registered account that owns short links.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity holds the authenticated caller resolved from a bearer token.
// This is injected into the request context by the auth middleware.
type Identity struct {
	UserID string
	Email  string
}
