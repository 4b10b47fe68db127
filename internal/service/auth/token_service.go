package auth

import (
	"context"
	"slices"
	"time"
)

// TokenService defines operations for managing API bearer tokens.
type TokenService interface {
	// GenerateToken creates a signed token for subject. If decks is non-empty
	// the token grants access to those decks only.
	GenerateToken(ctx context.Context, subject string, decks []string) (string, error)

	// ValidateToken verifies tokenString and returns its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the validated contents of a token.
type Claims struct {
	Subject   string    `json:"sub,omitempty"`
	Decks     []string  `json:"decks,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// CanAccess reports whether the claims grant access to deck.
// Claims without a deck list grant access to every deck.
func (c *Claims) CanAccess(deck string) bool {
	return len(c.Decks) == 0 || slices.Contains(c.Decks, deck)
}
