package store

import (
	"context"

	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
)

// DeckStore defines the interface for deck persistence.
//
// A deck is identified by name and holds one BucketMap plus the deck's
// review history. Implementations must treat the BucketMap they are given
// as read-only and must return maps the caller may freely modify.
type DeckStore interface {
	// Load returns the bucket state of a deck.
	// A deck that has never been saved loads as an empty BucketMap, not an error.
	Load(ctx context.Context, deck string) (leitner.BucketMap, error)

	// Save replaces the bucket state of a deck.
	// Returns ErrInvalidEntity if the map breaks the bucket invariants.
	Save(ctx context.Context, deck string, buckets leitner.BucketMap) error

	// AppendReview adds an event to the deck's review history.
	AppendReview(ctx context.Context, deck string, event *domain.ReviewEvent) error

	// ListReviews returns the deck's review history, oldest first.
	ListReviews(ctx context.Context, deck string) ([]domain.ReviewEvent, error)

	// Decks returns the names of all stored decks in ascending order.
	Decks(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
