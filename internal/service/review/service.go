package review

import (
	"context"

	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
)

// Placement is a card together with the bucket it occupies.
type Placement struct {
	Card        domain.Card        `json:"card"`
	Fingerprint domain.Fingerprint `json:"fingerprint"`
	Bucket      int                `json:"bucket"`
}

// Service runs the review workflow over named decks.
type Service interface {
	// AddCard places a new card in bucket 0 of the deck.
	// Returns ErrInvalidCard if the card fails validation and ErrCardExists
	// if an identical card is already in the deck.
	AddCard(ctx context.Context, deck string, card domain.Card) (*Placement, error)

	// DueCards returns the cards due on day, ordered by front.
	// Returns ErrInvalidDay for a negative day.
	DueCards(ctx context.Context, deck string, day int) ([]Placement, error)

	// SubmitReview records one review of the card with the given fingerprint
	// on day, moves the card to its new bucket and returns the recorded event.
	// Returns ErrCardNotFound, ErrInvalidDay or ErrInvalidDifficulty.
	SubmitReview(
		ctx context.Context,
		deck string,
		fingerprint domain.Fingerprint,
		difficulty domain.Difficulty,
		day int,
	) (*domain.ReviewEvent, error)

	// Progress returns per-bucket card counts for the deck.
	Progress(ctx context.Context, deck string) (leitner.Progress, error)

	// BucketRange returns the span of occupied buckets; false if the deck is empty.
	BucketRange(ctx context.Context, deck string) (leitner.BucketRange, bool, error)

	// Hint returns the hint of the card with the given fingerprint.
	// Returns ErrCardNotFound, or ErrNoHint if the card is missing a field.
	Hint(ctx context.Context, deck string, fingerprint domain.Fingerprint) (string, error)

	// History returns the deck's review events, oldest first.
	History(ctx context.Context, deck string) ([]domain.ReviewEvent, error)

	// Rebuild recomputes the deck's buckets by resetting every card to
	// bucket 0 and replaying the review history in order.
	Rebuild(ctx context.Context, deck string) (leitner.Progress, error)

	// Decks returns the names of all stored decks.
	Decks(ctx context.Context) ([]string, error)
}
