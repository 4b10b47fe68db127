package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/service/review"
)

// AddCardRequest defines the payload for adding a card to a deck.
type AddCardRequest struct {
	Front string   `json:"front" validate:"required,max=4096"`
	Back  string   `json:"back"  validate:"required,max=4096"`
	Hint  string   `json:"hint"  validate:"max=4096"`
	Tags  []string `json:"tags"  validate:"omitempty,max=32,dive,required,max=64"`
}

// SubmitReviewRequest defines the payload for recording a review.
type SubmitReviewRequest struct {
	Fingerprint string `json:"fingerprint" validate:"required,len=64,hexadecimal"`
	Difficulty  string `json:"difficulty"  validate:"required,oneof=wrong hard easy"`
	// Day is a pointer so that a missing day is distinguishable from day 0.
	Day *int `json:"day" validate:"required,gte=0"`
}

// CardResponse is a card with its fingerprint and current bucket.
type CardResponse struct {
	Fingerprint string   `json:"fingerprint"`
	Front       string   `json:"front"`
	Back        string   `json:"back"`
	Hint        string   `json:"hint,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Bucket      int      `json:"bucket"`
}

// DueCardsResponse lists the cards due on a day.
type DueCardsResponse struct {
	Deck  string         `json:"deck"`
	Day   int            `json:"day"`
	Cards []CardResponse `json:"cards"`
}

// ReviewEventResponse is one recorded review.
type ReviewEventResponse struct {
	ID          uuid.UUID `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Front       string    `json:"front"`
	Difficulty  string    `json:"difficulty"`
	Day         int       `json:"day"`
	FromBucket  int       `json:"from_bucket"`
	ToBucket    int       `json:"to_bucket"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}

// HistoryResponse lists a deck's reviews, oldest first.
type HistoryResponse struct {
	Deck    string                `json:"deck"`
	Reviews []ReviewEventResponse `json:"reviews"`
}

// ProgressResponse summarizes a deck. Range is omitted for an empty deck.
type ProgressResponse struct {
	Deck          string               `json:"deck"`
	TotalCards    int                  `json:"total_cards"`
	MasteredCards int                  `json:"mastered_cards"`
	BucketCounts  []int                `json:"bucket_counts"`
	Range         *leitner.BucketRange `json:"range,omitempty"`
}

// HintResponse carries a card's hint.
type HintResponse struct {
	Fingerprint string `json:"fingerprint"`
	Hint        string `json:"hint"`
}

// DecksResponse lists deck names.
type DecksResponse struct {
	Decks []string `json:"decks"`
}

// NewCardResponse converts a placement to its wire form.
func NewCardResponse(p review.Placement) CardResponse {
	return CardResponse{
		Fingerprint: p.Fingerprint.String(),
		Front:       p.Card.Front,
		Back:        p.Card.Back,
		Hint:        p.Card.Hint,
		Tags:        p.Card.Tags,
		Bucket:      p.Bucket,
	}
}

// NewReviewEventResponse converts a review event to its wire form.
func NewReviewEventResponse(ev domain.ReviewEvent) ReviewEventResponse {
	return ReviewEventResponse{
		ID:          ev.ID,
		Fingerprint: ev.Fingerprint.String(),
		Front:       ev.Card.Front,
		Difficulty:  ev.Difficulty.String(),
		Day:         ev.Day,
		FromBucket:  ev.FromBucket,
		ToBucket:    ev.ToBucket,
		ReviewedAt:  ev.ReviewedAt,
	}
}

// NewProgressResponse builds the progress summary of deck. bucketRange may
// be nil when the deck holds no cards or the range was not computed.
func NewProgressResponse(deck string, p leitner.Progress, bucketRange *leitner.BucketRange) ProgressResponse {
	counts := p.BucketCounts
	if counts == nil {
		counts = []int{}
	}
	return ProgressResponse{
		Deck:          deck,
		TotalCards:    p.TotalCards,
		MasteredCards: p.MasteredCards,
		BucketCounts:  counts,
		Range:         bucketRange,
	}
}
