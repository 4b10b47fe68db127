package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReviewEvent records a single review of a card: which card, how it went and
// on which scheduler day. A sequence of events is a deck's review history and
// can be replayed to rebuild bucket state.
type ReviewEvent struct {
	ID          uuid.UUID   `json:"id"           yaml:"id"`
	Fingerprint Fingerprint `json:"fingerprint"  yaml:"fingerprint"`
	Card        Card        `json:"card"         yaml:"card"`
	Difficulty  Difficulty  `json:"difficulty"   yaml:"difficulty"`
	Day         int         `json:"day"          yaml:"day"`
	FromBucket  int         `json:"from_bucket"  yaml:"from_bucket"`
	ToBucket    int         `json:"to_bucket"    yaml:"to_bucket"`
	ReviewedAt  time.Time   `json:"reviewed_at"  yaml:"reviewed_at"`
}

// NewReviewEvent creates a ReviewEvent with a fresh ID and the current time.
// The bucket fields are filled in by the caller once the transition is known.
func NewReviewEvent(card Card, difficulty Difficulty, day int) (*ReviewEvent, error) {
	event := &ReviewEvent{
		ID:          uuid.New(),
		Fingerprint: card.Fingerprint(),
		Card:        card.Clone(),
		Difficulty:  difficulty,
		Day:         day,
		ReviewedAt:  time.Now().UTC(),
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the ReviewEvent has valid data.
func (e *ReviewEvent) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidReviewEvent)
	}
	if !e.Difficulty.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidReviewEvent, ErrInvalidDifficulty)
	}
	if e.Day < 0 {
		return fmt.Errorf("%w: day cannot be negative", ErrInvalidReviewEvent)
	}
	if e.FromBucket < 0 || e.ToBucket < 0 {
		return fmt.Errorf("%w: bucket cannot be negative", ErrInvalidReviewEvent)
	}
	if e.Fingerprint != e.Card.Fingerprint() {
		return fmt.Errorf("%w: fingerprint does not match card", ErrInvalidReviewEvent)
	}
	return nil
}
