package leitner

import (
	"fmt"

	"github.com/phrazzld/leitner/internal/domain"
)

// Move describes a single card transition.
type Move struct {
	// From is the bucket the card was in, 0 if it was not in any bucket.
	From int
	// To is the bucket the card now occupies.
	To int
	// Found reports whether the card was present before the move.
	Found bool
}

// Update moves card according to difficulty using the default parameters.
// See Params.Update.
func Update(b BucketMap, card domain.Card, difficulty domain.Difficulty) (BucketMap, error) {
	return NewDefaultParams().Update(b, card, difficulty)
}

// Update moves card according to difficulty and returns the new bucket map.
// A card absent from b is treated as if it were in bucket 0.
//
// b is never modified; the returned map shares no sets with it. The bucket
// the card left stays in the map, possibly as an empty set.
func (p *Params) Update(b BucketMap, card domain.Card, difficulty domain.Difficulty) (BucketMap, error) {
	next, _, err := p.Transition(b, card, difficulty)
	return next, err
}

// Transition is Update that also reports the move it applied.
func (p *Params) Transition(
	b BucketMap,
	card domain.Card,
	difficulty domain.Difficulty,
) (BucketMap, Move, error) {
	if !difficulty.IsValid() {
		return nil, Move{}, fmt.Errorf("%w: %d", domain.ErrInvalidDifficulty, int(difficulty))
	}
	if err := b.checkBuckets(); err != nil {
		return nil, Move{}, err
	}

	next := b.Clone()

	var move Move
	move.From, move.Found = next.Locate(card)
	if move.Found {
		next[move.From].Remove(card)
	}

	move.To = p.NextBucket(move.From, difficulty)

	if _, ok := next[move.To]; !ok {
		next[move.To] = CardSet{}
	}
	next[move.To].Add(card)

	return next, move, nil
}

// NextBucket computes the target bucket for a card currently in bucket
// current. The result is never negative.
func (p *Params) NextBucket(current int, difficulty domain.Difficulty) int {
	if difficulty == domain.Wrong {
		return 0
	}
	return max(0, current+p.step(difficulty))
}
