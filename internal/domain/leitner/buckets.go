package leitner

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/phrazzld/leitner/internal/domain"
)

// CardSet is a set of cards keyed by their structural fingerprint.
// A card can only appear once in a set.
type CardSet map[domain.Fingerprint]domain.Card

// NewCardSet builds a set from the given cards. Duplicate cards collapse.
func NewCardSet(cards ...domain.Card) CardSet {
	set := make(CardSet, len(cards))
	for _, card := range cards {
		set.Add(card)
	}
	return set
}

// Add inserts card into the set.
func (s CardSet) Add(card domain.Card) {
	s[card.Fingerprint()] = card.Clone()
}

// Remove deletes card from the set and reports whether it was present.
func (s CardSet) Remove(card domain.Card) bool {
	fp := card.Fingerprint()
	if _, ok := s[fp]; !ok {
		return false
	}
	delete(s, fp)
	return true
}

// Contains reports whether card is a member of the set.
func (s CardSet) Contains(card domain.Card) bool {
	_, ok := s[card.Fingerprint()]
	return ok
}

// Clone returns a copy of the set. A nil set clones to an empty, non-nil set.
func (s CardSet) Clone() CardSet {
	clone := make(CardSet, len(s))
	for fp, card := range s {
		clone[fp] = card.Clone()
	}
	return clone
}

// Cards returns the members of the set ordered by front, back, hint and tags,
// so callers presenting a set get a stable order.
func (s CardSet) Cards() []domain.Card {
	cards := make([]domain.Card, 0, len(s))
	for _, card := range s {
		cards = append(cards, card)
	}
	slices.SortFunc(cards, compareCards)
	return cards
}

func compareCards(a, b domain.Card) int {
	if c := strings.Compare(a.Front, b.Front); c != 0 {
		return c
	}
	if c := strings.Compare(a.Back, b.Back); c != 0 {
		return c
	}
	if c := strings.Compare(a.Hint, b.Hint); c != 0 {
		return c
	}
	return slices.Compare(a.Tags, b.Tags)
}

// BucketMap is the sparse bucket state: bucket number to the set of cards in
// that bucket. Bucket numbers need not be contiguous; a missing bucket is
// empty. A card must appear in at most one bucket.
type BucketMap map[int]CardSet

// Clone returns a deep copy of the map. The copy shares no sets with b.
func (b BucketMap) Clone() BucketMap {
	clone := make(BucketMap, len(b))
	for bucket, cards := range b {
		clone[bucket] = cards.Clone()
	}
	return clone
}

// Locate returns the bucket holding card, or false if no bucket does.
func (b BucketMap) Locate(card domain.Card) (int, bool) {
	fp := card.Fingerprint()
	for _, bucket := range b.Buckets() {
		if _, ok := b[bucket][fp]; ok {
			return bucket, true
		}
	}
	return 0, false
}

// Find looks up a card by fingerprint and returns it with its bucket.
func (b BucketMap) Find(fp domain.Fingerprint) (domain.Card, int, bool) {
	for _, bucket := range b.Buckets() {
		if card, ok := b[bucket][fp]; ok {
			return card, bucket, true
		}
	}
	return domain.Card{}, 0, false
}

// Buckets returns the bucket numbers present in the map in ascending order.
func (b BucketMap) Buckets() []int {
	return slices.Sorted(maps.Keys(b))
}

// Len returns the total number of cards across all buckets.
func (b BucketMap) Len() int {
	n := 0
	for _, cards := range b {
		n += len(cards)
	}
	return n
}

// Validate checks the bucket invariants: bucket numbers are non-negative and
// no card appears in more than one bucket.
func (b BucketMap) Validate() error {
	seen := make(map[domain.Fingerprint]int, b.Len())
	for _, bucket := range b.Buckets() {
		if bucket < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeBucket, bucket)
		}
		for fp := range b[bucket] {
			if first, ok := seen[fp]; ok {
				return fmt.Errorf("%w: %s in buckets %d and %d",
					ErrDuplicateCard, fp.Short(), first, bucket)
			}
			seen[fp] = bucket
		}
	}
	return nil
}

// checkBuckets reports the first negative bucket number, if any.
func (b BucketMap) checkBuckets() error {
	for bucket := range b {
		if bucket < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeBucket, bucket)
		}
	}
	return nil
}
