package leitner

import "fmt"

// Practice returns the cards due for review on day. A card is due on day d
// only if it currently sits in bucket d.
//
// A day past the last bucket yields an empty set. A negative day is rejected
// with ErrNegativeDay. The returned set is a copy; sets is not modified.
func Practice(sets []CardSet, day int) (CardSet, error) {
	if day < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDay, day)
	}
	if day >= len(sets) {
		return CardSet{}, nil
	}
	return sets[day].Clone(), nil
}
