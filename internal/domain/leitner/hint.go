package leitner

import (
	"fmt"

	"github.com/phrazzld/leitner/internal/domain"
)

// GetHint returns the card's hint. It fails with domain.ErrMalformedCard if
// the front, back or hint is empty.
func GetHint(card domain.Card) (string, error) {
	switch {
	case card.Front == "":
		return "", fmt.Errorf("%w: front is empty", domain.ErrMalformedCard)
	case card.Back == "":
		return "", fmt.Errorf("%w: back is empty", domain.ErrMalformedCard)
	case card.Hint == "":
		return "", fmt.Errorf("%w: hint is empty", domain.ErrMalformedCard)
	}
	return card.Hint, nil
}
