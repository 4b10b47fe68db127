package leitner

import (
	"errors"
	"fmt"

	"github.com/phrazzld/leitner/internal/domain"
)

// ErrNilParams is returned when a service is created without parameters.
var ErrNilParams = errors.New("scheduler params cannot be nil")

// Service defines the interface for scheduler operations over a BucketMap.
// It bundles the package functions behind one set of Params.
type Service interface {
	// Buckets returns the dense form of b
	Buckets(b BucketMap) ([]CardSet, error)

	// Due returns the cards due for review on day
	Due(b BucketMap, day int) (CardSet, error)

	// Review applies one review outcome and returns the new state and the move made
	Review(b BucketMap, card domain.Card, difficulty domain.Difficulty) (BucketMap, Move, error)

	// Range returns the span of occupied buckets, false if there is none
	Range(b BucketMap) (BucketRange, bool, error)

	// Progress returns per-bucket counts for b
	Progress(b BucketMap) (Progress, error)

	// Hint returns the card's hint, failing for malformed cards
	Hint(card domain.Card) (string, error)

	// Replay applies a review history in order, starting from b
	Replay(b BucketMap, events []domain.ReviewEvent) (BucketMap, error)

	// Params returns a copy of the parameters in use
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	copied := *params
	return &defaultService{
		params: &copied,
	}, nil
}

func (s *defaultService) Buckets(b BucketMap) ([]CardSet, error) {
	return ToBucketSets(b)
}

func (s *defaultService) Due(b BucketMap, day int) (CardSet, error) {
	if day < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDay, day)
	}
	sets, err := ToBucketSets(b)
	if err != nil {
		return nil, err
	}
	return Practice(sets, day)
}

func (s *defaultService) Review(
	b BucketMap,
	card domain.Card,
	difficulty domain.Difficulty,
) (BucketMap, Move, error) {
	return s.params.Transition(b, card, difficulty)
}

func (s *defaultService) Range(b BucketMap) (BucketRange, bool, error) {
	sets, err := ToBucketSets(b)
	if err != nil {
		return BucketRange{}, false, err
	}
	r, ok := GetBucketRange(sets)
	return r, ok, nil
}

func (s *defaultService) Progress(b BucketMap) (Progress, error) {
	sets, err := ToBucketSets(b)
	if err != nil {
		return Progress{}, err
	}
	return ComputeProgress(sets), nil
}

func (s *defaultService) Hint(card domain.Card) (string, error) {
	return GetHint(card)
}

// Replay validates each event before applying it, so a corrupt history fails
// at the offending event instead of producing a half-applied state.
func (s *defaultService) Replay(b BucketMap, events []domain.ReviewEvent) (BucketMap, error) {
	state := b.Clone()
	for i := range events {
		event := &events[i]
		if err := event.Validate(); err != nil {
			return nil, fmt.Errorf("replay event %d (%s): %w", i, event.ID, err)
		}

		next, _, err := s.params.Transition(state, event.Card, event.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("replay event %d (%s): %w", i, event.ID, err)
		}
		state = next
	}
	return state, nil
}

func (s *defaultService) Params() Params {
	return *s.params
}
