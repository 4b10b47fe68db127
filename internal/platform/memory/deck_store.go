package memory

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/platform/logger"
	"github.com/phrazzld/leitner/internal/store"
)

type deck struct {
	buckets leitner.BucketMap
	reviews []domain.ReviewEvent
	ids     map[uuid.UUID]struct{}
}

// DeckStore implements store.DeckStore with maps guarded by a RWMutex.
// Everything crossing the API boundary is deep-copied.
type DeckStore struct {
	mu     sync.RWMutex
	decks  map[string]*deck
	logger *slog.Logger
}

var _ store.DeckStore = (*DeckStore)(nil)

// NewDeckStore creates an empty in-memory store.
// If logger is nil, the default logger is used.
func NewDeckStore(logger *slog.Logger) *DeckStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckStore{
		decks:  make(map[string]*deck),
		logger: logger.With(slog.String("component", "memory_deck_store")),
	}
}

func (s *DeckStore) deckLocked(name string) *deck {
	d, ok := s.decks[name]
	if !ok {
		d = &deck{buckets: leitner.BucketMap{}, ids: make(map[uuid.UUID]struct{})}
		s.decks[name] = d
	}
	return d
}

// Load implements store.DeckStore.Load.
func (s *DeckStore) Load(ctx context.Context, name string) (leitner.BucketMap, error) {
	if err := store.ValidateDeckName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.decks[name]
	if !ok {
		logger.FromContextOrDefault(ctx, s.logger).Debug("deck not stored yet, loading empty",
			slog.String("deck", name))
		return leitner.BucketMap{}, nil
	}
	return d.buckets.Clone(), nil
}

// Save implements store.DeckStore.Save.
func (s *DeckStore) Save(ctx context.Context, name string, buckets leitner.BucketMap) error {
	if err := store.ValidateDeckName(name); err != nil {
		return err
	}
	if err := store.ValidateBuckets(buckets); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deckLocked(name).buckets = buckets.Clone()
	logger.FromContextOrDefault(ctx, s.logger).Debug("deck saved",
		slog.String("deck", name),
		slog.Int("cards", buckets.Len()))
	return nil
}

// AppendReview implements store.DeckStore.AppendReview.
// Returns store.ErrDuplicateReview if an event with the same ID was already recorded.
func (s *DeckStore) AppendReview(ctx context.Context, name string, event *domain.ReviewEvent) error {
	if err := store.ValidateDeckName(name); err != nil {
		return err
	}
	if event == nil {
		return store.NewStoreError("review", "append", "event cannot be nil", store.ErrInvalidEntity)
	}
	if err := event.Validate(); err != nil {
		return store.NewStoreError("review", "append", "validation failed",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.deckLocked(name)
	if _, dup := d.ids[event.ID]; dup {
		return store.ErrDuplicateReview
	}
	ev := *event
	ev.Card = event.Card.Clone()
	d.reviews = append(d.reviews, ev)
	d.ids[event.ID] = struct{}{}
	return nil
}

// ListReviews implements store.DeckStore.ListReviews.
func (s *DeckStore) ListReviews(ctx context.Context, name string) ([]domain.ReviewEvent, error) {
	if err := store.ValidateDeckName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.decks[name]
	if !ok {
		return []domain.ReviewEvent{}, nil
	}
	out := make([]domain.ReviewEvent, len(d.reviews))
	for i, ev := range d.reviews {
		ev.Card = ev.Card.Clone()
		out[i] = ev
	}
	return out, nil
}

// Decks implements store.DeckStore.Decks.
func (s *DeckStore) Decks(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.decks)), nil
}

// Close implements store.DeckStore.Close. It is a no-op.
func (s *DeckStore) Close() error {
	return nil
}
