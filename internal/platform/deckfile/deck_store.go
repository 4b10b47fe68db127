package deckfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/platform/logger"
	"github.com/phrazzld/leitner/internal/store"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the version written to new files.
const FormatVersion = 1

type document struct {
	Version int                 `yaml:"version"`
	Decks   map[string]*deckDoc `yaml:"decks"`
}

type deckDoc struct {
	Buckets map[int][]domain.Card `yaml:"buckets"`
	Reviews []domain.ReviewEvent  `yaml:"reviews,omitempty"`
}

// DeckStore implements store.DeckStore backed by a YAML file.
// A mutex serializes access within the process; the file is re-read on
// every call so edits made between calls are picked up.
type DeckStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ store.DeckStore = (*DeckStore)(nil)

// NewDeckStore creates a store for the file at path. The file is created on
// the first write; a missing file reads as a store with no decks.
func NewDeckStore(path string, logger *slog.Logger) (*DeckStore, error) {
	if path == "" {
		return nil, fmt.Errorf("deck file path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckStore{
		path:   path,
		logger: logger.With(slog.String("component", "deckfile_store"), slog.String("path", path)),
	}, nil
}

// Path returns the file the store reads and writes.
func (s *DeckStore) Path() string {
	return s.path
}

func (s *DeckStore) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &document{Version: FormatVersion, Decks: map[string]*deckDoc{}}, nil
	}
	if err != nil {
		return nil, store.NewStoreError("deck file", "read", "cannot read file", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, store.NewStoreError("deck file", "read", "cannot parse file",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}
	if doc.Version > FormatVersion {
		return nil, store.NewStoreError("deck file", "read",
			fmt.Sprintf("unsupported format version %d", doc.Version), store.ErrInvalidEntity)
	}
	if doc.Decks == nil {
		doc.Decks = map[string]*deckDoc{}
	}
	return &doc, nil
}

func (s *DeckStore) write(doc *document) error {
	doc.Version = FormatVersion
	data, err := yaml.Marshal(doc)
	if err != nil {
		return store.NewStoreError("deck file", "write", "cannot encode file", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return store.NewStoreError("deck file", "write", "cannot create temporary file", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return store.NewStoreError("deck file", "write", "cannot write temporary file", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return store.NewStoreError("deck file", "write", "cannot sync temporary file", err)
	}
	if err := tmp.Close(); err != nil {
		return store.NewStoreError("deck file", "write", "cannot close temporary file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return store.NewStoreError("deck file", "write", "cannot replace file", err)
	}
	return nil
}

func toBucketMap(d *deckDoc) (leitner.BucketMap, error) {
	b := make(leitner.BucketMap, len(d.Buckets))
	for bucket, cards := range d.Buckets {
		for _, card := range cards {
			if err := card.Validate(); err != nil {
				return nil, fmt.Errorf("%w: bucket %d: %w", store.ErrInvalidEntity, bucket, err)
			}
		}
		b[bucket] = leitner.NewCardSet(cards...)
	}
	if err := store.ValidateBuckets(b); err != nil {
		return nil, err
	}
	return b, nil
}

func fromBucketMap(b leitner.BucketMap) map[int][]domain.Card {
	out := make(map[int][]domain.Card, len(b))
	for bucket, cards := range b {
		out[bucket] = cards.Cards()
	}
	return out
}

// Load implements store.DeckStore.Load.
func (s *DeckStore) Load(ctx context.Context, name string) (leitner.BucketMap, error) {
	if err := store.ValidateDeckName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	d, ok := doc.Decks[name]
	if !ok || d == nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("deck not in file, loading empty",
			slog.String("deck", name))
		return leitner.BucketMap{}, nil
	}

	b, err := toBucketMap(d)
	if err != nil {
		return nil, store.NewStoreError("deck", "load", fmt.Sprintf("deck %q is corrupt", name), err)
	}
	return b, nil
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

	doc, err := s.read()
	if err != nil {
		return err
	}
	d, ok := doc.Decks[name]
	if !ok || d == nil {
		d = &deckDoc{}
		doc.Decks[name] = d
	}
	d.Buckets = fromBucketMap(buckets)

	if err := s.write(doc); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("deck saved",
		slog.String("deck", name),
		slog.Int("cards", buckets.Len()))
	return nil
}

// AppendReview implements store.DeckStore.AppendReview.
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

	doc, err := s.read()
	if err != nil {
		return err
	}
	d, ok := doc.Decks[name]
	if !ok || d == nil {
		d = &deckDoc{Buckets: map[int][]domain.Card{}}
		doc.Decks[name] = d
	}
	for _, existing := range d.Reviews {
		if existing.ID == event.ID {
			return store.ErrDuplicateReview
		}
	}
	d.Reviews = append(d.Reviews, *event)
	return s.write(doc)
}

// ListReviews implements store.DeckStore.ListReviews.
func (s *DeckStore) ListReviews(ctx context.Context, name string) ([]domain.ReviewEvent, error) {
	if err := store.ValidateDeckName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	d, ok := doc.Decks[name]
	if !ok || d == nil || len(d.Reviews) == 0 {
		return []domain.ReviewEvent{}, nil
	}
	return d.Reviews, nil
}

// Decks implements store.DeckStore.Decks.
func (s *DeckStore) Decks(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(doc.Decks)), nil
}

// Close implements store.DeckStore.Close. The file is not held open between calls.
func (s *DeckStore) Close() error {
	return nil
}
