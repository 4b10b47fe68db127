package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/platform/logger"
	"github.com/phrazzld/leitner/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*reviewServiceImpl)(nil)

type reviewServiceImpl struct {
	decks     store.DeckStore
	scheduler leitner.Service
	locks     *deckLocks
	logger    *slog.Logger
}

// NewService creates a new review Service.
func NewService(decks store.DeckStore, scheduler leitner.Service, logger *slog.Logger) Service {
	if decks == nil {
		panic("decks cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		decks:     decks,
		scheduler: scheduler,
		locks:     newDeckLocks(),
		logger:    logger.With(slog.String("component", "review_service")),
	}
}

func (s *reviewServiceImpl) load(ctx context.Context, op, deck string) (leitner.BucketMap, error) {
	b, err := s.decks.Load(ctx, deck)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load deck",
			slog.String("operation", op),
			slog.String("deck", deck),
			slog.String("error", err.Error()))
		return nil, NewServiceError(op, "failed to load deck", err)
	}
	return b, nil
}

func (s *reviewServiceImpl) AddCard(ctx context.Context, deck string, card domain.Card) (*Placement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("rejected invalid card", slog.String("deck", deck), slog.String("error", err.Error()))
		return nil, NewServiceError(OpAddCard, "card failed validation",
			fmt.Errorf("%w: %w", ErrInvalidCard, err))
	}
	card = card.Clone()

	unlock := s.locks.lock(deck)
	defer unlock()

	b, err := s.load(ctx, OpAddCard, deck)
	if err != nil {
		return nil, err
	}

	fp := card.Fingerprint()
	if _, bucket, found := b.Find(fp); found {
		log.Debug("card already in deck",
			slog.String("deck", deck),
			slog.String("fingerprint", fp.Short()),
			slog.Int("bucket", bucket))
		return nil, NewServiceError(OpAddCard, fmt.Sprintf("card is in bucket %d", bucket), ErrCardExists)
	}

	next := b.Clone()
	if _, ok := next[0]; !ok {
		next[0] = leitner.NewCardSet()
	}
	next[0].Add(card)

	if err := s.decks.Save(ctx, deck, next); err != nil {
		log.Error("failed to save deck", slog.String("deck", deck), slog.String("error", err.Error()))
		return nil, NewServiceError(OpAddCard, "failed to save deck", err)
	}

	log.Info("card added",
		slog.String("deck", deck),
		slog.String("fingerprint", fp.Short()))
	return &Placement{Card: card, Fingerprint: fp, Bucket: 0}, nil
}

func (s *reviewServiceImpl) DueCards(ctx context.Context, deck string, day int) ([]Placement, error) {
	if day < 0 {
		return nil, NewServiceError(OpDueCards, fmt.Sprintf("day %d is negative", day), ErrInvalidDay)
	}

	b, err := s.load(ctx, OpDueCards, deck)
	if err != nil {
		return nil, err
	}

	due, err := s.scheduler.Due(b, day)
	if err != nil {
		return nil, NewServiceError(OpDueCards, "failed to compute due cards", err)
	}

	out := make([]Placement, 0, len(due))
	for _, card := range due.Cards() {
		out = append(out, Placement{Card: card, Fingerprint: card.Fingerprint(), Bucket: day})
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("computed due cards",
		slog.String("deck", deck),
		slog.Int("day", day),
		slog.Int("due", len(out)))
	return out, nil
}

func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	deck string,
	fingerprint domain.Fingerprint,
	difficulty domain.Difficulty,
	day int,
) (*domain.ReviewEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if day < 0 {
		return nil, NewServiceError(OpSubmitReview, fmt.Sprintf("day %d is negative", day), ErrInvalidDay)
	}
	if !difficulty.IsValid() {
		return nil, NewServiceError(OpSubmitReview, difficulty.String(), ErrInvalidDifficulty)
	}

	unlock := s.locks.lock(deck)
	defer unlock()

	b, err := s.load(ctx, OpSubmitReview, deck)
	if err != nil {
		return nil, err
	}

	card, _, found := b.Find(fingerprint)
	if !found {
		log.Warn("card not found for review",
			slog.String("deck", deck),
			slog.String("fingerprint", fingerprint.Short()))
		return nil, NewServiceError(OpSubmitReview, fingerprint.Short(), ErrCardNotFound)
	}

	next, move, err := s.scheduler.Review(b, card, difficulty)
	if err != nil {
		return nil, NewServiceError(OpSubmitReview, "failed to apply review", err)
	}

	event, err := domain.NewReviewEvent(card, difficulty, day)
	if err != nil {
		return nil, NewServiceError(OpSubmitReview, "failed to create review event", err)
	}
	event.FromBucket = move.From
	event.ToBucket = move.To

	if err := s.decks.Save(ctx, deck, next); err != nil {
		log.Error("failed to save deck", slog.String("deck", deck), slog.String("error", err.Error()))
		return nil, NewServiceError(OpSubmitReview, "failed to save deck", err)
	}
	if err := s.decks.AppendReview(ctx, deck, event); err != nil {
		// The bucket move is already stored; Rebuild would not see this review.
		log.Error("failed to record review after saving deck",
			slog.String("deck", deck),
			slog.String("review_id", event.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError(OpSubmitReview, "failed to record review", err)
	}

	log.Info("review recorded",
		slog.String("deck", deck),
		slog.String("fingerprint", fingerprint.Short()),
		slog.String("difficulty", difficulty.String()),
		slog.Int("day", day),
		slog.Int("from_bucket", move.From),
		slog.Int("to_bucket", move.To))
	return event, nil
}

func (s *reviewServiceImpl) Progress(ctx context.Context, deck string) (leitner.Progress, error) {
	b, err := s.load(ctx, OpProgress, deck)
	if err != nil {
		return leitner.Progress{}, err
	}
	progress, err := s.scheduler.Progress(b)
	if err != nil {
		return leitner.Progress{}, NewServiceError(OpProgress, "failed to compute progress", err)
	}
	return progress, nil
}

func (s *reviewServiceImpl) BucketRange(ctx context.Context, deck string) (leitner.BucketRange, bool, error) {
	b, err := s.load(ctx, OpBucketRange, deck)
	if err != nil {
		return leitner.BucketRange{}, false, err
	}
	r, ok, err := s.scheduler.Range(b)
	if err != nil {
		return leitner.BucketRange{}, false, NewServiceError(OpBucketRange, "failed to compute range", err)
	}
	return r, ok, nil
}

func (s *reviewServiceImpl) Hint(ctx context.Context, deck string, fingerprint domain.Fingerprint) (string, error) {
	b, err := s.load(ctx, OpHint, deck)
	if err != nil {
		return "", err
	}

	card, _, found := b.Find(fingerprint)
	if !found {
		return "", NewServiceError(OpHint, fingerprint.Short(), ErrCardNotFound)
	}

	hint, err := s.scheduler.Hint(card)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedCard) {
			return "", NewServiceError(OpHint, err.Error(), ErrNoHint)
		}
		return "", NewServiceError(OpHint, "failed to read hint", err)
	}
	return hint, nil
}

func (s *reviewServiceImpl) History(ctx context.Context, deck string) ([]domain.ReviewEvent, error) {
	events, err := s.decks.ListReviews(ctx, deck)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list reviews",
			slog.String("deck", deck),
			slog.String("error", err.Error()))
		return nil, NewServiceError(OpHistory, "failed to list reviews", err)
	}
	return events, nil
}

func (s *reviewServiceImpl) Rebuild(ctx context.Context, deck string) (leitner.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.lock(deck)
	defer unlock()

	b, err := s.load(ctx, OpRebuild, deck)
	if err != nil {
		return leitner.Progress{}, err
	}
	events, err := s.decks.ListReviews(ctx, deck)
	if err != nil {
		return leitner.Progress{}, NewServiceError(OpRebuild, "failed to list reviews", err)
	}

	start := leitner.BucketMap{0: leitner.NewCardSet()}
	for _, bucket := range b.Buckets() {
		for _, card := range b[bucket] {
			start[0].Add(card)
		}
	}

	rebuilt, err := s.scheduler.Replay(start, events)
	if err != nil {
		log.Error("review history cannot be replayed",
			slog.String("deck", deck),
			slog.String("error", err.Error()))
		return leitner.Progress{}, NewServiceError(OpRebuild, "failed to replay history", err)
	}

	if err := s.decks.Save(ctx, deck, rebuilt); err != nil {
		return leitner.Progress{}, NewServiceError(OpRebuild, "failed to save deck", err)
	}

	progress, err := s.scheduler.Progress(rebuilt)
	if err != nil {
		return leitner.Progress{}, NewServiceError(OpRebuild, "failed to compute progress", err)
	}

	log.Info("deck rebuilt from history",
		slog.String("deck", deck),
		slog.Int("events", len(events)),
		slog.Int("cards", progress.TotalCards))
	return progress, nil
}

func (s *reviewServiceImpl) Decks(ctx context.Context) ([]string, error) {
	names, err := s.decks.Decks(ctx)
	if err != nil {
		return nil, NewServiceError(OpDecks, "failed to list decks", err)
	}
	return names, nil
}
