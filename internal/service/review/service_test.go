package review_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/platform/logger"
	"github.com/phrazzld/leitner/internal/platform/memory"
	"github.com/phrazzld/leitner/internal/service/review"
	"github.com/phrazzld/leitner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deck = "french"

func newService(t *testing.T) (review.Service, *memory.DeckStore) {
	t.Helper()
	decks := memory.NewDeckStore(nil)
	return review.NewService(decks, leitner.NewDefaultService(), nil), decks
}

func mustCard(t *testing.T, front, back, hint string) domain.Card {
	t.Helper()
	card, err := domain.NewCard(front, back, hint)
	require.NoError(t, err)
	return card
}

func TestNewServicePanicsOnNilDependencies(t *testing.T) {
	t.Parallel() // Enable parallel execution

	assert.Panics(t, func() { review.NewService(nil, leitner.NewDefaultService(), nil) })
	assert.Panics(t, func() { review.NewService(memory.NewDeckStore(nil), nil, nil) })
}

func TestAddCard(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, decks := newService(t)
	ctx := context.Background()
	card := mustCard(t, "bonjour", "hello", "greeting")

	placement, err := svc.AddCard(ctx, deck, card)
	require.NoError(t, err)
	assert.Equal(t, 0, placement.Bucket)
	assert.Equal(t, card.Fingerprint(), placement.Fingerprint)

	b, err := decks.Load(ctx, deck)
	require.NoError(t, err)
	assert.True(t, b[0].Contains(card))

	_, err = svc.AddCard(ctx, deck, card)
	assert.ErrorIs(t, err, review.ErrCardExists)

	_, err = svc.AddCard(ctx, deck, domain.Card{Front: " ", Back: "x"})
	assert.ErrorIs(t, err, review.ErrInvalidCard)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var svcErr *review.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, review.OpAddCard, svcErr.Operation)
}

func TestDueCards(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, _ := newService(t)
	ctx := context.Background()
	a := mustCard(t, "a", "1", "")
	b := mustCard(t, "b", "2", "")
	_, err := svc.AddCard(ctx, deck, b)
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, deck, a)
	require.NoError(t, err)

	due, err := svc.DueCards(ctx, deck, 0)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "a", due[0].Card.Front)
	assert.Equal(t, "b", due[1].Card.Front)

	due, err = svc.DueCards(ctx, deck, 7)
	require.NoError(t, err)
	assert.Empty(t, due)

	_, err = svc.DueCards(ctx, deck, -1)
	assert.ErrorIs(t, err, review.ErrInvalidDay)
}

func TestSubmitReviewMovesCardAndRecordsEvent(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, decks := newService(t)
	ctx := context.Background()
	card := mustCard(t, "chat", "cat", "meow")
	_, err := svc.AddCard(ctx, deck, card)
	require.NoError(t, err)
	fp := card.Fingerprint()

	steps := []struct {
		difficulty domain.Difficulty
		from, to   int
	}{
		{domain.Easy, 0, 2},
		{domain.Hard, 2, 3},
		{domain.Easy, 3, 5},
		{domain.Wrong, 5, 0},
	}
	for day, step := range steps {
		event, err := svc.SubmitReview(ctx, deck, fp, step.difficulty, day)
		require.NoError(t, err)
		assert.Equal(t, step.from, event.FromBucket, "step %d", day)
		assert.Equal(t, step.to, event.ToBucket, "step %d", day)
		assert.Equal(t, day, event.Day)
	}

	b, err := decks.Load(ctx, deck)
	require.NoError(t, err)
	bucket, ok := b.Locate(card)
	require.True(t, ok)
	assert.Equal(t, 0, bucket)
	assert.Equal(t, []int{0, 2, 3, 5}, b.Buckets(), "emptied buckets stay in the map")

	history, err := svc.History(ctx, deck)
	require.NoError(t, err)
	require.Len(t, history, len(steps))
	for i, ev := range history {
		assert.Equal(t, steps[i].difficulty, ev.Difficulty)
		assert.Equal(t, fp, ev.Fingerprint)
	}
}

func TestSubmitReviewErrors(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, _ := newService(t)
	ctx := context.Background()
	card := mustCard(t, "Q", "A", "")
	_, err := svc.AddCard(ctx, deck, card)
	require.NoError(t, err)

	tests := []struct {
		name        string
		fingerprint domain.Fingerprint
		difficulty  domain.Difficulty
		day         int
		expected    error
	}{
		{"unknown card", mustCard(t, "other", "card", "").Fingerprint(), domain.Easy, 0, review.ErrCardNotFound},
		{"negative day", card.Fingerprint(), domain.Easy, -3, review.ErrInvalidDay},
		{"invalid difficulty", card.Fingerprint(), domain.Difficulty(9), 0, review.ErrInvalidDifficulty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitReview(ctx, deck, tc.fingerprint, tc.difficulty, tc.day)
			assert.ErrorIs(t, err, tc.expected)

			var svcErr *review.ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, review.OpSubmitReview, svcErr.Operation)
		})
	}

	history, err := svc.History(ctx, deck)
	require.NoError(t, err)
	assert.Empty(t, history, "failed reviews must not be recorded")
}

func TestProgressAndBucketRange(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, _ := newService(t)
	ctx := context.Background()

	_, ok, err := svc.BucketRange(ctx, deck)
	require.NoError(t, err)
	assert.False(t, ok)

	a := mustCard(t, "a", "1", "")
	b := mustCard(t, "b", "2", "")
	for _, c := range []domain.Card{a, b} {
		_, err := svc.AddCard(ctx, deck, c)
		require.NoError(t, err)
	}
	_, err = svc.SubmitReview(ctx, deck, a.Fingerprint(), domain.Easy, 0)
	require.NoError(t, err)

	progress, err := svc.Progress(ctx, deck)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.TotalCards)
	assert.Equal(t, []int{1, 0, 1}, progress.BucketCounts)
	assert.Equal(t, 1, progress.MasteredCards)

	r, ok, err := svc.BucketRange(ctx, deck)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, leitner.BucketRange{MinBucket: 0, MaxBucket: 2}, r)
}

func TestHint(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, _ := newService(t)
	ctx := context.Background()
	withHint := mustCard(t, "Q1", "A1", "think")
	withoutHint := mustCard(t, "Q2", "A2", "")
	for _, c := range []domain.Card{withHint, withoutHint} {
		_, err := svc.AddCard(ctx, deck, c)
		require.NoError(t, err)
	}

	hint, err := svc.Hint(ctx, deck, withHint.Fingerprint())
	require.NoError(t, err)
	assert.Equal(t, "think", hint)

	_, err = svc.Hint(ctx, deck, withoutHint.Fingerprint())
	assert.ErrorIs(t, err, review.ErrNoHint)

	_, err = svc.Hint(ctx, deck, mustCard(t, "x", "y", "z").Fingerprint())
	assert.ErrorIs(t, err, review.ErrCardNotFound)
}

func TestRebuildReplaysHistory(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, decks := newService(t)
	ctx := context.Background()
	a := mustCard(t, "a", "1", "")
	b := mustCard(t, "b", "2", "")
	for _, c := range []domain.Card{a, b} {
		_, err := svc.AddCard(ctx, deck, c)
		require.NoError(t, err)
	}
	for day, d := range []domain.Difficulty{domain.Easy, domain.Easy, domain.Hard} {
		_, err := svc.SubmitReview(ctx, deck, a.Fingerprint(), d, day)
		require.NoError(t, err)
	}
	before, err := svc.Progress(ctx, deck)
	require.NoError(t, err)

	// Scramble stored state; the history still says where a belongs.
	require.NoError(t, decks.Save(ctx, deck, leitner.BucketMap{9: leitner.NewCardSet(a, b)}))

	after, err := svc.Rebuild(ctx, deck)
	require.NoError(t, err)
	assert.Equal(t, before.TotalCards, after.TotalCards)

	stored, err := decks.Load(ctx, deck)
	require.NoError(t, err)
	bucket, ok := stored.Locate(a)
	require.True(t, ok)
	assert.Equal(t, 5, bucket)
	bucket, ok = stored.Locate(b)
	require.True(t, ok)
	assert.Equal(t, 0, bucket)
}

func TestConcurrentReviewsAreSerialized(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, decks := newService(t)
	ctx := context.Background()

	cards := make([]domain.Card, 8)
	for i := range cards {
		cards[i] = mustCard(t, string(rune('a'+i)), "answer", "")
		_, err := svc.AddCard(ctx, deck, cards[i])
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, c := range cards {
		wg.Add(1)
		go func(c domain.Card) {
			defer wg.Done()
			_, err := svc.SubmitReview(ctx, deck, c.Fingerprint(), domain.Easy, 0)
			assert.NoError(t, err)
		}(c)
	}
	wg.Wait()

	b, err := decks.Load(ctx, deck)
	require.NoError(t, err)
	assert.Len(t, b[2], len(cards), "no review may be lost to a concurrent write")

	history, err := svc.History(ctx, deck)
	require.NoError(t, err)
	assert.Len(t, history, len(cards))
}

func TestDecks(t *testing.T) {
	t.Parallel() // Enable parallel execution

	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.AddCard(ctx, "spanish", mustCard(t, "hola", "hello", ""))
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, "french", mustCard(t, "salut", "hi", ""))
	require.NoError(t, err)

	names, err := svc.Decks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"french", "spanish"}, names)
}

// failingStore fails every call with err.
type failingStore struct {
	store.DeckStore
	err error
}

func (f failingStore) Load(context.Context, string) (leitner.BucketMap, error) {
	return nil, f.err
}

func (f failingStore) ListReviews(context.Context, string) ([]domain.ReviewEvent, error) {
	return nil, f.err
}

func TestStoreFailuresAreWrappedAndLogged(t *testing.T) {
	t.Parallel() // Enable parallel execution

	logBuf, log := logger.NewTestLogger(t)
	cause := errors.New("disk on fire")
	svc := review.NewService(failingStore{err: cause}, leitner.NewDefaultService(), log)
	ctx := context.Background()

	_, err := svc.Progress(ctx, deck)
	assert.ErrorIs(t, err, cause)
	var svcErr *review.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, review.OpProgress, svcErr.Operation)

	_, err = svc.History(ctx, deck)
	assert.ErrorIs(t, err, cause)

	_, err = svc.AddCard(ctx, deck, mustCard(t, "Q", "A", ""))
	assert.ErrorIs(t, err, cause)

	logger.AssertLogContains(t, logBuf, "failed to load deck")
	logger.AssertLogField(t, logBuf, "component", "review_service")
}
