// Package storetest provides a behavioural test suite that every
// store.DeckStore implementation runs against itself.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) store.DeckStore

// MustCard builds a card or fails the test.
func MustCard(t *testing.T, front, back, hint string, tags ...string) domain.Card {
	t.Helper()
	card, err := domain.NewCard(front, back, hint, tags...)
	require.NoError(t, err)
	return card
}

// RunDeckStoreTests exercises the store.DeckStore contract.
func RunDeckStoreTests(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) store.DeckStore {
		s := newStore(t)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("missing deck loads empty", func(t *testing.T) {
		s := open(t)
		b, err := s.Load(context.Background(), "never-saved")
		require.NoError(t, err)
		assert.NotNil(t, b)
		assert.Zero(t, b.Len())

		reviews, err := s.ListReviews(context.Background(), "never-saved")
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})

	t.Run("save then load round trips", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := MustCard(t, "bonjour", "hello", "greeting", "french", "basics")
		b := MustCard(t, "merci", "thanks", "")
		c := MustCard(t, "chat", "cat", "meow")

		in := leitner.BucketMap{
			0: leitner.NewCardSet(a),
			2: leitner.NewCardSet(b, c),
		}
		require.NoError(t, s.Save(ctx, "french", in))

		out, err := s.Load(ctx, "french")
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())

		bucket, ok := out.Locate(a)
		require.True(t, ok)
		assert.Equal(t, 0, bucket)
		bucket, ok = out.Locate(c)
		require.True(t, ok)
		assert.Equal(t, 2, bucket)

		got, _, ok := out.Find(a.Fingerprint())
		require.True(t, ok)
		assert.True(t, got.Equal(a), "card fields must survive storage")
	})

	t.Run("save replaces previous state", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := MustCard(t, "Q1", "A1", "")
		b := MustCard(t, "Q2", "A2", "")

		require.NoError(t, s.Save(ctx, "deck", leitner.BucketMap{0: leitner.NewCardSet(a, b)}))
		require.NoError(t, s.Save(ctx, "deck", leitner.BucketMap{1: leitner.NewCardSet(a)}))

		out, err := s.Load(ctx, "deck")
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
		bucket, ok := out.Locate(a)
		require.True(t, ok)
		assert.Equal(t, 1, bucket)
		assert.False(t, out[1].Contains(b))
	})

	t.Run("empty buckets survive", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := MustCard(t, "Q", "A", "")
		require.NoError(t, s.Save(ctx, "deck", leitner.BucketMap{
			0: leitner.NewCardSet(a),
			4: leitner.NewCardSet(),
		}))

		out, err := s.Load(ctx, "deck")
		require.NoError(t, err)
		assert.Equal(t, []int{0, 4}, out.Buckets())
		assert.Empty(t, out[4])
	})

	t.Run("loaded state is independent of store", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := MustCard(t, "Q", "A", "")
		require.NoError(t, s.Save(ctx, "deck", leitner.BucketMap{0: leitner.NewCardSet(a)}))

		first, err := s.Load(ctx, "deck")
		require.NoError(t, err)
		first[0].Remove(a)

		second, err := s.Load(ctx, "deck")
		require.NoError(t, err)
		assert.True(t, second[0].Contains(a))
	})

	t.Run("decks are isolated", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := MustCard(t, "Q", "A", "")
		require.NoError(t, s.Save(ctx, "one", leitner.BucketMap{3: leitner.NewCardSet(a)}))

		other, err := s.Load(ctx, "two")
		require.NoError(t, err)
		assert.Zero(t, other.Len())

		names, err := s.Decks(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "one")
		assert.NotContains(t, names, "two")
	})

	t.Run("invalid state is rejected", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := MustCard(t, "Q", "A", "")

		err := s.Save(ctx, "deck", leitner.BucketMap{0: leitner.NewCardSet(a), 1: leitner.NewCardSet(a)})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		err = s.Save(ctx, "deck", leitner.BucketMap{-1: leitner.NewCardSet(a)})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		_, err = s.Load(ctx, "")
		assert.ErrorIs(t, err, store.ErrInvalidDeckName)
	})

	t.Run("reviews append in order", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := MustCard(t, "Q", "A", "h", "t")

		var ids []uuid.UUID
		for day, d := range []domain.Difficulty{domain.Easy, domain.Hard, domain.Wrong} {
			ev, err := domain.NewReviewEvent(a, d, day)
			require.NoError(t, err)
			ev.ToBucket = day
			require.NoError(t, s.AppendReview(ctx, "deck", ev))
			ids = append(ids, ev.ID)
		}

		reviews, err := s.ListReviews(ctx, "deck")
		require.NoError(t, err)
		require.Len(t, reviews, 3)
		for i, ev := range reviews {
			assert.Equal(t, ids[i], ev.ID)
			assert.Equal(t, i, ev.Day)
			assert.Equal(t, i, ev.ToBucket)
			assert.Equal(t, a.Fingerprint(), ev.Fingerprint)
			assert.True(t, ev.Card.Equal(a))
		}
		assert.Equal(t, domain.Wrong, reviews[2].Difficulty)
		assert.NoError(t, reviews[0].Validate())
	})

	t.Run("duplicate review is rejected", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		ev, err := domain.NewReviewEvent(MustCard(t, "Q", "A", ""), domain.Easy, 0)
		require.NoError(t, err)

		require.NoError(t, s.AppendReview(ctx, "deck", ev))
		err = s.AppendReview(ctx, "deck", ev)
		assert.True(t, store.IsDuplicateError(err), "got %v", err)
	})

	t.Run("invalid review is rejected", func(t *testing.T) {
		s := open(t)
		ev, err := domain.NewReviewEvent(MustCard(t, "Q", "A", ""), domain.Easy, 0)
		require.NoError(t, err)
		ev.Day = -1

		err = s.AppendReview(context.Background(), "deck", ev)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}
