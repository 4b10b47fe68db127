package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughConverter lets slice arguments reach sqlmock the way the pgx
// driver accepts them. Plain values are converted as database/sql would.
type passthroughConverter struct{}

func (passthroughConverter) ConvertValue(v any) (driver.Value, error) {
	if dv, err := driver.DefaultParameterConverter.ConvertValue(v); err == nil {
		return dv, nil
	}
	return v, nil
}

// equalArg matches a query argument sqlmock cannot compare itself.
type equalArg struct {
	want any
}

func (a equalArg) Match(v driver.Value) bool {
	return reflect.DeepEqual(a.want, v)
}

func newMockStore(t *testing.T) (*PostgresDeckStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthroughConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresDeckStore(db, nil), mock
}

func TestNewPostgresDeckStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresDeckStore(nil, nil) })
}

func TestPostgresDeckStoreLoad(t *testing.T) {
	s, mock := newMockStore(t)
	card := domain.Card{Front: "bonjour", Back: "hello", Hint: "greeting", Tags: []string{"french", "basics"}}
	plain := domain.Card{Front: "merci", Back: "thanks"}

	mock.ExpectQuery("SELECT bucket FROM deck_buckets").
		WithArgs("french").
		WillReturnRows(sqlmock.NewRows([]string{"bucket"}).AddRow(0).AddRow(2).AddRow(5))
	mock.ExpectQuery("FROM deck_cards").
		WithArgs("french").
		WillReturnRows(sqlmock.NewRows([]string{"fingerprint", "front", "back", "hint", "tags", "bucket"}).
			AddRow(card.Fingerprint().String(), card.Front, card.Back, card.Hint, "{french,basics}", 0).
			AddRow(plain.Fingerprint().String(), plain.Front, plain.Back, "", "{}", 2))

	b, err := s.Load(context.Background(), "french")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []int{0, 2, 5}, b.Buckets())
	assert.True(t, b[0].Contains(card))
	assert.True(t, b[2].Contains(plain))
	assert.Empty(t, b[5])
}

func TestPostgresDeckStoreLoadRejectsFingerprintMismatch(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT bucket FROM deck_buckets").
		WillReturnRows(sqlmock.NewRows([]string{"bucket"}).AddRow(0))
	mock.ExpectQuery("FROM deck_cards").
		WillReturnRows(sqlmock.NewRows([]string{"fingerprint", "front", "back", "hint", "tags", "bucket"}).
			AddRow("abc", "Q", "A", "", "{}", 0))

	_, err := s.Load(context.Background(), "deck")
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestPostgresDeckStoreLoadQueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT bucket FROM deck_buckets").WillReturnError(errors.New("connection refused"))

	_, err := s.Load(context.Background(), "deck")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPostgresDeckStoreSave(t *testing.T) {
	s, mock := newMockStore(t)
	a := domain.Card{Front: "a", Back: "1"}
	b := domain.Card{Front: "b", Back: "2", Tags: []string{"t"}}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM deck_buckets").WithArgs("deck").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO deck_buckets").WithArgs("deck", 0).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO deck_buckets").WithArgs("deck", 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO deck_cards").
		WithArgs("deck", a.Fingerprint().String(), "a", "1", "", equalArg{[]string{}}, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO deck_cards").
		WithArgs("deck", b.Fingerprint().String(), "b", "2", "", equalArg{[]string{"t"}}, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Save(context.Background(), "deck", leitner.BucketMap{
		0: leitner.NewCardSet(a),
		3: leitner.NewCardSet(b),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeckStoreSaveRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM deck_buckets").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO deck_buckets").
		WillReturnError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "deck_buckets_bucket_check"})
	mock.ExpectRollback()

	err := s.Save(context.Background(), "deck", leitner.BucketMap{0: leitner.NewCardSet()})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeckStoreSaveValidatesBeforeQuerying(t *testing.T) {
	s, mock := newMockStore(t)
	a := domain.Card{Front: "a", Back: "1"}

	err := s.Save(context.Background(), "deck", leitner.BucketMap{-2: leitner.NewCardSet(a)})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeckStoreAppendReview(t *testing.T) {
	card := domain.Card{Front: "Q", Back: "A"}
	ev, err := domain.NewReviewEvent(card, domain.Hard, 4)
	require.NoError(t, err)
	ev.FromBucket, ev.ToBucket = 1, 2

	t.Run("inserts", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO review_events").
			WithArgs(ev.ID, "deck", ev.Fingerprint.String(), "Q", "A", "", equalArg{[]string{}},
				"hard", 4, 1, 2, ev.ReviewedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.AppendReview(context.Background(), "deck", ev))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO review_events").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

		err := s.AppendReview(context.Background(), "deck", ev)
		assert.ErrorIs(t, err, store.ErrDuplicateReview)
	})

	t.Run("invalid event", func(t *testing.T) {
		s, mock := newMockStore(t)
		bad := *ev
		bad.ID = uuid.Nil

		err := s.AppendReview(context.Background(), "deck", &bad)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresDeckStoreListReviews(t *testing.T) {
	s, mock := newMockStore(t)
	card := domain.Card{Front: "Q", Back: "A", Tags: []string{"x"}}
	id := uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM review_events").
		WithArgs("deck").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "fingerprint", "front", "back", "hint", "tags",
			"difficulty", "day", "from_bucket", "to_bucket", "reviewed_at",
		}).AddRow(id.String(), card.Fingerprint().String(), "Q", "A", "", "{x}", "easy", 2, 0, 2, at))

	events, err := s.ListReviews(context.Background(), "deck")
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, id, ev.ID)
	assert.Equal(t, domain.Easy, ev.Difficulty)
	assert.True(t, ev.Card.Equal(card))
	assert.Equal(t, at, ev.ReviewedAt)
	assert.NoError(t, ev.Validate())
}

func TestPostgresDeckStoreListReviewsRejectsUnknownDifficulty(t *testing.T) {
	s, mock := newMockStore(t)
	card := domain.Card{Front: "Q", Back: "A"}

	mock.ExpectQuery("FROM review_events").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "fingerprint", "front", "back", "hint", "tags",
			"difficulty", "day", "from_bucket", "to_bucket", "reviewed_at",
		}).AddRow(uuid.NewString(), card.Fingerprint().String(), "Q", "A", "", "{}", "medium", 0, 0, 0, time.Now()))

	_, err := s.ListReviews(context.Background(), "deck")
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrInvalidDifficulty)
}

func TestPostgresDeckStoreDecks(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT deck FROM deck_buckets").
		WillReturnRows(sqlmock.NewRows([]string{"deck"}).AddRow("french").AddRow("spanish"))

	names, err := s.Decks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"french", "spanish"}, names)
}
