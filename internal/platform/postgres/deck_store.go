package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/platform/logger"
	"github.com/phrazzld/leitner/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// The connection pool is owned by the caller; Close does not close it.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db *sql.DB, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// tagsArg avoids sending NULL for a card without tags.
func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// Load implements store.DeckStore.Load.
// Returns an empty map for a deck with no rows.
func (s *PostgresDeckStore) Load(ctx context.Context, deck string) (leitner.BucketMap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.ValidateDeckName(deck); err != nil {
		return nil, err
	}

	buckets := leitner.BucketMap{}
	types := pgtype.NewMap()

	rows, err := s.db.QueryContext(ctx,
		`SELECT bucket FROM deck_buckets WHERE deck = $1 ORDER BY bucket`, deck)
	if err != nil {
		log.Error("failed to query buckets", slog.String("deck", deck), slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	for rows.Next() {
		var bucket int
		if err := rows.Scan(&bucket); err != nil {
			_ = rows.Close()
			return nil, MapError(err)
		}
		buckets[bucket] = leitner.NewCardSet()
	}
	if err := closeRows(rows); err != nil {
		return nil, MapError(err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT fingerprint, front, back, hint, tags, bucket
		FROM deck_cards
		WHERE deck = $1
		ORDER BY bucket, fingerprint
	`, deck)
	if err != nil {
		log.Error("failed to query cards", slog.String("deck", deck), slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	for rows.Next() {
		var (
			fingerprint string
			card        domain.Card
			bucket      int
		)
		if err := rows.Scan(
			&fingerprint,
			&card.Front,
			&card.Back,
			&card.Hint,
			types.SQLScanner(&card.Tags),
			&bucket,
		); err != nil {
			_ = rows.Close()
			return nil, MapError(err)
		}
		if len(card.Tags) == 0 {
			card.Tags = nil
		}
		if card.Fingerprint().String() != fingerprint {
			_ = rows.Close()
			log.Error("stored fingerprint does not match card",
				slog.String("deck", deck),
				slog.String("fingerprint", fingerprint))
			return nil, store.NewStoreError("deck", "load",
				fmt.Sprintf("card %s does not match its fingerprint", fingerprint), store.ErrInvalidEntity)
		}
		set, ok := buckets[bucket]
		if !ok {
			set = leitner.NewCardSet()
			buckets[bucket] = set
		}
		set.Add(card)
	}
	if err := closeRows(rows); err != nil {
		return nil, MapError(err)
	}

	log.Debug("deck loaded", slog.String("deck", deck), slog.Int("cards", buckets.Len()))
	return buckets, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}

// Save implements store.DeckStore.Save.
// The previous state of the deck is replaced in a single transaction.
func (s *PostgresDeckStore) Save(ctx context.Context, deck string, buckets leitner.BucketMap) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.ValidateDeckName(deck); err != nil {
		return err
	}
	if err := store.ValidateBuckets(buckets); err != nil {
		log.Warn("refusing to save invalid deck", slog.String("deck", deck), slog.String("error", err.Error()))
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return writeDeck(ctx, tx, deck, buckets)
	})
	if err != nil {
		log.Error("failed to save deck", slog.String("deck", deck), slog.String("error", err.Error()))
		return err
	}

	log.Debug("deck saved", slog.String("deck", deck), slog.Int("cards", buckets.Len()))
	return nil
}

// writeDeck replaces every bucket and card row of deck using q.
func writeDeck(ctx context.Context, q store.DBTX, deck string, buckets leitner.BucketMap) error {
	// deck_cards rows go with their bucket through ON DELETE CASCADE.
	if _, err := q.ExecContext(ctx, `DELETE FROM deck_buckets WHERE deck = $1`, deck); err != nil {
		return MapError(err)
	}

	for _, bucket := range buckets.Buckets() {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO deck_buckets (deck, bucket) VALUES ($1, $2)`, deck, bucket); err != nil {
			return MapError(err)
		}
	}

	for _, bucket := range buckets.Buckets() {
		for _, card := range buckets[bucket].Cards() {
			_, err := q.ExecContext(ctx, `
				INSERT INTO deck_cards (deck, fingerprint, front, back, hint, tags, bucket)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`,
				deck,
				card.Fingerprint().String(),
				card.Front,
				card.Back,
				card.Hint,
				tagsArg(card.Tags),
				bucket,
			)
			if err != nil {
				return MapError(err)
			}
		}
	}
	return nil
}

// AppendReview implements store.DeckStore.AppendReview.
// Returns store.ErrDuplicateReview if an event with the same ID exists.
func (s *PostgresDeckStore) AppendReview(ctx context.Context, deck string, event *domain.ReviewEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.ValidateDeckName(deck); err != nil {
		return err
	}
	if event == nil {
		return store.NewStoreError("review", "append", "event cannot be nil", store.ErrInvalidEntity)
	}
	if err := event.Validate(); err != nil {
		log.Warn("review validation failed during append",
			slog.String("error", err.Error()),
			slog.String("review_id", event.ID.String()))
		return store.NewStoreError("review", "append", "validation failed",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_events (
			id, deck, fingerprint, front, back, hint, tags,
			difficulty, day, from_bucket, to_bucket, reviewed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		event.ID,
		deck,
		event.Fingerprint.String(),
		event.Card.Front,
		event.Card.Back,
		event.Card.Hint,
		tagsArg(event.Card.Tags),
		event.Difficulty.String(),
		event.Day,
		event.FromBucket,
		event.ToBucket,
		event.ReviewedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate review event", slog.String("review_id", event.ID.String()))
			return fmt.Errorf("%w: %s", store.ErrDuplicateReview, event.ID)
		}
		log.Error("failed to append review",
			slog.String("error", err.Error()),
			slog.String("review_id", event.ID.String()))
		return MapError(err)
	}

	log.Debug("review appended",
		slog.String("deck", deck),
		slog.String("review_id", event.ID.String()),
		slog.String("difficulty", event.Difficulty.String()))
	return nil
}

// ListReviews implements store.DeckStore.ListReviews.
func (s *PostgresDeckStore) ListReviews(ctx context.Context, deck string) ([]domain.ReviewEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.ValidateDeckName(deck); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fingerprint, front, back, hint, tags,
		       difficulty, day, from_bucket, to_bucket, reviewed_at
		FROM review_events
		WHERE deck = $1
		ORDER BY seq
	`, deck)
	if err != nil {
		log.Error("failed to query reviews", slog.String("deck", deck), slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	events := []domain.ReviewEvent{}
	types := pgtype.NewMap()
	for rows.Next() {
		var (
			ev          domain.ReviewEvent
			fingerprint string
			difficulty  string
		)
		if err := rows.Scan(
			&ev.ID,
			&fingerprint,
			&ev.Card.Front,
			&ev.Card.Back,
			&ev.Card.Hint,
			types.SQLScanner(&ev.Card.Tags),
			&difficulty,
			&ev.Day,
			&ev.FromBucket,
			&ev.ToBucket,
			&ev.ReviewedAt,
		); err != nil {
			_ = rows.Close()
			return nil, MapError(err)
		}
		if len(ev.Card.Tags) == 0 {
			ev.Card.Tags = nil
		}
		if ev.Fingerprint, err = domain.ParseFingerprint(fingerprint); err != nil {
			_ = rows.Close()
			return nil, store.NewStoreError("review", "list", "stored fingerprint is malformed",
				fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
		}
		if ev.Difficulty, err = domain.ParseDifficulty(difficulty); err != nil {
			_ = rows.Close()
			return nil, store.NewStoreError("review", "list", "stored difficulty is malformed",
				fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
		}
		events = append(events, ev)
	}
	if err := closeRows(rows); err != nil {
		return nil, MapError(err)
	}
	return events, nil
}

// Decks implements store.DeckStore.Decks.
func (s *PostgresDeckStore) Decks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT deck FROM deck_buckets
		UNION
		SELECT deck FROM review_events
		ORDER BY deck
	`)
	if err != nil {
		return nil, MapError(err)
	}

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return nil, MapError(err)
		}
		names = append(names, name)
	}
	if err := closeRows(rows); err != nil {
		return nil, MapError(err)
	}
	return names, nil
}

// Close implements store.DeckStore.Close. The pool belongs to the caller and stays open.
func (s *PostgresDeckStore) Close() error {
	return nil
}
