package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/phrazzld/leitner/internal/platform/postgres"
	"github.com/phrazzld/leitner/internal/store"
	"github.com/phrazzld/leitner/internal/store/storetest"
	"github.com/stretchr/testify/require"
)

// TestDatabaseURLEnv names the variable that enables the database tests.
const TestDatabaseURLEnv = "LEITNER_TEST_DATABASE_URL"

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv(TestDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL tests", TestDatabaseURLEnv)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, nil))
	return db
}

func truncate(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`TRUNCATE deck_cards, deck_buckets, review_events`)
	require.NoError(t, err)
}

func TestPostgresDeckStore(t *testing.T) {
	db := openTestDB(t)

	storetest.RunDeckStoreTests(t, func(t *testing.T) store.DeckStore {
		truncate(t, db)
		return postgres.NewPostgresDeckStore(db, nil)
	})
}

func TestMigrateDownAndUp(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateDown, nil))
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateStatus, nil))
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, nil))
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateVersion, nil))
}
