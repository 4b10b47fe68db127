package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsDir = "migrations"

	// MigrationTableName is the table goose uses to record applied versions.
	MigrationTableName = "leitner_schema_migrations"
)

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateReset   = "reset"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// MigrateCommands lists the commands Migrate accepts.
func MigrateCommands() []string {
	return []string{MigrateUp, MigrateDown, MigrateReset, MigrateStatus, MigrateVersion}
}

// goose keeps its configuration in package state.
var gooseMu sync.Mutex

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at info level.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. It does not exit; goose's error is returned to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func configureGoose(logger *slog.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// Migrate runs a goose command against db using the embedded migrations.
// Each run is tagged with a correlation id in the logs.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.NewString()),
		slog.String("command", command),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configureGoose(log); err != nil {
		return err
	}

	start := time.Now()
	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db, migrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, db, migrationsDir)
	case MigrateReset:
		err = goose.ResetContext(ctx, db, migrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, migrationsDir)
	case MigrateVersion:
		err = goose.VersionContext(ctx, db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command: %s (expected one of %v)", command, MigrateCommands())
	}

	if err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command executed",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// EmbeddedMigrations returns the versions of the migrations compiled into
// the binary, in ascending order.
func EmbeddedMigrations() ([]int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to collect migrations: %w", err)
	}

	versions := make([]int64, 0, len(migrations))
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}
	return versions, nil
}
