package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	portlocker "github.com/alanyang/agent-status/internal/port/locker"
)

// MigrationLockKey is the advisory lock held while migrations run.
const MigrationLockKey int64 = 0x6167656e74 // "agent"

//go:embed migrations/*.sql
var migrations embed.FS

func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// Migrate applies every embedded migration in name order. Migrations are
// written to be re-runnable.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		slog.InfoContext(ctx, "migration applied", "name", name)
	}
	return nil
}

// MigrateLocked runs Migrate under the migration advisory lock so instances
// starting together do not race on DDL.
func MigrateLocked(ctx context.Context, pool *pgxpool.Pool, l portlocker.AdvisoryLocker) error {
	return l.WithLock(ctx, MigrationLockKey, func(ctx context.Context) error {
		return Migrate(ctx, pool)
	})
}
