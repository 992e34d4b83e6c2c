package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found at the root of migrations.
// Goose keeps its settings in package globals, so concurrent calls must not overlap.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, migrationTable string, log *slog.Logger) error {
	// The wrapper shares the pool's connections; closing it would close the pool.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	if migrationTable != "" {
		goose.SetTableName(migrationTable)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	if g.log != nil {
		g.log.Info(fmt.Sprintf(format, args...))
	}
}

// Fatalf only logs: goose returns the error afterwards and the caller decides.
func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	if g.log != nil {
		g.log.Error(fmt.Sprintf(format, args...))
	}
}
