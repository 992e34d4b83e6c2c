// Package db connects to the PostgreSQL database that stores delivery history.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries, a
// readiness check, a shutdown hook and goose migrations
// ([github.com/pressly/goose/v3]).
//
// # Configuration
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (empty disables history)
//	DATABASE_MIGRATIONS_TABLE   - Goose table name (default: outreach_migrations)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 5)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 1)
//	DATABASE_HEALTHCHECK_PERIOD - Pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg.DB, log)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, history.Migrations(), cfg.DB.MigrationsTable, log); err != nil {
//		return err
//	}
//
//	checks := health.Checks{"postgres": db.Healthcheck(pool)}
//	err := server.Run(handler, server.ShutdownHook(db.Shutdown(pool)))
package db
