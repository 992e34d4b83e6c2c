package db

import "errors"

// Errors returned while opening and migrating the history database.
var (
	// ErrFailedToParseDBConfig is returned for an empty or malformed DATABASE_CONN_URL.
	ErrFailedToParseDBConfig = errors.New("db: invalid connection settings")

	// ErrFailedToOpenDBConnection is returned when no attempt reached the server.
	ErrFailedToOpenDBConnection = errors.New("db: database unreachable")

	// ErrHealthcheckFailed is returned by the readiness check.
	ErrHealthcheckFailed = errors.New("db: readiness check failed")

	// ErrSetDialect is returned when goose rejects the postgres dialect.
	ErrSetDialect = errors.New("db: migrations: unsupported dialect")

	// ErrApplyMigrations is returned when a history migration fails.
	ErrApplyMigrations = errors.New("db: migrations: apply failed")
)
