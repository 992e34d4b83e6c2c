package redis

import "errors"

// Connection errors. Open and OpenConfig join the driver error onto them.
var (
	// ErrEmptyConnectionURL is returned when REDIS_URL is empty.
	ErrEmptyConnectionURL = errors.New("redis: connection url is required")

	// ErrFailedToParseURL is returned for a url go-redis cannot parse.
	ErrFailedToParseURL = errors.New("redis: invalid connection url")

	// ErrConnectionFailed is returned when PING keeps failing after all retries.
	ErrConnectionFailed = errors.New("redis: server unreachable")

	// ErrHealthcheckFailed is returned by the readiness check.
	ErrHealthcheckFailed = errors.New("redis: readiness check failed")

	errClientNil = errors.New("client is nil")
)
