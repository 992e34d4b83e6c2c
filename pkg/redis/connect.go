package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures a Redis connection.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	poolSize      int
	minIdleConns  int
	retryAttempts int
	retryInterval time.Duration
	dialTimeout   time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration
}

func defaultOptions() *options {
	return &options{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		poolSize:      10,
		minIdleConns:  2,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		dialTimeout:   5 * time.Second,
		readTimeout:   3 * time.Second,
		writeTimeout:  3 * time.Second,
	}
}

// WithPoolSize sets the maximum number of connections in the pool.
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}

// WithMinIdleConns sets the minimum number of idle connections kept open.
func WithMinIdleConns(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minIdleConns = n
		}
	}
}

// WithRetry configures startup connection attempts. The wait between
// attempts grows linearly: interval, 2*interval, ...
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithTimeouts sets dial, read and write timeouts. Zero values keep the defaults.
func WithTimeouts(dial, read, write time.Duration) Option {
	return func(o *options) {
		if dial > 0 {
			o.dialTimeout = dial
		}
		if read > 0 {
			o.readTimeout = read
		}
		if write > 0 {
			o.writeTimeout = write
		}
	}
}

// WithLogger logs failed connection attempts.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Open creates a Redis client and waits until it answers PING.
// Supports both redis:// and rediss:// (TLS) URL schemes.
//
// Example:
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0",
//	    redis.WithPoolSize(20),
//	    redis.WithRetry(5, time.Second),
//	)
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	redisOpts.PoolSize = o.poolSize
	redisOpts.MinIdleConns = o.minIdleConns
	redisOpts.DialTimeout = o.dialTimeout
	redisOpts.ReadTimeout = o.readTimeout
	redisOpts.WriteTimeout = o.writeTimeout

	return connect(ctx, redisOpts, o)
}

// OpenConfig opens a client from cfg.
func OpenConfig(ctx context.Context, cfg Config, logger *slog.Logger) (redis.UniversalClient, error) {
	return Open(ctx, cfg.URL, append(cfg.options(), WithLogger(logger))...)
}

func connect(ctx context.Context, opts *redis.Options, o *options) (redis.UniversalClient, error) {
	attempts := max(o.retryAttempts, 1)

	var lastErr error
	for i := range attempts {
		client := redis.NewClient(opts)

		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		o.logger.WarnContext(ctx, "redis connection attempt failed",
			slog.Int("attempt", i+1),
			slog.Int("attempts", attempts),
			slog.String("addr", opts.Addr),
			slog.Any("error", lastErr),
		)

		if i == attempts-1 {
			break
		}
		if err := wait(ctx, time.Duration(i+1)*o.retryInterval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
